package httpapi

import (
	"net/http"

	"parkwatch/internal/service"

	"go.uber.org/zap"
)

// PaymentHandler serves payment recording and history.
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

type recordPaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	CardNumber    string  `json:"cardNumber"`
	UserID        string  `json:"userId"`
	LotID         string  `json:"lotId"`
	TicketID      string  `json:"ticketId"`
}

type recordPaymentResponse struct {
	Result
	Payment *service.RecordPaymentResponse `json:"data"`
}

type listPaymentsResponse struct {
	Result
	Payments []*service.PaymentDTO `json:"payments"`
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	resp, err := h.paymentService.RecordPayment(r.Context(), service.RecordPaymentRequest{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		UserID:        req.UserID,
		LotID:         req.LotID,
		TicketID:      req.TicketID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordPaymentResponse{Result: Ok(), Payment: resp})
}

func (h *PaymentHandler) ListUserPayments(w http.ResponseWriter, r *http.Request, userID string) {
	resp, err := h.paymentService.ListUserPayments(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPaymentsResponse{Result: Ok(), Payments: resp.Payments})
}
