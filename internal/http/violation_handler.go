package httpapi

import (
	"net/http"

	"parkwatch/internal/service"

	"go.uber.org/zap"
)

// ViolationHandler serves ticket creation, listing, and status updates.
type ViolationHandler struct {
	violationService service.ViolationService
	logger           *zap.Logger
}

func NewViolationHandler(violationService service.ViolationService, logger *zap.Logger) *ViolationHandler {
	return &ViolationHandler{violationService: violationService, logger: logger}
}

type createViolationRequest struct {
	Province     string `json:"province"`
	LicensePlate string `json:"licensePlate"`
	Reason       string `json:"reason"`
	LotID        string `json:"lotId"`
	VehicleID    string `json:"vehicleId"`
}

type createViolationResponse struct {
	Result
	TicketID string `json:"ticketId"`
}

type listViolationsResponse struct {
	Result
	Violations []*service.ViolationDTO `json:"violations"`
	Total      int                     `json:"total"`
}

type updateViolationStatusRequest struct {
	Status string `json:"status"`
}

func (h *ViolationHandler) CreateViolation(w http.ResponseWriter, r *http.Request) {
	var req createViolationRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	resp, err := h.violationService.CreateViolation(r.Context(), service.CreateViolationRequest{
		Province:     req.Province,
		LicensePlate: req.LicensePlate,
		Reason:       req.Reason,
		LotID:        req.LotID,
		VehicleID:    req.VehicleID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createViolationResponse{Result: Ok(), TicketID: resp.TicketID})
}

func (h *ViolationHandler) ListViolations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.violationService.ListViolations(r.Context(), service.ListViolationsRequest{
		Status:       q.Get("status"),
		Province:     q.Get("province"),
		LicensePlate: q.Get("licensePlate"),
		Page:         parseInt(q.Get("page"), 1),
		Size:         parseInt(q.Get("size"), 20),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listViolationsResponse{Result: Ok(), Violations: resp.Violations, Total: resp.Total})
}

func (h *ViolationHandler) ListUserViolations(w http.ResponseWriter, r *http.Request, userID string) {
	resp, err := h.violationService.ListUserViolations(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listViolationsResponse{Result: Ok(), Violations: resp.Violations, Total: resp.Total})
}

func (h *ViolationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ticketID string) {
	var req updateViolationStatusRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	if err := h.violationService.UpdateStatus(r.Context(), ticketID, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok())
}
