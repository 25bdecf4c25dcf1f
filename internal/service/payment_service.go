package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"

	"go.uber.org/zap"
)

// PaymentService records payments and settles violation tickets.
type PaymentService interface {
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResponse, error)
	ListUserPayments(ctx context.Context, userID string) (*ListPaymentsResponse, error)
}

type paymentService struct {
	paymentsRepo   repository.PaymentsRepository
	violationsRepo repository.ViolationsRepository
	gateway        PaymentGateway // nil when the external processor is disabled
	logger         *zap.Logger
}

func NewPaymentService(paymentsRepo repository.PaymentsRepository, violationsRepo repository.ViolationsRepository, gateway PaymentGateway, logger *zap.Logger) PaymentService {
	return &paymentService{
		paymentsRepo:   paymentsRepo,
		violationsRepo: violationsRepo,
		gateway:        gateway,
		logger:         logger,
	}
}

// RecordPaymentRequest carries a payment.
type RecordPaymentRequest struct {
	Amount        float64
	PaymentMethod string
	CardNumber    string
	UserID        string
	LotID         string
	TicketID      string // optional
}

// RecordPaymentResponse returns the created payment.
type RecordPaymentResponse struct {
	PayID  string  `json:"payId"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

// ListPaymentsResponse lists a user's payments.
type ListPaymentsResponse struct {
	Payments []*PaymentDTO
}

// PaymentDTO is the wire shape of a payment.
type PaymentDTO struct {
	PayID     string  `json:"payId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	CardLast4 string  `json:"cardLast4"`
	LotID     string  `json:"lotId,omitempty"`
	TicketID  string  `json:"ticketId,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// RecordPayment validates before any persistence, optionally authorizes the
// charge externally, then inserts the payment. When a ticket is referenced
// the violation flips to paid inside the same repository transaction, and a
// ticket already settled is rejected rather than paid twice.
func (s *paymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	if req.PaymentMethod == "" {
		return nil, fmt.Errorf("payment method is required: %w", domain.ErrValidation)
	}
	if !domain.ValidCardNumber(req.CardNumber) {
		return nil, fmt.Errorf("card number must be 13-19 digits: %w", domain.ErrValidation)
	}

	if req.TicketID != "" {
		violation, err := s.violationsRepo.GetViolation(ctx, req.TicketID)
		if err != nil {
			return nil, err
		}
		if !domain.ValidViolationTransition(violation.Status, domain.ViolationPaid) {
			return nil, fmt.Errorf("violation %s is already %s: %w", req.TicketID, violation.Status, domain.ErrValidation)
		}
	}

	if s.gateway != nil {
		err := s.gateway.Authorize(ctx, GatewayAuthorizeRequest{
			Amount:     req.Amount,
			Method:     req.PaymentMethod,
			CardNumber: req.CardNumber,
			Reference:  req.TicketID,
		})
		if err != nil {
			s.logger.Error("gateway authorization failed", zap.Error(err))
			return nil, fmt.Errorf("payment authorization failed: %w", err)
		}
	}

	p := &domain.Payment{
		Amount:    req.Amount,
		Method:    req.PaymentMethod,
		CardLast4: domain.MaskCard(req.CardNumber),
		UserID:    req.UserID,
		Status:    domain.PaymentCompleted,
	}
	if req.LotID != "" {
		p.LotID = sql.NullString{String: req.LotID, Valid: true}
	}
	if req.TicketID != "" {
		p.TicketID = sql.NullString{String: req.TicketID, Valid: true}
	}

	payID, err := s.paymentsRepo.CreatePayment(ctx, p)
	if err != nil {
		s.logger.Error("RecordPayment failed", zap.Error(err))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return &RecordPaymentResponse{
		PayID:  payID,
		Amount: req.Amount,
		Status: domain.PaymentCompleted,
	}, nil
}

func (s *paymentService) ListUserPayments(ctx context.Context, userID string) (*ListPaymentsResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}
	payments, err := s.paymentsRepo.ListUserPayments(ctx, userID)
	if err != nil {
		s.logger.Error("ListUserPayments failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	items := make([]*PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dto := &PaymentDTO{
			PayID:     p.PayID,
			Amount:    p.Amount,
			Method:    p.Method,
			CardLast4: p.CardLast4,
			Status:    p.Status,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		}
		if p.LotID.Valid {
			dto.LotID = p.LotID.String
		}
		if p.TicketID.Valid {
			dto.TicketID = p.TicketID.String
		}
		items = append(items, dto)
	}
	return &ListPaymentsResponse{Payments: items}, nil
}
