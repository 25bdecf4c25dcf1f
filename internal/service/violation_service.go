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

// ViolationService creates tickets and walks their status state machine.
type ViolationService interface {
	CreateViolation(ctx context.Context, req CreateViolationRequest) (*CreateViolationResponse, error)
	ListViolations(ctx context.Context, req ListViolationsRequest) (*ListViolationsResponse, error)
	ListUserViolations(ctx context.Context, userID string) (*ListViolationsResponse, error)
	UpdateStatus(ctx context.Context, ticketID, status string) error
}

type violationService struct {
	violationsRepo repository.ViolationsRepository
	logger         *zap.Logger
	now            func() time.Time
}

func NewViolationService(violationsRepo repository.ViolationsRepository, logger *zap.Logger) ViolationService {
	return &violationService{
		violationsRepo: violationsRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateViolationRequest carries a ticket. Reason may be free text or one
// of the fixed reasons.
type CreateViolationRequest struct {
	Province     string
	LicensePlate string
	Reason       string
	LotID        string
	VehicleID    string // optional
}

// CreateViolationResponse returns the generated ticket id.
type CreateViolationResponse struct {
	TicketID string
}

// ListViolationsRequest narrows an admin listing.
type ListViolationsRequest struct {
	Status       string
	Province     string
	LicensePlate string
	Page         int
	Size         int
}

// ListViolationsResponse lists tickets.
type ListViolationsResponse struct {
	Violations []*ViolationDTO
	Total      int
}

// ViolationDTO is the wire shape of a violation ticket.
type ViolationDTO struct {
	TicketID     string `json:"ticketId"`
	Province     string `json:"province"`
	LicensePlate string `json:"licensePlate"`
	Reason       string `json:"reason"`
	Time         string `json:"time"`
	LotID        string `json:"lotId"`
	VehicleID    string `json:"vehicleId,omitempty"`
	Status       string `json:"status"`
}

func violationToDTO(v *domain.Violation) *ViolationDTO {
	dto := &ViolationDTO{
		TicketID:     v.TicketID,
		Province:     v.Province,
		LicensePlate: v.LicensePlate,
		Reason:       v.Reason,
		Time:         v.Time.Format(time.RFC3339),
		LotID:        v.LotID,
		Status:       v.Status,
	}
	if v.VehicleID.Valid {
		dto.VehicleID = v.VehicleID.String
	}
	return dto
}

// CreateViolation persists a pending ticket. Repeat tickets for the same
// plate are accepted; enforcement may ticket more than once.
func (s *violationService) CreateViolation(ctx context.Context, req CreateViolationRequest) (*CreateViolationResponse, error) {
	province := domain.NormalizePlate(req.Province)
	plate := domain.NormalizePlate(req.LicensePlate)
	if province == "" || plate == "" {
		return nil, fmt.Errorf("province and license_plate are required: %w", domain.ErrValidation)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("reason is required: %w", domain.ErrValidation)
	}
	if req.LotID == "" {
		return nil, fmt.Errorf("lot_id is required: %w", domain.ErrValidation)
	}

	v := &domain.Violation{
		Province:     province,
		LicensePlate: plate,
		Reason:       req.Reason,
		Time:         s.now(),
		LotID:        req.LotID,
		Status:       domain.ViolationPending,
	}
	if req.VehicleID != "" {
		v.VehicleID = sql.NullString{String: req.VehicleID, Valid: true}
	}

	ticketID, err := s.violationsRepo.CreateViolation(ctx, v)
	if err != nil {
		s.logger.Error("CreateViolation failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create violation: %w", err)
	}
	return &CreateViolationResponse{TicketID: ticketID}, nil
}

func (s *violationService) ListViolations(ctx context.Context, req ListViolationsRequest) (*ListViolationsResponse, error) {
	filters := repository.ViolationFilters{
		Status:       req.Status,
		Province:     domain.NormalizePlate(req.Province),
		LicensePlate: domain.NormalizePlate(req.LicensePlate),
	}
	violations, total, err := s.violationsRepo.ListViolations(ctx, filters, req.Page, req.Size)
	if err != nil {
		s.logger.Error("ListViolations failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}

	items := make([]*ViolationDTO, 0, len(violations))
	for _, v := range violations {
		items = append(items, violationToDTO(v))
	}
	return &ListViolationsResponse{Violations: items, Total: total}, nil
}

func (s *violationService) ListUserViolations(ctx context.Context, userID string) (*ListViolationsResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}
	violations, err := s.violationsRepo.ListUserViolations(ctx, userID)
	if err != nil {
		s.logger.Error("ListUserViolations failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}

	items := make([]*ViolationDTO, 0, len(violations))
	for _, v := range violations {
		items = append(items, violationToDTO(v))
	}
	return &ListViolationsResponse{Violations: items, Total: len(items)}, nil
}

// UpdateStatus applies a manual transition (appeal, resolve). Payments flip
// tickets to paid through PaymentService instead.
func (s *violationService) UpdateStatus(ctx context.Context, ticketID, status string) error {
	if ticketID == "" {
		return fmt.Errorf("ticket_id is required: %w", domain.ErrValidation)
	}
	switch status {
	case domain.ViolationPaid, domain.ViolationAppealed, domain.ViolationResolved:
	default:
		return fmt.Errorf("invalid status %q: %w", status, domain.ErrValidation)
	}

	current, err := s.violationsRepo.GetViolation(ctx, ticketID)
	if err != nil {
		return err
	}
	if !domain.ValidViolationTransition(current.Status, status) {
		return fmt.Errorf("cannot move violation from %s to %s: %w", current.Status, status, domain.ErrValidation)
	}

	if err := s.violationsRepo.UpdateStatus(ctx, ticketID, status); err != nil {
		s.logger.Error("UpdateStatus failed", zap.Error(err))
		return fmt.Errorf("failed to update violation: %w", err)
	}
	return nil
}
