package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"

	"go.uber.org/zap"
)

// PassService issues visitor passes and reports quota.
type PassService interface {
	IssuePass(ctx context.Context, req IssuePassRequest) (*IssuePassResponse, error)
	ListUserPasses(ctx context.Context, userID string) (*ListPassesResponse, error)
	GetQuota(ctx context.Context, userID string) (*QuotaResponse, error)
}

type passService struct {
	passesRepo   repository.PassesRepository
	vehiclesRepo repository.VehiclesRepository
	tiers        []domain.PassTier
	logger       *zap.Logger
	now          func() time.Time
}

// NewPassService creates a PassService. tiers is the single catalog used
// for both issuance and quota display.
func NewPassService(passesRepo repository.PassesRepository, vehiclesRepo repository.VehiclesRepository, tiers []domain.PassTier, logger *zap.Logger) PassService {
	return &passService{
		passesRepo:   passesRepo,
		vehiclesRepo: vehiclesRepo,
		tiers:        tiers,
		logger:       logger,
		now:          time.Now,
	}
}

// IssuePassRequest carries a pass issuance.
type IssuePassRequest struct {
	UserID       string
	Hours        int
	VisitorPlate string // "REGION-PLATE" in any casing/spacing
}

// IssuePassResponse returns the created pass.
type IssuePassResponse struct {
	Pass *PassDTO
}

// ListPassesResponse lists a user's passes with derived status.
type ListPassesResponse struct {
	Passes []*PassDTO
}

// QuotaResponse reports per-tier remaining quota.
type QuotaResponse struct {
	Quota []TierQuotaDTO
}

// PassDTO is the wire shape of a visitor pass.
type PassDTO struct {
	PassID        string `json:"visitorPassId"`
	UserID        string `json:"userId"`
	Hours         int    `json:"hours"`
	VisitorPlate  string `json:"visitorPlate"`
	CreatedAt     string `json:"createdAt"`
	ValidUntil    string `json:"validTime"`
	Status        string `json:"status"`
	TimeRemaining string `json:"timeRemaining"`
}

// TierQuotaDTO is the wire shape of one tier's quota.
type TierQuotaDTO struct {
	Type      string `json:"type"`
	Hours     int    `json:"hours"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
}

func passToDTO(p *domain.VisitorPass, now time.Time) *PassDTO {
	return &PassDTO{
		PassID:        p.PassID,
		UserID:        p.UserID,
		Hours:         p.Hours,
		VisitorPlate:  p.VisitorPlate,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		ValidUntil:    p.ValidUntil.Format(time.RFC3339),
		Status:        p.Status(now),
		TimeRemaining: p.TimeRemaining(now),
	}
}

// splitPlateKey splits a canonical "REGION-PLATE" into its parts. The
// region is everything before the first dash.
func splitPlateKey(key string) (region, plate string, ok bool) {
	idx := strings.Index(key, "-")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}

// IssuePass validates the request, then inserts the pass through the
// quota-guarded repository call. Validity is persisted at issuance as
// created_at + hours; nothing re-derives it later.
func (s *passService) IssuePass(ctx context.Context, req IssuePassRequest) (*IssuePassResponse, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}

	tier, ok := domain.TierForHours(s.tiers, req.Hours)
	if !ok {
		return nil, fmt.Errorf("no pass tier for %d hours: %w", req.Hours, domain.ErrInvalidPassType)
	}

	plateKey := domain.NormalizePlate(req.VisitorPlate)
	region, plate, ok := splitPlateKey(plateKey)
	if !ok {
		return nil, fmt.Errorf("visitor plate must include region, e.g. ON-ABC123: %w", domain.ErrValidation)
	}

	now := s.now()
	pass := &domain.VisitorPass{
		UserID:       req.UserID,
		Hours:        tier.Hours,
		VisitorPlate: plateKey,
		CreatedAt:    now,
		ValidUntil:   now.Add(time.Duration(tier.Hours) * time.Hour),
	}

	passID, err := s.passesRepo.IssuePass(ctx, pass, tier.Total)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return nil, fmt.Errorf("no remaining %d-hour passes: %w", tier.Hours, domain.ErrQuotaExceeded)
		}
		s.logger.Error("IssuePass failed", zap.Error(err))
		return nil, fmt.Errorf("failed to issue pass: %w", err)
	}
	pass.PassID = passID

	// Keep the vehicle's parking window in sync so plate verification sees
	// the pass. An unregistered visitor vehicle is fine.
	if err := s.vehiclesRepo.ExtendParking(ctx, region, plate, pass.ValidUntil); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("failed to extend vehicle parking window",
			zap.String("plate", plateKey), zap.Error(err))
	}

	return &IssuePassResponse{Pass: passToDTO(pass, now)}, nil
}

func (s *passService) ListUserPasses(ctx context.Context, userID string) (*ListPassesResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}

	passes, err := s.passesRepo.ListUserPasses(ctx, userID)
	if err != nil {
		s.logger.Error("ListUserPasses failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}

	now := s.now()
	items := make([]*PassDTO, 0, len(passes))
	for _, p := range passes {
		items = append(items, passToDTO(p, now))
	}
	return &ListPassesResponse{Passes: items}, nil
}

func (s *passService) GetQuota(ctx context.Context, userID string) (*QuotaResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required: %w", domain.ErrValidation)
	}

	now := s.now()
	quota := make([]TierQuotaDTO, 0, len(s.tiers))
	for _, tier := range s.tiers {
		used, err := s.passesRepo.CountActivePasses(ctx, userID, tier.Hours, now)
		if err != nil {
			s.logger.Error("CountActivePasses failed", zap.Error(err))
			return nil, fmt.Errorf("failed to count passes: %w", err)
		}
		remaining := tier.Total - used
		if remaining < 0 {
			remaining = 0
		}
		quota = append(quota, TierQuotaDTO{
			Type:      fmt.Sprintf("%d hour", tier.Hours),
			Hours:     tier.Hours,
			Total:     tier.Total,
			Remaining: remaining,
		})
	}
	return &QuotaResponse{Quota: quota}, nil
}
