package service

import (
	"context"
	"fmt"
	"time"

	"parkwatch/internal/repository"

	"go.uber.org/zap"
)

// LotService reads parking lots with derived availability.
type LotService interface {
	ListLots(ctx context.Context) (*ListLotsResponse, error)
}

type lotService struct {
	lotsRepo repository.LotsRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewLotService(lotsRepo repository.LotsRepository, logger *zap.Logger) LotService {
	return &lotService{lotsRepo: lotsRepo, logger: logger, now: time.Now}
}

// ListLotsResponse lists lots.
type ListLotsResponse struct {
	Lots []*LotDTO
}

// LotDTO is the wire shape of a parking lot. AvailableSpaces is derived at
// read time.
type LotDTO struct {
	LotID           string `json:"lotId"`
	LotName         string `json:"lotName"`
	TotalSpaces     int    `json:"totalSpaces"`
	AvailableSpaces int    `json:"availableSpaces"`
}

func (s *lotService) ListLots(ctx context.Context) (*ListLotsResponse, error) {
	lots, err := s.lotsRepo.ListLotsWithAvailability(ctx, s.now())
	if err != nil {
		s.logger.Error("ListLots failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	items := make([]*LotDTO, 0, len(lots))
	for _, l := range lots {
		items = append(items, &LotDTO{
			LotID:           l.Lot.LotID,
			LotName:         l.Lot.LotName,
			TotalSpaces:     l.Lot.TotalSpaces,
			AvailableSpaces: l.Available,
		})
	}
	return &ListLotsResponse{Lots: items}, nil
}
