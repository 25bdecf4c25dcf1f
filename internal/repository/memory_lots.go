package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"parkwatch/internal/domain"

	"github.com/google/uuid"
)

// MemoryLotsRepo supports unit tests and DB-less local runs. Availability
// is derived from the vehicles repo at read time, same as Postgres.
type MemoryLotsRepo struct {
	mu       sync.RWMutex
	lots     map[string]domain.ParkingLot // lotID -> lot
	vehicles *MemoryVehiclesRepo
}

func NewMemoryLotsRepo(vehicles *MemoryVehiclesRepo) *MemoryLotsRepo {
	return &MemoryLotsRepo{
		lots:     map[string]domain.ParkingLot{},
		vehicles: vehicles,
	}
}

var _ LotsRepository = (*MemoryLotsRepo)(nil)

// AddLot seeds a lot; used by tests and DB-less bootstrap.
func (r *MemoryLotsRepo) AddLot(lot domain.ParkingLot) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lot.LotID == "" {
		lot.LotID = uuid.NewString()
	}
	r.lots[lot.LotID] = lot
	return lot.LotID
}

func (r *MemoryLotsRepo) GetLot(_ context.Context, lotID string) (*domain.ParkingLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lot, ok := r.lots[lotID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &lot, nil
}

func (r *MemoryLotsRepo) ListLotsWithAvailability(ctx context.Context, now time.Time) ([]LotAvailability, error) {
	r.mu.RLock()
	lots := make([]domain.ParkingLot, 0, len(r.lots))
	for _, lot := range r.lots {
		lots = append(lots, lot)
	}
	r.mu.RUnlock()

	sort.Slice(lots, func(i, j int) bool { return lots[i].LotName < lots[j].LotName })

	result := []LotAvailability{}
	for i := range lots {
		parked, err := r.vehicles.CountParked(ctx, lots[i].LotID, now)
		if err != nil {
			return nil, err
		}
		available := lots[i].TotalSpaces - parked
		if available < 0 {
			available = 0
		}
		result = append(result, LotAvailability{Lot: &lots[i], Available: available})
	}
	return result, nil
}
