package repository

import (
	"context"
	"sort"
	"sync"

	"parkwatch/internal/domain"

	"github.com/google/uuid"
)

// MemoryViolationsRepo supports unit tests and DB-less local runs. It is
// handed the vehicles repo so user-scoped listing can resolve plates.
type MemoryViolationsRepo struct {
	mu         sync.RWMutex
	violations map[string]domain.Violation // ticketID -> violation
	vehicles   *MemoryVehiclesRepo
}

func NewMemoryViolationsRepo(vehicles *MemoryVehiclesRepo) *MemoryViolationsRepo {
	return &MemoryViolationsRepo{
		violations: map[string]domain.Violation{},
		vehicles:   vehicles,
	}
}

var _ ViolationsRepository = (*MemoryViolationsRepo)(nil)

func (r *MemoryViolationsRepo) CreateViolation(_ context.Context, v *domain.Violation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	stored := *v
	stored.TicketID = id
	r.violations[id] = stored
	return id, nil
}

func (r *MemoryViolationsRepo) GetViolation(_ context.Context, ticketID string) (*domain.Violation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.violations[ticketID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (r *MemoryViolationsRepo) ListViolations(_ context.Context, filters ViolationFilters, page, size int) ([]*domain.Violation, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Violation{}
	for _, v := range r.violations {
		if filters.Status != "" && v.Status != filters.Status {
			continue
		}
		if filters.Province != "" && v.Province != filters.Province {
			continue
		}
		if filters.LicensePlate != "" && v.LicensePlate != filters.LicensePlate {
			continue
		}
		violation := v
		all = append(all, &violation)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Time.After(all[j].Time)
	})

	total := len(all)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryViolationsRepo) ListUserViolations(ctx context.Context, userID string) ([]*domain.Violation, error) {
	vehicles, err := r.vehicles.ListUserVehicles(ctx, userID)
	if err != nil {
		return nil, err
	}
	plates := map[string]bool{}
	for _, v := range vehicles {
		plates[v.Province+"-"+v.LicensePlate] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	violations := []*domain.Violation{}
	for _, v := range r.violations {
		if plates[v.Province+"-"+v.LicensePlate] {
			violation := v
			violations = append(violations, &violation)
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Time.After(violations[j].Time)
	})
	return violations, nil
}

func (r *MemoryViolationsRepo) UpdateStatus(_ context.Context, ticketID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.violations[ticketID]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	r.violations[ticketID] = v
	return nil
}
