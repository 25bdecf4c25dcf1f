package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"parkwatch/internal/domain"

	"github.com/google/uuid"
)

// MemoryPassesRepo supports unit tests and DB-less local runs. The mutex
// makes the quota check-then-insert atomic, mirroring the conditional
// INSERT of the Postgres implementation.
type MemoryPassesRepo struct {
	mu     sync.Mutex
	passes map[string]domain.VisitorPass // passID -> pass
}

func NewMemoryPassesRepo() *MemoryPassesRepo {
	return &MemoryPassesRepo{passes: map[string]domain.VisitorPass{}}
}

var _ PassesRepository = (*MemoryPassesRepo)(nil)

func (r *MemoryPassesRepo) IssuePass(_ context.Context, pass *domain.VisitorPass, tierTotal int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, p := range r.passes {
		if p.UserID == pass.UserID && p.Hours == pass.Hours && p.ValidUntil.After(pass.CreatedAt) {
			count++
		}
	}
	if count >= tierTotal {
		return "", domain.ErrQuotaExceeded
	}

	id := uuid.NewString()
	stored := *pass
	stored.PassID = id
	r.passes[id] = stored
	return id, nil
}

func (r *MemoryPassesRepo) ListUserPasses(_ context.Context, userID string) ([]*domain.VisitorPass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	passes := []*domain.VisitorPass{}
	for _, p := range r.passes {
		if p.UserID == userID {
			pass := p
			passes = append(passes, &pass)
		}
	}
	sort.Slice(passes, func(i, j int) bool {
		return passes[i].CreatedAt.After(passes[j].CreatedAt)
	})
	return passes, nil
}

func (r *MemoryPassesRepo) CountActivePasses(_ context.Context, userID string, hours int, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.passes {
		if p.UserID == userID && p.Hours == hours && p.ValidUntil.After(now) {
			count++
		}
	}
	return count, nil
}
