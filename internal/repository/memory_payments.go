package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parkwatch/internal/domain"

	"github.com/google/uuid"
)

// MemoryPaymentsRepo supports unit tests and DB-less local runs. It is
// handed the violations repo so a payment can flip its ticket, matching the
// transactional Postgres implementation.
type MemoryPaymentsRepo struct {
	mu         sync.Mutex
	payments   map[string]domain.Payment // payID -> payment
	violations *MemoryViolationsRepo
}

func NewMemoryPaymentsRepo(violations *MemoryViolationsRepo) *MemoryPaymentsRepo {
	return &MemoryPaymentsRepo{
		payments:   map[string]domain.Payment{},
		violations: violations,
	}
}

var _ PaymentsRepository = (*MemoryPaymentsRepo)(nil)

func (r *MemoryPaymentsRepo) CreatePayment(ctx context.Context, p *domain.Payment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.TicketID.Valid && p.TicketID.String != "" {
		v, err := r.violations.GetViolation(ctx, p.TicketID.String)
		if err != nil {
			return "", err
		}
		if !domain.ValidViolationTransition(v.Status, domain.ViolationPaid) {
			return "", fmt.Errorf("violation %s is not payable: %w", p.TicketID.String, domain.ErrValidation)
		}
		if err := r.violations.UpdateStatus(ctx, p.TicketID.String, domain.ViolationPaid); err != nil {
			return "", err
		}
	}

	id := uuid.NewString()
	stored := *p
	stored.PayID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.payments[id] = stored
	return id, nil
}

func (r *MemoryPaymentsRepo) ListUserPayments(_ context.Context, userID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payments := []*domain.Payment{}
	for _, p := range r.payments {
		if p.UserID == userID {
			payment := p
			payments = append(payments, &payment)
		}
	}
	return payments, nil
}
