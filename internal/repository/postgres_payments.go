package repository

import (
	"context"
	"database/sql"
	"fmt"

	"parkwatch/internal/domain"
)

// PostgresPaymentsRepository implements PaymentsRepository on the payments
// table.
type PostgresPaymentsRepository struct {
	db *sql.DB
}

func NewPostgresPaymentsRepository(db *sql.DB) *PostgresPaymentsRepository {
	return &PostgresPaymentsRepository{db: db}
}

var _ PaymentsRepository = (*PostgresPaymentsRepository)(nil)

// CreatePayment inserts the payment row and flips the referenced violation
// to "paid" in the same transaction. The UPDATE is conditioned on a payable
// status, so paying a settled ticket rolls the whole transaction back.
func (r *PostgresPaymentsRepository) CreatePayment(ctx context.Context, p *domain.Payment) (string, error) {
	if p == nil || p.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (amount, method, card_last4, user_id, lot_id, ticket_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING pay_id::text`,
		p.Amount, p.Method, p.CardLast4, p.UserID, p.LotID, p.TicketID, p.Status,
	).Scan(&payID)
	if err != nil {
		return "", fmt.Errorf("failed to insert payment: %w", err)
	}

	if p.TicketID.Valid && p.TicketID.String != "" {
		res, err := tx.ExecContext(ctx,
			`UPDATE violations SET status = $2
			 WHERE ticket_id = $1 AND status IN ($3, $4)`,
			p.TicketID.String, domain.ViolationPaid, domain.ViolationPending, domain.ViolationAppealed)
		if err != nil {
			return "", fmt.Errorf("failed to mark violation paid: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", fmt.Errorf("violation %s is not payable: %w", p.TicketID.String, domain.ErrValidation)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return payID, nil
}

func (r *PostgresPaymentsRepository) ListUserPayments(ctx context.Context, userID string) ([]*domain.Payment, error) {
	if userID == "" {
		return []*domain.Payment{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT pay_id::text, amount, method, card_last4, user_id::text, lot_id::text, ticket_id::text, status, created_at
		 FROM payments
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PayID, &p.Amount, &p.Method, &p.CardLast4, &p.UserID, &p.LotID, &p.TicketID, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
