package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkwatch/internal/domain"
)

// PostgresPassesRepository implements PassesRepository on the
// visitor_passes table.
type PostgresPassesRepository struct {
	db *sql.DB
}

func NewPostgresPassesRepository(db *sql.DB) *PostgresPassesRepository {
	return &PostgresPassesRepository{db: db}
}

var _ PassesRepository = (*PostgresPassesRepository)(nil)

// IssuePass runs the quota check and the insert as one conditional INSERT,
// so two concurrent issuances for the same user and tier cannot both pass
// the count.
func (r *PostgresPassesRepository) IssuePass(ctx context.Context, pass *domain.VisitorPass, tierTotal int) (string, error) {
	if pass == nil || pass.UserID == "" || pass.VisitorPlate == "" {
		return "", fmt.Errorf("user_id and visitor_plate are required")
	}

	query := `
		INSERT INTO visitor_passes (user_id, hours, visitor_plate, created_at, valid_until)
		SELECT $1, $2, $3, $4, $5
		WHERE (
			SELECT COUNT(*) FROM visitor_passes
			WHERE user_id = $1 AND hours = $2 AND valid_until > $4
		) < $6
		RETURNING pass_id::text
	`
	var passID string
	err := r.db.QueryRowContext(ctx, query,
		pass.UserID,
		pass.Hours,
		pass.VisitorPlate,
		pass.CreatedAt,
		pass.ValidUntil,
		tierTotal,
	).Scan(&passID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrQuotaExceeded
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert visitor pass: %w", err)
	}
	return passID, nil
}

func (r *PostgresPassesRepository) ListUserPasses(ctx context.Context, userID string) ([]*domain.VisitorPass, error) {
	if userID == "" {
		return []*domain.VisitorPass{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT pass_id::text, user_id::text, hours, visitor_plate, created_at, valid_until
		 FROM visitor_passes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitor passes: %w", err)
	}
	defer rows.Close()

	passes := []*domain.VisitorPass{}
	for rows.Next() {
		var p domain.VisitorPass
		if err := rows.Scan(&p.PassID, &p.UserID, &p.Hours, &p.VisitorPlate, &p.CreatedAt, &p.ValidUntil); err != nil {
			return nil, err
		}
		passes = append(passes, &p)
	}
	return passes, rows.Err()
}

func (r *PostgresPassesRepository) CountActivePasses(ctx context.Context, userID string, hours int, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visitor_passes
		 WHERE user_id = $1 AND hours = $2 AND valid_until > $3`,
		userID, hours, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active passes: %w", err)
	}
	return count, nil
}
