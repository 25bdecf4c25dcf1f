package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"parkwatch/internal/domain"
)

// PostgresViolationsRepository implements ViolationsRepository on the
// violations table.
type PostgresViolationsRepository struct {
	db *sql.DB
}

func NewPostgresViolationsRepository(db *sql.DB) *PostgresViolationsRepository {
	return &PostgresViolationsRepository{db: db}
}

var _ ViolationsRepository = (*PostgresViolationsRepository)(nil)

const violationColumns = `
	ticket_id::text,
	province,
	license_plate,
	reason,
	time,
	lot_id::text,
	vehicle_id::text,
	status
`

func scanViolation(row interface{ Scan(...any) error }) (*domain.Violation, error) {
	var v domain.Violation
	err := row.Scan(
		&v.TicketID,
		&v.Province,
		&v.LicensePlate,
		&v.Reason,
		&v.Time,
		&v.LotID,
		&v.VehicleID,
		&v.Status,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresViolationsRepository) CreateViolation(ctx context.Context, v *domain.Violation) (string, error) {
	if v == nil || v.Province == "" || v.LicensePlate == "" {
		return "", fmt.Errorf("province and license_plate are required")
	}

	query := `
		INSERT INTO violations (province, license_plate, reason, time, lot_id, vehicle_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ticket_id::text
	`
	var ticketID string
	err := r.db.QueryRowContext(ctx, query,
		v.Province, v.LicensePlate, v.Reason, v.Time, v.LotID, v.VehicleID, v.Status,
	).Scan(&ticketID)
	if err != nil {
		return "", fmt.Errorf("failed to insert violation: %w", err)
	}
	return ticketID, nil
}

func (r *PostgresViolationsRepository) GetViolation(ctx context.Context, ticketID string) (*domain.Violation, error) {
	if ticketID == "" {
		return nil, domain.ErrNotFound
	}
	v, err := scanViolation(r.db.QueryRowContext(ctx,
		`SELECT `+violationColumns+` FROM violations WHERE ticket_id = $1`, ticketID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get violation: %w", err)
	}
	return v, nil
}

func (r *PostgresViolationsRepository) ListViolations(ctx context.Context, filters ViolationFilters, page, size int) ([]*domain.Violation, int, error) {
	where := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Province != "" {
		where = append(where, fmt.Sprintf("province = $%d", argIdx))
		args = append(args, filters.Province)
		argIdx++
	}
	if filters.LicensePlate != "" {
		where = append(where, fmt.Sprintf("license_plate = $%d", argIdx))
		args = append(args, filters.LicensePlate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM violations WHERE " + strings.Join(where, " AND ")
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count violations: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	query := `SELECT ` + violationColumns + ` FROM violations WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY time DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	violations := []*domain.Violation{}
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, 0, err
		}
		violations = append(violations, v)
	}
	return violations, total, rows.Err()
}

func (r *PostgresViolationsRepository) ListUserViolations(ctx context.Context, userID string) ([]*domain.Violation, error) {
	if userID == "" {
		return []*domain.Violation{}, nil
	}

	query := `
		SELECT ` + violationColumns + `
		FROM violations v
		WHERE EXISTS (
			SELECT 1 FROM vehicles ve
			WHERE ve.user_id = $1
			  AND ve.province = v.province
			  AND ve.license_plate = v.license_plate
		)
		ORDER BY time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user violations: %w", err)
	}
	defer rows.Close()

	violations := []*domain.Violation{}
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

func (r *PostgresViolationsRepository) UpdateStatus(ctx context.Context, ticketID, status string) error {
	if ticketID == "" {
		return fmt.Errorf("ticket_id is required")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE violations SET status = $2 WHERE ticket_id = $1`, ticketID, status)
	if err != nil {
		return fmt.Errorf("failed to update violation status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
