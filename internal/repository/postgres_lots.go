package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkwatch/internal/domain"
)

// PostgresLotsRepository implements LotsRepository on the parking_lots
// table.
type PostgresLotsRepository struct {
	db *sql.DB
}

func NewPostgresLotsRepository(db *sql.DB) *PostgresLotsRepository {
	return &PostgresLotsRepository{db: db}
}

var _ LotsRepository = (*PostgresLotsRepository)(nil)

func (r *PostgresLotsRepository) GetLot(ctx context.Context, lotID string) (*domain.ParkingLot, error) {
	if lotID == "" {
		return nil, domain.ErrNotFound
	}
	var lot domain.ParkingLot
	err := r.db.QueryRowContext(ctx,
		`SELECT lot_id::text, lot_name, total_spaces FROM parking_lots WHERE lot_id = $1`,
		lotID).Scan(&lot.LotID, &lot.LotName, &lot.TotalSpaces)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parking lot: %w", err)
	}
	return &lot, nil
}

// ListLotsWithAvailability derives free spaces per lot at read time.
func (r *PostgresLotsRepository) ListLotsWithAvailability(ctx context.Context, now time.Time) ([]LotAvailability, error) {
	query := `
		SELECT l.lot_id::text, l.lot_name, l.total_spaces,
		       l.total_spaces - COUNT(v.vehicle_id) FILTER (WHERE v.parking_until > $1) AS available
		FROM parking_lots l
		LEFT JOIN vehicles v ON v.lot_id = l.lot_id
		GROUP BY l.lot_id, l.lot_name, l.total_spaces
		ORDER BY l.lot_name
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list parking lots: %w", err)
	}
	defer rows.Close()

	lots := []LotAvailability{}
	for rows.Next() {
		var lot domain.ParkingLot
		var available int
		if err := rows.Scan(&lot.LotID, &lot.LotName, &lot.TotalSpaces, &available); err != nil {
			return nil, err
		}
		if available < 0 {
			available = 0
		}
		lots = append(lots, LotAvailability{Lot: &lot, Available: available})
	}
	return lots, rows.Err()
}
