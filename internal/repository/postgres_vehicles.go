package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkwatch/internal/domain"
)

// PostgresVehiclesRepository implements VehiclesRepository on the vehicles
// table.
type PostgresVehiclesRepository struct {
	db *sql.DB
}

func NewPostgresVehiclesRepository(db *sql.DB) *PostgresVehiclesRepository {
	return &PostgresVehiclesRepository{db: db}
}

var _ VehiclesRepository = (*PostgresVehiclesRepository)(nil)

const vehicleColumns = `
	vehicle_id::text,
	province,
	license_plate,
	user_id::text,
	lot_id::text,
	parking_until
`

func scanVehicle(row interface{ Scan(...any) error }) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.VehicleID,
		&v.Province,
		&v.LicensePlate,
		&v.UserID,
		&v.LotID,
		&v.ParkingUntil,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresVehiclesRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) (string, error) {
	if v == nil || v.Province == "" || v.LicensePlate == "" || v.UserID == "" {
		return "", fmt.Errorf("province, license_plate and user_id are required")
	}

	query := `
		INSERT INTO vehicles (province, license_plate, user_id, lot_id, parking_until)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING vehicle_id::text
	`
	var vehicleID string
	err := r.db.QueryRowContext(ctx, query,
		v.Province, v.LicensePlate, v.UserID, v.LotID, v.ParkingUntil,
	).Scan(&vehicleID)
	if err != nil {
		return "", fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return vehicleID, nil
}

func (r *PostgresVehiclesRepository) GetVehicleByPlate(ctx context.Context, province, plate, lotID string) (*domain.Vehicle, error) {
	if province == "" || plate == "" {
		return nil, domain.ErrNotFound
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE province = $1 AND license_plate = $2`
	args := []any{province, plate}
	if lotID != "" {
		// A vehicle with no lot assignment matches any scope.
		query += ` AND (lot_id = $3 OR lot_id IS NULL)`
		args = append(args, lotID)
	}

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

func (r *PostgresVehiclesRepository) ListUserVehicles(ctx context.Context, userID string) ([]*domain.Vehicle, error) {
	if userID == "" {
		return []*domain.Vehicle{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE user_id = $1 ORDER BY province, license_plate`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []*domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *PostgresVehiclesRepository) ExtendParking(ctx context.Context, province, plate string, until time.Time) error {
	if province == "" || plate == "" {
		return fmt.Errorf("province and license_plate are required")
	}

	// GREATEST keeps an already-longer window.
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles
		 SET parking_until = GREATEST(COALESCE(parking_until, $3), $3)
		 WHERE province = $1 AND license_plate = $2`,
		province, plate, until)
	if err != nil {
		return fmt.Errorf("failed to extend parking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresVehiclesRepository) CountParked(ctx context.Context, lotID string, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE lot_id = $1 AND parking_until > $2`,
		lotID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count parked vehicles: %w", err)
	}
	return count, nil
}
