//go:build integration
// +build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"parkwatch/internal/config"
	"parkwatch/internal/database"
	"parkwatch/internal/domain"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, phone string) string {
	repo := NewPostgresUsersRepository(db)
	userID, err := repo.CreateUser(context.Background(), &domain.User{
		Name:         "Test User",
		Phone:        phone,
		PasswordHash: []byte("$2a$10$test"),
		Role:         domain.RoleResident,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM visitor_passes WHERE user_id = $1`, userID)
		_, _ = db.Exec(`DELETE FROM users WHERE user_id = $1`, userID)
	})
	return userID
}

func TestPostgresUsersRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUsersRepository(db)
	ctx := context.Background()

	phone := "555-it-" + time.Now().Format("150405.000000")
	userID := createTestUser(t, db, phone)

	u, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, phone, u.Phone)

	byPhone, err := repo.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	require.Equal(t, userID, byPhone.UserID)

	newName := "Renamed"
	require.NoError(t, repo.UpdateProfile(ctx, userID, &newName, nil, nil))
	u, err = repo.GetUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", u.Name)

	_, err = repo.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresIssuePassQuota(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPassesRepository(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "555-qp-"+time.Now().Format("150405.000000"))
	now := time.Now().UTC().Truncate(time.Microsecond)

	issue := func() (string, error) {
		return repo.IssuePass(ctx, &domain.VisitorPass{
			UserID:       userID,
			Hours:        48,
			VisitorPlate: "ON-ABC123",
			CreatedAt:    now,
			ValidUntil:   now.Add(48 * time.Hour),
		}, 2)
	}

	first, err := issue()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	_, err = issue()
	require.NoError(t, err)

	_, err = issue()
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)

	count, err := repo.CountActivePasses(ctx, userID, 48, now)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	passes, err := repo.ListUserPasses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	require.True(t, passes[0].ValidUntil.Equal(now.Add(48*time.Hour)))
}

func TestPostgresPaymentSettlesViolation(t *testing.T) {
	db := setupTestDB(t)
	violations := NewPostgresViolationsRepository(db)
	payments := NewPostgresPaymentsRepository(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "555-pay-"+time.Now().Format("150405.000000"))

	var lotID string
	require.NoError(t, db.QueryRow(
		`INSERT INTO parking_lots (lot_name, total_spaces) VALUES ('IT Lot', 5) RETURNING lot_id::text`,
	).Scan(&lotID))
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM payments WHERE lot_id = $1 OR user_id = $2`, lotID, userID)
		_, _ = db.Exec(`DELETE FROM violations WHERE lot_id = $1`, lotID)
		_, _ = db.Exec(`DELETE FROM parking_lots WHERE lot_id = $1`, lotID)
	})

	ticketID, err := violations.CreateViolation(ctx, &domain.Violation{
		Province:     "ON",
		LicensePlate: "ABC123",
		Reason:       domain.ReasonNoValidPass,
		Time:         time.Now().UTC(),
		LotID:        lotID,
		Status:       domain.ViolationPending,
	})
	require.NoError(t, err)

	_, err = payments.CreatePayment(ctx, &domain.Payment{
		Amount:    80,
		Method:    "credit",
		CardLast4: "1111",
		UserID:    userID,
		TicketID:  sql.NullString{String: ticketID, Valid: true},
		Status:    domain.PaymentCompleted,
	})
	require.NoError(t, err)

	v, err := violations.GetViolation(ctx, ticketID)
	require.NoError(t, err)
	require.Equal(t, domain.ViolationPaid, v.Status)

	// Already settled: the transaction rolls back, no second payment row.
	_, err = payments.CreatePayment(ctx, &domain.Payment{
		Amount:    80,
		Method:    "credit",
		CardLast4: "1111",
		UserID:    userID,
		TicketID:  sql.NullString{String: ticketID, Valid: true},
		Status:    domain.PaymentCompleted,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var paymentCount int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM payments WHERE ticket_id = $1`, ticketID,
	).Scan(&paymentCount))
	require.Equal(t, 1, paymentCount)
}

func TestPostgresVehiclesExtendParking(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresVehiclesRepository(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "555-veh-"+time.Now().Format("150405.000000"))
	plate := "IT" + time.Now().Format("150405")

	vehicleID, err := repo.CreateVehicle(ctx, &domain.Vehicle{
		Province:     "ON",
		LicensePlate: plate,
		UserID:       userID,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM vehicles WHERE vehicle_id = $1`, vehicleID) })

	until := time.Now().UTC().Add(8 * time.Hour).Truncate(time.Microsecond)
	require.NoError(t, repo.ExtendParking(ctx, "ON", plate, until))

	v, err := repo.GetVehicleByPlate(ctx, "ON", plate, "")
	require.NoError(t, err)
	require.True(t, v.ParkingUntil.Valid)
	require.True(t, v.ParkingUntil.Time.Equal(until))

	// A shorter window never shrinks the stored one.
	require.NoError(t, repo.ExtendParking(ctx, "ON", plate, until.Add(-time.Hour)))
	v, err = repo.GetVehicleByPlate(ctx, "ON", plate, "")
	require.NoError(t, err)
	require.True(t, v.ParkingUntil.Time.Equal(until))

	require.ErrorIs(t, repo.ExtendParking(ctx, "ON", "NOSUCH1", until), domain.ErrNotFound)
}
