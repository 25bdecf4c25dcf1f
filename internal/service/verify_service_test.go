package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVerifyService(t *testing.T, now time.Time) (*verifyService, *repository.MemoryVehiclesRepo) {
	t.Helper()
	vehicles := repository.NewMemoryVehiclesRepo()
	svc := NewVerifyService(vehicles, zap.NewNop()).(*verifyService)
	svc.now = func() time.Time { return now }
	return svc, vehicles
}

func TestVerifyPlateUnregistered(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestVerifyService(t, now)

	resp, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123", Region: "ON"})
	require.NoError(t, err)
	require.False(t, resp.Valid)
	require.Equal(t, domain.ReasonNoValidPass, resp.Reason)
	require.Nil(t, resp.Vehicle)
}

func TestVerifyPlateActiveWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestVerifyService(t, now)

	_, err := vehicles.CreateVehicle(context.Background(), &domain.Vehicle{
		Province:     "ON",
		LicensePlate: "ABC123",
		UserID:       "user-1",
		ParkingUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
	})
	require.NoError(t, err)

	// Raw input is normalized before lookup.
	resp, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "abc 123", Region: " on "})
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Empty(t, resp.Reason)
	require.NotNil(t, resp.Vehicle)
	require.Equal(t, "ABC123", resp.Vehicle.LicensePlate)
}

func TestVerifyPlateExpiredWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestVerifyService(t, now)

	_, err := vehicles.CreateVehicle(context.Background(), &domain.Vehicle{
		Province:     "ON",
		LicensePlate: "ABC123",
		UserID:       "user-1",
		ParkingUntil: sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
	})
	require.NoError(t, err)

	resp, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123", Region: "ON"})
	require.NoError(t, err)
	require.False(t, resp.Valid)
	require.Equal(t, domain.ReasonExpiredPass, resp.Reason)
}

func TestVerifyPlateNoWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestVerifyService(t, now)

	_, err := vehicles.CreateVehicle(context.Background(), &domain.Vehicle{
		Province:     "ON",
		LicensePlate: "ABC123",
		UserID:       "user-1",
	})
	require.NoError(t, err)

	resp, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123", Region: "ON"})
	require.NoError(t, err)
	require.False(t, resp.Valid)
	require.Equal(t, domain.ReasonExpiredPass, resp.Reason)
}

func TestVerifyPlateMissingInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestVerifyService(t, now)

	_, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.VerifyPlate(context.Background(), VerifyPlateRequest{Region: "ON"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerifyPlateLotScoped(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestVerifyService(t, now)

	_, err := vehicles.CreateVehicle(context.Background(), &domain.Vehicle{
		Province:     "ON",
		LicensePlate: "ABC123",
		UserID:       "user-1",
		LotID:        sql.NullString{String: "lot-1", Valid: true},
		ParkingUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
	})
	require.NoError(t, err)

	resp, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123", Region: "ON", LotID: "lot-1"})
	require.NoError(t, err)
	require.True(t, resp.Valid)

	resp, err = svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123", Region: "ON", LotID: "lot-2"})
	require.NoError(t, err)
	require.False(t, resp.Valid)
	require.Equal(t, domain.ReasonNoValidPass, resp.Reason)
}

func TestVerifyPlateUnassignedLotMatchesAnyScope(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, vehicles := newTestVerifyService(t, now)

	// Pass issuance extends the window without assigning a lot, so a
	// lot-scoped check must still see the vehicle.
	_, err := vehicles.CreateVehicle(context.Background(), &domain.Vehicle{
		Province:     "ON",
		LicensePlate: "ABC123",
		UserID:       "user-1",
		ParkingUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
	})
	require.NoError(t, err)

	resp, err := svc.VerifyPlate(context.Background(), VerifyPlateRequest{Plate: "ABC123", Region: "ON", LotID: "lot-1"})
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Empty(t, resp.Reason)
}
