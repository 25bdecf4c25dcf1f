package mqtt

import (
	"context"
	"testing"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"
	"parkwatch/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSubscriber(t *testing.T) (*ScannerSubscriber, *repository.MemoryVehiclesRepo, *repository.MemoryViolationsRepo) {
	t.Helper()
	logger := zap.NewNop()
	vehicles := repository.NewMemoryVehiclesRepo()
	violations := repository.NewMemoryViolationsRepo(vehicles)
	sub := &ScannerSubscriber{
		verifyService:    service.NewVerifyService(vehicles, logger),
		violationService: service.NewViolationService(violations, logger),
		logger:           logger,
	}
	return sub, vehicles, violations
}

func TestHandleScanTicketsUnknownPlate(t *testing.T) {
	sub, _, violations := newTestSubscriber(t)

	err := sub.handleScan(context.Background(), []byte(`{"plate":"abc 123","region":"on","lot_id":"lot-1"}`))
	require.NoError(t, err)

	list, total, err := violations.ListViolations(context.Background(), repository.ViolationFilters{}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "ABC123", list[0].LicensePlate)
	require.Equal(t, domain.ReasonNoValidPass, list[0].Reason)
	require.Equal(t, domain.ViolationPending, list[0].Status)
}

func TestHandleScanValidPlateNoTicket(t *testing.T) {
	sub, vehicles, violations := newTestSubscriber(t)
	ctx := context.Background()

	_, err := vehicles.CreateVehicle(ctx, &domain.Vehicle{
		Province:     "ON",
		LicensePlate: "ABC123",
		UserID:       "user-1",
	})
	require.NoError(t, err)
	require.NoError(t, vehicles.ExtendParking(ctx, "ON", "ABC123", time.Now().Add(time.Hour)))

	err = sub.handleScan(ctx, []byte(`{"plate":"ABC123","region":"ON","lot_id":"lot-1"}`))
	require.NoError(t, err)

	_, total, err := violations.ListViolations(ctx, repository.ViolationFilters{}, 1, 10)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestHandleScanRejectsBadPayload(t *testing.T) {
	sub, _, _ := newTestSubscriber(t)
	ctx := context.Background()

	require.Error(t, sub.handleScan(ctx, []byte(`not json`)))
	require.Error(t, sub.handleScan(ctx, []byte(`{"plate":"ABC123"}`)))
}
