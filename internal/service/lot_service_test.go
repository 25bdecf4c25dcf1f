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

func TestListLotsAvailability(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	vehicles := repository.NewMemoryVehiclesRepo()
	lots := repository.NewMemoryLotsRepo(vehicles)
	svc := NewLotService(lots, zap.NewNop()).(*lotService)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	lotID := lots.AddLot(domain.ParkingLot{LotName: "North Lot", TotalSpaces: 10})
	lots.AddLot(domain.ParkingLot{LotName: "South Lot", TotalSpaces: 5})

	// Two parked, one expired window, one in another lot.
	for _, v := range []domain.Vehicle{
		{Province: "ON", LicensePlate: "AAA111", UserID: "u1", LotID: sql.NullString{String: lotID, Valid: true}, ParkingUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true}},
		{Province: "ON", LicensePlate: "BBB222", UserID: "u2", LotID: sql.NullString{String: lotID, Valid: true}, ParkingUntil: sql.NullTime{Time: now.Add(2 * time.Hour), Valid: true}},
		{Province: "ON", LicensePlate: "CCC333", UserID: "u3", LotID: sql.NullString{String: lotID, Valid: true}, ParkingUntil: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}},
		{Province: "ON", LicensePlate: "DDD444", UserID: "u4", LotID: sql.NullString{String: "other", Valid: true}, ParkingUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true}},
	} {
		vehicle := v
		_, err := vehicles.CreateVehicle(ctx, &vehicle)
		require.NoError(t, err)
	}

	resp, err := svc.ListLots(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Lots, 2)
	require.Equal(t, "North Lot", resp.Lots[0].LotName)
	require.Equal(t, 8, resp.Lots[0].AvailableSpaces)
	require.Equal(t, 5, resp.Lots[1].AvailableSpaces)
}
