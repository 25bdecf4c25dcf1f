package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"parkwatch/internal/domain"

	"github.com/google/uuid"
)

// MemoryVehiclesRepo supports unit tests and DB-less local runs.
type MemoryVehiclesRepo struct {
	mu       sync.RWMutex
	vehicles map[string]domain.Vehicle // vehicleID -> vehicle
}

func NewMemoryVehiclesRepo() *MemoryVehiclesRepo {
	return &MemoryVehiclesRepo{vehicles: map[string]domain.Vehicle{}}
}

var _ VehiclesRepository = (*MemoryVehiclesRepo)(nil)

func (r *MemoryVehiclesRepo) CreateVehicle(_ context.Context, v *domain.Vehicle) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	stored := *v
	stored.VehicleID = id
	r.vehicles[id] = stored
	return id, nil
}

func (r *MemoryVehiclesRepo) GetVehicleByPlate(_ context.Context, province, plate, lotID string) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vehicles {
		if v.Province != province || v.LicensePlate != plate {
			continue
		}
		// A vehicle with no lot assignment matches any scope.
		if lotID != "" && v.LotID.Valid && v.LotID.String != lotID {
			continue
		}
		vehicle := v
		return &vehicle, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryVehiclesRepo) ListUserVehicles(_ context.Context, userID string) ([]*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vehicles := []*domain.Vehicle{}
	for _, v := range r.vehicles {
		if v.UserID == userID {
			vehicle := v
			vehicles = append(vehicles, &vehicle)
		}
	}
	return vehicles, nil
}

func (r *MemoryVehiclesRepo) ExtendParking(_ context.Context, province, plate string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.vehicles {
		if v.Province == province && v.LicensePlate == plate {
			if !v.ParkingUntil.Valid || v.ParkingUntil.Time.Before(until) {
				v.ParkingUntil = sql.NullTime{Time: until, Valid: true}
				r.vehicles[id] = v
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MemoryVehiclesRepo) CountParked(_ context.Context, lotID string, now time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, v := range r.vehicles {
		if v.LotID.Valid && v.LotID.String == lotID && v.ParkingUntil.Valid && v.ParkingUntil.Time.After(now) {
			count++
		}
	}
	return count, nil
}
