package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkwatch/internal/domain"
	"parkwatch/internal/repository"

	"go.uber.org/zap"
)

// VerifyService checks plates against registered vehicles and their parking
// windows. The result is advisory input to ticketing; nothing is persisted.
type VerifyService interface {
	VerifyPlate(ctx context.Context, req VerifyPlateRequest) (*VerifyPlateResponse, error)
}

type verifyService struct {
	vehiclesRepo repository.VehiclesRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewVerifyService(vehiclesRepo repository.VehiclesRepository, logger *zap.Logger) VerifyService {
	return &verifyService{
		vehiclesRepo: vehiclesRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// VerifyPlateRequest identifies the plate under check. LotID is optional.
type VerifyPlateRequest struct {
	Plate  string
	Region string
	LotID  string
}

// VerifyPlateResponse is the verification outcome. Reason is set only when
// Valid is false.
type VerifyPlateResponse struct {
	Valid   bool        `json:"valid"`
	Reason  string      `json:"reason,omitempty"`
	Vehicle *VehicleDTO `json:"vehicle,omitempty"`
}

// VehicleDTO is the wire shape of a vehicle.
type VehicleDTO struct {
	VehicleID    string `json:"vehicleId"`
	Province     string `json:"province"`
	LicensePlate string `json:"licensePlate"`
	UserID       string `json:"userId"`
	LotID        string `json:"lotId,omitempty"`
	ParkingUntil string `json:"parkingUntil,omitempty"`
}

func vehicleToDTO(v *domain.Vehicle) *VehicleDTO {
	dto := &VehicleDTO{
		VehicleID:    v.VehicleID,
		Province:     v.Province,
		LicensePlate: v.LicensePlate,
		UserID:       v.UserID,
	}
	if v.LotID.Valid {
		dto.LotID = v.LotID.String
	}
	if v.ParkingUntil.Valid {
		dto.ParkingUntil = v.ParkingUntil.Time.Format(time.RFC3339)
	}
	return dto
}

// VerifyPlate looks the vehicle up by its normalized composite key and
// compares parking_until to the clock. Lookup or transport failure is a
// real error surfaced to the caller, never a fabricated result.
func (s *verifyService) VerifyPlate(ctx context.Context, req VerifyPlateRequest) (*VerifyPlateResponse, error) {
	region := domain.NormalizePlate(req.Region)
	plate := domain.NormalizePlate(req.Plate)
	if region == "" || plate == "" {
		return nil, fmt.Errorf("plate and region are required: %w", domain.ErrValidation)
	}

	vehicle, err := s.vehiclesRepo.GetVehicleByPlate(ctx, region, plate, req.LotID)
	if errors.Is(err, domain.ErrNotFound) {
		return &VerifyPlateResponse{Valid: false, Reason: domain.ReasonNoValidPass}, nil
	}
	if err != nil {
		s.logger.Error("VerifyPlate lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify plate: %w", err)
	}

	if vehicle.ParkingUntil.Valid && vehicle.ParkingUntil.Time.After(s.now()) {
		return &VerifyPlateResponse{Valid: true, Vehicle: vehicleToDTO(vehicle)}, nil
	}
	return &VerifyPlateResponse{Valid: false, Reason: domain.ReasonExpiredPass, Vehicle: vehicleToDTO(vehicle)}, nil
}
