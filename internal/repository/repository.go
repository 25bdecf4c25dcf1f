package repository

import (
	"context"
	"time"

	"parkwatch/internal/domain"
)

// UsersRepository persists accounts.
type UsersRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (string, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	// UpdateProfile updates the mutable fields only. nil means "leave as is".
	UpdateProfile(ctx context.Context, userID string, name, phone *string, passwordHash []byte) error
}

// VehiclesRepository persists vehicles keyed by (province, license_plate).
type VehiclesRepository interface {
	CreateVehicle(ctx context.Context, v *domain.Vehicle) (string, error)
	// GetVehicleByPlate looks up by the composite key, optionally scoped to
	// a lot (lotID == "" means any lot). A vehicle without a lot assignment
	// matches any scope.
	GetVehicleByPlate(ctx context.Context, province, plate, lotID string) (*domain.Vehicle, error)
	ListUserVehicles(ctx context.Context, userID string) ([]*domain.Vehicle, error)
	// ExtendParking moves parking_until forward; it never shortens an
	// existing window.
	ExtendParking(ctx context.Context, province, plate string, until time.Time) error
	// CountParked counts vehicles in a lot with parking_until > now.
	CountParked(ctx context.Context, lotID string, now time.Time) (int, error)
}

// PassesRepository persists visitor passes.
type PassesRepository interface {
	// IssuePass inserts the pass only while the user's count of passes in
	// the same tier with valid_until > pass.CreatedAt stays below tierTotal.
	// The count and the insert are one statement, so concurrent issuance
	// cannot overrun the quota. Returns domain.ErrQuotaExceeded when the
	// conditional insert matches no rows.
	IssuePass(ctx context.Context, pass *domain.VisitorPass, tierTotal int) (string, error)
	ListUserPasses(ctx context.Context, userID string) ([]*domain.VisitorPass, error)
	// CountActivePasses counts a user's passes in a tier with
	// valid_until > now.
	CountActivePasses(ctx context.Context, userID string, hours int, now time.Time) (int, error)
}

// ViolationFilters narrows violation listings. Zero values mean "no filter".
type ViolationFilters struct {
	Status       string
	Province     string
	LicensePlate string
}

// ViolationsRepository persists violation tickets.
type ViolationsRepository interface {
	CreateViolation(ctx context.Context, v *domain.Violation) (string, error)
	GetViolation(ctx context.Context, ticketID string) (*domain.Violation, error)
	ListViolations(ctx context.Context, filters ViolationFilters, page, size int) ([]*domain.Violation, int, error)
	// ListUserViolations returns violations against any of the user's
	// registered vehicles.
	ListUserViolations(ctx context.Context, userID string) ([]*domain.Violation, error)
	UpdateStatus(ctx context.Context, ticketID, status string) error
}

// PaymentsRepository persists payments.
type PaymentsRepository interface {
	// CreatePayment inserts the payment and, when p.TicketID is set, flips
	// the referenced violation to "paid" in the same transaction. A ticket
	// that is not in a payable state fails the whole transaction.
	CreatePayment(ctx context.Context, p *domain.Payment) (string, error)
	ListUserPayments(ctx context.Context, userID string) ([]*domain.Payment, error)
}

// LotAvailability is a lot with its read-derived free-space count.
type LotAvailability struct {
	Lot       *domain.ParkingLot
	Available int
}

// LotsRepository reads parking lots.
type LotsRepository interface {
	GetLot(ctx context.Context, lotID string) (*domain.ParkingLot, error)
	// ListLotsWithAvailability derives available = total - currently parked
	// as of now. Occupancy is never a stored counter.
	ListLotsWithAvailability(ctx context.Context, now time.Time) ([]LotAvailability, error)
}
