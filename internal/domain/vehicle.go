package domain

import "database/sql"

// Vehicle corresponds to the vehicles table. (province, license_plate) is
// the natural composite key. A vehicle is "currently parked" exactly when
// parking_until is in the future; there is no check-in/check-out event.
type Vehicle struct {
	VehicleID    string         `db:"vehicle_id"`
	Province     string         `db:"province"`
	LicensePlate string         `db:"license_plate"`
	UserID       string         `db:"user_id"`
	LotID        sql.NullString `db:"lot_id"`
	ParkingUntil sql.NullTime   `db:"parking_until"`
}
