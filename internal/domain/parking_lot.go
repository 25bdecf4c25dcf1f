package domain

// ParkingLot corresponds to the parking_lots table. Available spaces are
// read-derived (total minus currently parked vehicles), never a stored
// counter.
type ParkingLot struct {
	LotID       string `db:"lot_id"`
	LotName     string `db:"lot_name"`
	TotalSpaces int    `db:"total_spaces"`
}
