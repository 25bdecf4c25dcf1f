package domain

import (
	"database/sql"
	"time"
)

// Violation status values.
const (
	ViolationPending  = "pending"
	ViolationPaid     = "paid"
	ViolationAppealed = "appealed"
	ViolationResolved = "resolved"
)

// Fixed ticket reasons. Free text is also accepted.
const (
	ReasonNoValidPass   = "No Valid Visitor Pass"
	ReasonExpiredPass   = "Expired Pass"
	ReasonUnauthorized  = "Unauthorized Parking Area"
	ReasonBlockedAccess = "Blocked Access"
	ReasonOther         = "Other"
)

// Violation corresponds to the violations table.
type Violation struct {
	TicketID     string         `db:"ticket_id"`
	Province     string         `db:"province"`
	LicensePlate string         `db:"license_plate"`
	Reason       string         `db:"reason"`
	Time         time.Time      `db:"time"`
	LotID        string         `db:"lot_id"`
	VehicleID    sql.NullString `db:"vehicle_id"`
	Status       string         `db:"status"`
}

// ValidViolationTransition reports whether a status change is allowed.
// pending -> paid|appealed|resolved, appealed -> paid|resolved; nothing
// ever returns to pending, paid and resolved are terminal.
func ValidViolationTransition(from, to string) bool {
	switch from {
	case ViolationPending:
		return to == ViolationPaid || to == ViolationAppealed || to == ViolationResolved
	case ViolationAppealed:
		return to == ViolationPaid || to == ViolationResolved
	default:
		return false
	}
}
