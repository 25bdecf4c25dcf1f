package domain

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleResident = "resident"
	RoleVisitor  = "visitor"
	RoleUser     = "user"
)

// User corresponds to the users table. Phone is unique. Only name, phone
// and password are mutable after registration.
type User struct {
	UserID       string         `db:"user_id"`
	Name         string         `db:"name"`
	Phone        string         `db:"phone"` // unique
	PasswordHash []byte         `db:"password_hash"`
	Role         string         `db:"role"`
	UserType     sql.NullString `db:"user_type"`

	// Role-specific attributes
	UnitNumber      sql.NullString `db:"unit_number"`      // residents
	HostInformation sql.NullString `db:"host_information"` // visitors

	CreatedAt time.Time `db:"created_at"`
}
