package domain

import (
	"database/sql"
	"strings"
	"time"
)

// Payment status values.
const (
	PaymentCompleted = "completed"
)

// Payment corresponds to the payments table. Only the last four digits of
// the card number are stored.
type Payment struct {
	PayID      string         `db:"pay_id"`
	Amount     float64        `db:"amount"`
	Method     string         `db:"method"`
	CardLast4  string         `db:"card_last4"`
	UserID     string         `db:"user_id"`
	LotID      sql.NullString `db:"lot_id"`
	TicketID   sql.NullString `db:"ticket_id"`
	Status     string         `db:"status"`
	CreatedAt  time.Time      `db:"created_at"`
}

// ValidCardNumber reports whether s is a 13-19 digit card number, ignoring
// spaces and dashes.
func ValidCardNumber(s string) bool {
	s = strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "-", "")
	if len(s) < 13 || len(s) > 19 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// MaskCard keeps the last four digits of a card number.
func MaskCard(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "-", "")
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
