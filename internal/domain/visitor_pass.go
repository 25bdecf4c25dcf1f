package domain

import "time"

// VisitorPass corresponds to the visitor_passes table. Validity is always
// persisted at issuance (created_at + hours); status is derived on read and
// never stored.
type VisitorPass struct {
	PassID       string    `db:"pass_id"`
	UserID       string    `db:"user_id"`
	Hours        int       `db:"hours"`
	VisitorPlate string    `db:"visitor_plate"` // canonical REGION-PLATE
	CreatedAt    time.Time `db:"created_at"`
	ValidUntil   time.Time `db:"valid_until"`
}

// Status derives the lifecycle state as of now.
func (p *VisitorPass) Status(now time.Time) string {
	return DeriveStatus(p.ValidUntil, now)
}

// TimeRemaining renders the display string for the pass as of now.
func (p *VisitorPass) TimeRemaining(now time.Time) string {
	return FormatTimeRemaining(p.ValidUntil, now)
}
