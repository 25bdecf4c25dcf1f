package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Pass status values. "Unknown" is display-only, used when a stored
// timestamp could not be read.
const (
	PassStatusActive  = "active"
	PassStatusExpired = "expired"
	PassStatusUnknown = "Unknown"
)

// PassTier is one visitor-pass duration tier: passes of Hours duration,
// at most Total concurrently non-expired per user.
type PassTier struct {
	Hours int `json:"hours"`
	Total int `json:"total"`
}

// DefaultTiers is the single tier catalog consumed by both issuance and
// quota display. Overridable via PASS_TIERS in config.
func DefaultTiers() []PassTier {
	return []PassTier{
		{Hours: 8, Total: 5},
		{Hours: 24, Total: 3},
		{Hours: 48, Total: 2},
	}
}

// TierForHours finds the tier matching a requested duration.
func TierForHours(tiers []PassTier, hours int) (PassTier, bool) {
	for _, t := range tiers {
		if t.Hours == hours {
			return t, true
		}
	}
	return PassTier{}, false
}

// NormalizePlate strips all whitespace and uppercases. Idempotent:
// NormalizePlate(NormalizePlate(x)) == NormalizePlate(x).
func NormalizePlate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// PlateKey builds the canonical "REGION-PLATE" key from separate region and
// plate inputs, e.g. ("on", "abc 123") -> "ON-ABC123".
func PlateKey(region, plate string) string {
	return NormalizePlate(region) + "-" + NormalizePlate(plate)
}

// DeriveStatus computes a pass status from its stored validity against the
// given clock. Pure: it never touches stored state and always yields the
// same result for the same inputs.
func DeriveStatus(validUntil, now time.Time) string {
	if validUntil.IsZero() {
		return PassStatusUnknown
	}
	if validUntil.After(now) {
		return PassStatusActive
	}
	return PassStatusExpired
}

// FormatTimeRemaining renders the time left on a pass, floored to whole
// units: ">= 24h" as "{days}d {hours}h", otherwise "{hours}h {minutes}m",
// and "Expired" once validity has lapsed.
func FormatTimeRemaining(validUntil, now time.Time) string {
	if validUntil.IsZero() {
		return PassStatusUnknown
	}
	rem := validUntil.Sub(now)
	if rem <= 0 {
		return "Expired"
	}
	hours := int(rem.Hours())
	if hours >= 24 {
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	}
	minutes := int(rem.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
