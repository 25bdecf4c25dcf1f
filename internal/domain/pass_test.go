package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizePlate(t *testing.T) {
	require.Equal(t, "ON-ABC123", NormalizePlate("on-abc 123"))
	require.Equal(t, "BC123XYZ", NormalizePlate("  bc 123\txyz "))
	require.Equal(t, "", NormalizePlate("   "))

	// Idempotent: normalizing twice changes nothing.
	once := NormalizePlate("qc - ab 12")
	require.Equal(t, once, NormalizePlate(once))
}

func TestPlateKey(t *testing.T) {
	require.Equal(t, "ON-ABC123", PlateKey("on", "abc 123"))
	require.Equal(t, "BC-XY99", PlateKey(" b c ", "xy99"))
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.Equal(t, PassStatusActive, DeriveStatus(now.Add(time.Minute), now))
	require.Equal(t, PassStatusExpired, DeriveStatus(now.Add(-time.Minute), now))
	require.Equal(t, PassStatusExpired, DeriveStatus(now, now))
	require.Equal(t, PassStatusUnknown, DeriveStatus(time.Time{}, now))
}

func TestDeriveStatusFlipsWithClock(t *testing.T) {
	issued := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	validUntil := issued.Add(8 * time.Hour)

	require.Equal(t, PassStatusActive, DeriveStatus(validUntil, issued.Add(7*time.Hour)))
	require.Equal(t, PassStatusExpired, DeriveStatus(validUntil, issued.Add(9*time.Hour)))

	// Re-reading at the earlier instant still says active: derivation is
	// pure, nothing was stored by the later read.
	require.Equal(t, PassStatusActive, DeriveStatus(validUntil, issued.Add(7*time.Hour)))
}

func TestFormatTimeRemaining(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "1d 2h", FormatTimeRemaining(now.Add(26*time.Hour), now))
	require.Equal(t, "2d 0h", FormatTimeRemaining(now.Add(48*time.Hour), now))
	require.Equal(t, "7h 30m", FormatTimeRemaining(now.Add(7*time.Hour+30*time.Minute), now))
	require.Equal(t, "0h 59m", FormatTimeRemaining(now.Add(59*time.Minute), now))
	require.Equal(t, "Expired", FormatTimeRemaining(now.Add(-time.Second), now))
	require.Equal(t, "Expired", FormatTimeRemaining(now, now))
	require.Equal(t, PassStatusUnknown, FormatTimeRemaining(time.Time{}, now))
}

func TestTierForHours(t *testing.T) {
	tiers := DefaultTiers()

	tier, ok := TierForHours(tiers, 24)
	require.True(t, ok)
	require.Equal(t, 3, tier.Total)

	_, ok = TierForHours(tiers, 12)
	require.False(t, ok)
}

func TestVisitorPassDerivations(t *testing.T) {
	issued := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	pass := VisitorPass{
		Hours:      8,
		CreatedAt:  issued,
		ValidUntil: issued.Add(8 * time.Hour),
	}

	require.Equal(t, PassStatusActive, pass.Status(issued.Add(time.Hour)))
	require.Equal(t, PassStatusExpired, pass.Status(issued.Add(8*time.Hour)))
	require.Equal(t, "6h 0m", pass.TimeRemaining(issued.Add(2*time.Hour)))
}
