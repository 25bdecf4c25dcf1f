package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidCardNumber(t *testing.T) {
	require.True(t, ValidCardNumber("4111111111111111"))
	require.True(t, ValidCardNumber("4111 1111 1111 1111"))
	require.True(t, ValidCardNumber("4111-1111-1111-1111"))
	require.True(t, ValidCardNumber("4111111111111"))

	require.False(t, ValidCardNumber(""))
	require.False(t, ValidCardNumber("411111111111"))
	require.False(t, ValidCardNumber("41111111111111111111"))
	require.False(t, ValidCardNumber("4111x11111111111"))
}

func TestMaskCard(t *testing.T) {
	require.Equal(t, "1111", MaskCard("4111 1111 1111 1111"))
	require.Equal(t, "9424", MaskCard("4111-1111-1111-9424"))
}
