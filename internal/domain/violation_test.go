package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidViolationTransition(t *testing.T) {
	allowed := [][2]string{
		{ViolationPending, ViolationPaid},
		{ViolationPending, ViolationAppealed},
		{ViolationPending, ViolationResolved},
		{ViolationAppealed, ViolationPaid},
		{ViolationAppealed, ViolationResolved},
	}
	for _, tc := range allowed {
		require.True(t, ValidViolationTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}

	denied := [][2]string{
		{ViolationPaid, ViolationPending},
		{ViolationPaid, ViolationAppealed},
		{ViolationPaid, ViolationResolved},
		{ViolationResolved, ViolationPaid},
		{ViolationResolved, ViolationPending},
		{ViolationAppealed, ViolationPending},
		{ViolationPending, ViolationPending},
	}
	for _, tc := range denied {
		require.False(t, ValidViolationTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}
}
