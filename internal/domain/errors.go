package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", ...) and the HTTP layer maps them to status codes.
var (
	ErrValidation    = errors.New("validation error")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrPersistence   = errors.New("persistence error")
)

// ErrInvalidPassType is a ValidationError flavor: errors.Is(err, ErrValidation)
// holds for it as well.
var ErrInvalidPassType = fmt.Errorf("invalid pass type: %w", ErrValidation)
