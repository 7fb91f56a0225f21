package services

import (
	"errors"

	"stayledger/internal/finance"
)

var (
	ErrInvalidMonth  = errors.New("month must be between 1 and 12 of a positive year")
	ErrInvalidStatus = errors.New("unknown booking status")

	// ErrInvalidSnapshot is returned when the store hands back data the
	// computations cannot run on.
	ErrInvalidSnapshot = finance.ErrInvalidSnapshot
)
