package finance

import "errors"

var (
	ErrInvalidRange    = errors.New("date range end is before its start")
	ErrInvalidSnapshot = errors.New("input snapshot violates the store contract")
)
