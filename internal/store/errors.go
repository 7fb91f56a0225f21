package store

import "errors"

var (
	ErrUnknownDriver  = errors.New("unknown database driver")
	ErrNoAccount      = errors.New("account id is required")
	ErrInvalidFixture = errors.New("invalid seed fixture")
)
