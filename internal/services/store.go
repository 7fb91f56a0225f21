package services

import (
	"context"
	"time"

	"stayledger/internal/models"
)

// BookingFilter narrows ListBookings to check-ins between From and To,
// both days included. Zero values leave that side open.
type BookingFilter struct {
	From time.Time
	To   time.Time
}

// Match applies the filter to a single booking.
func (f BookingFilter) Match(b models.Booking) bool {
	in := models.Date(b.CheckIn)
	if !f.From.IsZero() && in.Before(models.Date(f.From)) {
		return false
	}
	if !f.To.IsZero() && in.After(models.Date(f.To)) {
		return false
	}
	return true
}

// Store is the read side the reports are computed from. Implementations
// are scoped to a single account.
type Store interface {
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	ListProperties(ctx context.Context) ([]models.Property, error)
	ListFixedCosts(ctx context.Context) ([]models.FixedCost, error)
	ListChannels(ctx context.Context) ([]models.Channel, error)
}
