package finance

import (
	"errors"
	"fmt"
	"time"

	"stayledger/internal/models"
)

// Snapshot is the immutable input of a computation. It is passed by value
// and never written to.
type Snapshot struct {
	Properties []models.Property
	Bookings   []models.Booking
	FixedCosts []models.FixedCost
}

// Validate reports enum values and date orderings the computations would
// otherwise panic on or silently misread.
func (s Snapshot) Validate() error {
	var errs []error
	for _, b := range s.Bookings {
		if !b.Status.Valid() {
			errs = append(errs, fmt.Errorf("booking %s: unknown status %q", b.ID, b.Status))
		}
		if !b.CheckOut.After(b.CheckIn) {
			errs = append(errs, fmt.Errorf("booking %s: check-out %s is not after check-in %s",
				b.ID, b.CheckOut.Format(time.DateOnly), b.CheckIn.Format(time.DateOnly)))
		}
	}
	for _, c := range s.FixedCosts {
		if !c.Frequency.Valid() {
			errs = append(errs, fmt.Errorf("fixed cost %s: unknown frequency %q", c.ID, c.Frequency))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSnapshot, errors.Join(errs...))
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: models.Date(start), End: models.Date(end)}
	return r, r.Validate()
}

func (r DateRange) Validate() error {
	if models.Date(r.End).Before(models.Date(r.Start)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	return nil
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := models.Date(t)
	return !d.Before(models.Date(r.Start)) && !d.After(models.Date(r.End))
}

// Days counts the calendar days in the range, both ends included.
func (r DateRange) Days() int {
	return models.DaysBetween(r.Start, r.End) + 1
}

// NightsWithin counts the nights of [checkIn, checkOut) that fall inside
// the range.
func (r DateRange) NightsWithin(checkIn, checkOut time.Time) int {
	from := models.Date(checkIn)
	if start := models.Date(r.Start); from.Before(start) {
		from = start
	}
	to := models.Date(checkOut)
	if limit := models.Date(r.End).AddDate(0, 0, 1); to.After(limit) {
		to = limit
	}
	if !to.After(from) {
		return 0
	}
	return models.DaysBetween(from, to)
}
