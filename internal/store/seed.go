package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"stayledger/internal/models"
)

// Fixture is the JSON document accepted by Seed. Dates are YYYY-MM-DD.
type Fixture struct {
	Properties []models.Property `json:"properties"`
	Channels   []models.Channel  `json:"channels"`
	Products   []models.Product  `json:"products"`
	Bookings   []fixtureBooking  `json:"bookings"`
	FixedCosts []fixtureCost     `json:"fixed_costs"`
}

type fixtureBooking struct {
	models.Booking
	CheckIn  string         `json:"check_in"`
	CheckOut string         `json:"check_out"`
	Guests   []fixtureGuest `json:"guests,omitempty"`
}

type fixtureGuest struct {
	models.Guest
	BirthDate string `json:"birth_date,omitempty"`
}

type fixtureCost struct {
	models.FixedCost
	StartDate string `json:"start_date"`
}

func DecodeFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}
	return &f, nil
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	Properties int
	Channels   int
	Products   int
	Bookings   int
	FixedCosts int
}

// Seed upserts every record of the fixture. Records without an id get a
// random one. Product lines that name a catalogue product but carry no
// price take the product's current price.
func (db *DB) Seed(ctx context.Context, f *Fixture) (SeedResult, error) {
	var res SeedResult

	for _, p := range f.Properties {
		p.ID = idOrNew(p.ID)
		if err := db.SaveProperty(ctx, p); err != nil {
			return res, err
		}
		res.Properties++
	}
	for _, c := range f.Channels {
		c.ID = idOrNew(c.ID)
		if err := db.SaveChannel(ctx, c); err != nil {
			return res, err
		}
		res.Channels++
	}

	catalogue := make(map[string]models.Product, len(f.Products))
	for _, p := range f.Products {
		p.ID = idOrNew(p.ID)
		if err := db.SaveProduct(ctx, p); err != nil {
			return res, err
		}
		catalogue[p.ID] = p
		res.Products++
	}

	for _, fb := range f.Bookings {
		b, err := fb.booking(catalogue)
		if err != nil {
			return res, err
		}
		if err := db.SaveBooking(ctx, b); err != nil {
			return res, err
		}
		res.Bookings++
	}

	for _, fc := range f.FixedCosts {
		c := fc.FixedCost
		c.ID = idOrNew(c.ID)
		if !c.Frequency.Valid() {
			return res, fmt.Errorf("%w: fixed cost %s: unknown frequency %q", ErrInvalidFixture, c.ID, c.Frequency)
		}
		start, err := parseDate(fc.StartDate)
		if err != nil {
			return res, fmt.Errorf("%w: fixed cost %s: %w", ErrInvalidFixture, c.ID, err)
		}
		c.StartDate = start
		if err := db.SaveFixedCost(ctx, c); err != nil {
			return res, err
		}
		res.FixedCosts++
	}

	return res, nil
}

func (fb fixtureBooking) booking(catalogue map[string]models.Product) (models.Booking, error) {
	b := fb.Booking
	b.ID = idOrNew(b.ID)
	if b.Status == "" {
		b.Status = models.StatusConfirmed
	}
	if !b.Status.Valid() {
		return b, fmt.Errorf("%w: booking %s: unknown status %q", ErrInvalidFixture, b.ID, b.Status)
	}

	var err error
	if b.CheckIn, err = parseDate(fb.CheckIn); err != nil {
		return b, fmt.Errorf("%w: booking %s: %w", ErrInvalidFixture, b.ID, err)
	}
	if b.CheckOut, err = parseDate(fb.CheckOut); err != nil {
		return b, fmt.Errorf("%w: booking %s: %w", ErrInvalidFixture, b.ID, err)
	}
	if !b.CheckOut.After(b.CheckIn) {
		return b, fmt.Errorf("%w: booking %s: check-out must be after check-in", ErrInvalidFixture, b.ID)
	}

	for i, l := range b.Products {
		if p, ok := catalogue[l.ProductID]; ok && l.UnitPrice.IsZero() {
			b.Products[i] = models.NewProductLine(p, l.Quantity)
		}
	}

	b.Guests = make([]models.Guest, 0, len(fb.Guests))
	for _, fg := range fb.Guests {
		g := fg.Guest
		if fg.BirthDate != "" {
			t, err := parseDate(fg.BirthDate)
			if err != nil {
				return b, fmt.Errorf("%w: booking %s guest %s: %w", ErrInvalidFixture, b.ID, g.FirstName, err)
			}
			g.BirthDate = &t
		}
		b.Guests = append(b.Guests, g)
	}
	return b, nil
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
