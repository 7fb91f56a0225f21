package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
	FrequencyOneTime   Frequency = "ONE_TIME"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyOneTime:
		return true
	}
	return false
}

type Property struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Bedrooms  int    `json:"bedrooms"`
	Bathrooms int    `json:"bathrooms"`
}

// Channel is a booking marketplace. CommissionRate is a percentage (0-100).
type Channel struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	PackageCost     decimal.Decimal `json:"package_cost"`
	PackageQuantity decimal.Decimal `json:"package_quantity"`
	Unit            string          `json:"unit"`
}

// Price returns the direct unit price when set, otherwise the package cost
// spread over the package quantity.
func (p Product) Price() decimal.Decimal {
	if p.UnitPrice.IsPositive() {
		return p.UnitPrice
	}
	if p.PackageQuantity.IsPositive() {
		return p.PackageCost.Div(p.PackageQuantity)
	}
	return decimal.Zero
}

// ProductLine is a consumed product on a booking. UnitPrice and ProductName
// are copied from the catalogue when the line is added and never refreshed.
type ProductLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func NewProductLine(p Product, quantity decimal.Decimal) ProductLine {
	return ProductLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price(),
	}
}

func (l ProductLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

type Guest struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	DocumentType   string     `json:"document_type,omitempty"`
	DocumentNumber string     `json:"document_number,omitempty"`
}

type Booking struct {
	ID             string          `json:"id"`
	PropertyID     string          `json:"property_id"`
	ChannelID      string          `json:"channel_id,omitempty"`
	Channel        *Channel        `json:"channel,omitempty"`
	GuestName      string          `json:"guest_name"`
	CheckIn        time.Time       `json:"check_in"`
	CheckOut       time.Time       `json:"check_out"`
	NumberOfGuests int             `json:"number_of_guests"`
	GrossRevenue   decimal.Decimal `json:"gross_revenue"`
	Status         BookingStatus   `json:"status"`
	Products       []ProductLine   `json:"products,omitempty"`
	Guests         []Guest         `json:"guests,omitempty"`
	ChannelDisplay string          `json:"channel_display,omitempty"`
	SourceLabel    string          `json:"source_label,omitempty"`
	ArrivalInfo    string          `json:"arrival_info,omitempty"`
}

// Nights counts whole calendar days between check-in and check-out.
func (b Booking) Nights() int {
	return DaysBetween(b.CheckIn, b.CheckOut)
}

// ChannelName is empty for direct bookings.
func (b Booking) ChannelName() string {
	if b.Channel == nil {
		return ""
	}
	return b.Channel.Name
}

type FixedCost struct {
	ID          string          `json:"id"`
	PropertyID  string          `json:"property_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
}

// Generic costs are not tied to a property and are shared by the portfolio.
func (c FixedCost) Generic() bool {
	return c.PropertyID == ""
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}
