package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PropertySummary struct {
	PropertyID    string          `json:"property_id"`
	PropertyName  string          `json:"property_name"`
	BookingsCount int             `json:"bookings_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	Commissions   decimal.Decimal `json:"commissions"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	VariableCosts decimal.Decimal `json:"variable_costs"`
	FixedCosts    decimal.Decimal `json:"fixed_costs"`
	Margin        decimal.Decimal `json:"margin"`
	NightsBooked  int             `json:"nights_booked"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
}

type PortfolioSummary struct {
	Properties            int             `json:"properties"`
	BookingsCount         int             `json:"bookings_count"`
	Revenue               decimal.Decimal `json:"revenue"`
	Commissions           decimal.Decimal `json:"commissions"`
	NetRevenue            decimal.Decimal `json:"net_revenue"`
	VariableCosts         decimal.Decimal `json:"variable_costs"`
	FixedCosts            decimal.Decimal `json:"fixed_costs"`
	UnallocatedFixedCosts decimal.Decimal `json:"unallocated_fixed_costs"`
	Margin                decimal.Decimal `json:"margin"`
	NightsBooked          int             `json:"nights_booked"`
	OccupancyRate         decimal.Decimal `json:"occupancy_rate"`
}

type PeriodReport struct {
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Status     *BookingStatus    `json:"status,omitempty"`
	Months     int               `json:"months"`
	Properties []PropertySummary `json:"properties"`
	Portfolio  PortfolioSummary  `json:"portfolio"`
}

type TaxLine struct {
	BookingID        string          `json:"booking_id"`
	PropertyID       string          `json:"property_id"`
	GuestName        string          `json:"guest_name"`
	CheckIn          time.Time       `json:"check_in"`
	CheckOut         time.Time       `json:"check_out"`
	Nights           int             `json:"nights"`
	NumberOfGuests   int             `json:"number_of_guests"`
	EligibleGuests   int             `json:"eligible_guests"`
	ExemptGuests     int             `json:"exempt_guests"`
	UnknownAgeGuests int             `json:"unknown_age_guests"`
	TaxableNights    int             `json:"taxable_nights"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	ChannelDisplay   string          `json:"channel_display"`
}

type TaxTotals struct {
	Bookings       int             `json:"bookings"`
	EligibleGuests int             `json:"eligible_guests"`
	ExemptGuests   int             `json:"exempt_guests"`
	TotalAllGuests int             `json:"total_all_guests"`
	TaxableNights  int             `json:"taxable_nights"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
}

func (t *TaxTotals) Add(l TaxLine) {
	t.Bookings++
	t.EligibleGuests += l.EligibleGuests
	t.ExemptGuests += l.ExemptGuests
	t.TotalAllGuests += l.NumberOfGuests
	t.TaxableNights += l.TaxableNights
	t.TaxAmount = t.TaxAmount.Add(l.TaxAmount)
}

type NightsBucket struct {
	Label  string    `json:"label"`
	Totals TaxTotals `json:"totals"`
}

type TouristTaxReport struct {
	Year              int            `json:"year"`
	Month             int            `json:"month"`
	PropertyFilter    string         `json:"property_filter,omitempty"`
	Bookings          []TaxLine      `json:"bookings"`
	Totals            TaxTotals      `json:"totals"`
	BreakdownByNights []NightsBucket `json:"breakdown_by_nights"`
}

type FrequencyTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type FixedCostSummary struct {
	Count        int                          `json:"count"`
	MonthlyTotal decimal.Decimal              `json:"monthly_total"`
	YearlyTotal  decimal.Decimal              `json:"yearly_total"`
	OneTimeTotal decimal.Decimal              `json:"one_time_total"`
	ByFrequency  map[Frequency]FrequencyTotal `json:"by_frequency"`
}
