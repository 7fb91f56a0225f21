package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

// TaxRule is the statutory lodging-tax rule of the municipality.
type TaxRule struct {
	RatePerPersonPerNight decimal.Decimal
	MaxTaxableNights      int
	// Guests strictly younger than MinExemptAge at check-in are exempt.
	MinExemptAge     int
	EligibleChannels []string
	DirectChannels   []string
}

// Eligible reports whether a booking coming from the given channel or
// import source is taxable. Direct bookings are never taxable, even when
// another label matches an eligible marketplace.
func (r TaxRule) Eligible(channelName, sourceLabel string) bool {
	labels := []string{strings.ToLower(channelName), strings.ToLower(sourceLabel)}
	if matchAny(labels, r.DirectChannels) {
		return false
	}
	return matchAny(labels, r.EligibleChannels)
}

func matchAny(labels, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for _, l := range labels {
			if l != "" && strings.Contains(l, kw) {
				return true
			}
		}
	}
	return false
}

// AgeAt returns the age in whole years on the given day, by calendar
// difference.
func AgeAt(birth, on time.Time) int {
	by, bm, bd := birth.Date()
	oy, om, od := on.Date()
	age := oy - by
	if om < bm || (om == bm && od < bd) {
		age--
	}
	return age
}

// GuestCounts splits a booking's guests into eligible, exempt and unknown
// age. An empty registry makes every declared guest eligible.
func GuestCounts(b models.Booking, minExemptAge int) (eligible, exempt, unknown int) {
	if len(b.Guests) == 0 {
		return b.NumberOfGuests, 0, 0
	}
	for _, g := range b.Guests {
		switch {
		case g.BirthDate == nil:
			// Unknown birth dates count in neither bucket.
			unknown++
		case AgeAt(*g.BirthDate, b.CheckIn) >= minExemptAge:
			eligible++
		default:
			exempt++
		}
	}
	return eligible, exempt, unknown
}

// ChannelDisplay picks the label shown on the tax report.
func ChannelDisplay(b models.Booking) string {
	switch {
	case b.ChannelDisplay != "":
		return b.ChannelDisplay
	case b.ChannelName() != "":
		return b.ChannelName()
	}
	return b.SourceLabel
}

// TaxLineFor computes the liability of a single taxable booking.
func TaxLineFor(b models.Booking, rule TaxRule) models.TaxLine {
	eligible, exempt, unknown := GuestCounts(b, rule.MinExemptAge)
	nights := b.Nights()
	taxable := min(nights, rule.MaxTaxableNights)

	return models.TaxLine{
		BookingID:        b.ID,
		PropertyID:       b.PropertyID,
		GuestName:        b.GuestName,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		Nights:           nights,
		NumberOfGuests:   b.NumberOfGuests,
		EligibleGuests:   eligible,
		ExemptGuests:     exempt,
		UnknownAgeGuests: unknown,
		TaxableNights:    taxable,
		TaxAmount:        rule.RatePerPersonPerNight.Mul(decimal.NewFromInt(int64(eligible * taxable))),
		ChannelDisplay:   ChannelDisplay(b),
	}
}

var nightsBuckets = []string{"1", "2", "3+"}

func nightsBucket(nights int) int {
	switch {
	case nights <= 1:
		return 0
	case nights == 2:
		return 1
	}
	return 2
}

// ComputeTouristTax reports the lodging tax owed for bookings checking in
// during the given month. propertyFilter narrows only the stay-length
// breakdown; lines and totals always cover every property.
func ComputeTouristTax(bookings []models.Booking, rule TaxRule, year int, month time.Month, propertyFilter string) models.TouristTaxReport {
	report := models.TouristTaxReport{
		Year:              year,
		Month:             int(month),
		PropertyFilter:    propertyFilter,
		Bookings:          []models.TaxLine{},
		BreakdownByNights: make([]models.NightsBucket, len(nightsBuckets)),
	}
	for i, label := range nightsBuckets {
		report.BreakdownByNights[i].Label = label
	}

	for _, b := range bookings {
		if b.Status == models.StatusCancelled {
			continue
		}
		if y, m, _ := b.CheckIn.Date(); y != year || m != month {
			continue
		}
		if !rule.Eligible(b.ChannelName(), b.SourceLabel) {
			continue
		}

		line := TaxLineFor(b, rule)
		report.Bookings = append(report.Bookings, line)
		report.Totals.Add(line)

		if propertyFilter == "" || propertyFilter == b.PropertyID {
			report.BreakdownByNights[nightsBucket(line.Nights)].Totals.Add(line)
		}
	}
	return report
}
