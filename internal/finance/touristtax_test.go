package finance

import (
	"testing"
	"time"

	"stayledger/internal/models"
)

func testRule() TaxRule {
	return TaxRule{
		RatePerPersonPerNight: dec("2"),
		MaxTaxableNights:      3,
		MinExemptAge:          14,
		EligibleChannels:      []string{"booking", "airbnb"},
		DirectChannels:        []string{"direct", "diretto"},
	}
}

func born(s string) *time.Time {
	t := day(s)
	return &t
}

func stay(id, property string, checkIn string, nights, guests int) models.Booking {
	in := day(checkIn)
	return models.Booking{
		ID:             id,
		PropertyID:     property,
		GuestName:      "Guest " + id,
		Channel:        &booking,
		Status:         models.StatusConfirmed,
		CheckIn:        in,
		CheckOut:       in.AddDate(0, 0, nights),
		NumberOfGuests: guests,
	}
}

func TestTaxRule_Eligible(t *testing.T) {
	rule := testRule()
	tests := []struct {
		channel, source string
		want            bool
	}{
		{"Booking.com", "", true},
		{"", "AIRBNB import", true},
		{"Airbnb", "Direct", false},
		{"Direct", "", false},
		{"Prenotazione Diretto", "", false},
		{"Expedia", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.channel+"|"+tt.source, func(t *testing.T) {
			if got := rule.Eligible(tt.channel, tt.source); got != tt.want {
				t.Errorf("Eligible(%q, %q) = %v, want %v", tt.channel, tt.source, got, tt.want)
			}
		})
	}
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		birth, on string
		want      int
	}{
		{"2010-06-15", "2024-06-14", 13},
		{"2010-06-15", "2024-06-15", 14},
		{"2010-06-15", "2024-06-16", 14},
		{"2008-02-29", "2024-02-28", 15},
		{"1980-12-31", "2024-01-01", 43},
	}
	for _, tt := range tests {
		t.Run(tt.birth+"@"+tt.on, func(t *testing.T) {
			if got := AgeAt(day(tt.birth), day(tt.on)); got != tt.want {
				t.Errorf("AgeAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTaxLineFor(t *testing.T) {
	rule := testRule()

	t.Run("two adults capped nights", func(t *testing.T) {
		b := stay("b1", "P", "2024-05-10", 5, 2)
		b.Guests = []models.Guest{
			{FirstName: "Ada", BirthDate: born("1985-03-01")},
			{FirstName: "Bruno", BirthDate: born("1987-09-12")},
		}

		line := TaxLineFor(b, rule)

		if line.EligibleGuests != 2 || line.TaxableNights != 3 {
			t.Errorf("eligible=%d nights=%d, want 2 and 3", line.EligibleGuests, line.TaxableNights)
		}
		assertDec(t, "TaxAmount", line.TaxAmount, dec("12"))
	})

	t.Run("minor is exempt", func(t *testing.T) {
		b := stay("b2", "P", "2024-05-10", 5, 2)
		b.Guests = []models.Guest{
			{FirstName: "Ada", BirthDate: born("1985-03-01")},
			{FirstName: "Carla", BirthDate: born("2015-01-20")},
		}

		line := TaxLineFor(b, rule)

		if line.EligibleGuests != 1 || line.ExemptGuests != 1 {
			t.Errorf("eligible=%d exempt=%d, want 1 and 1", line.EligibleGuests, line.ExemptGuests)
		}
		assertDec(t, "TaxAmount", line.TaxAmount, dec("6"))
	})

	t.Run("empty registry taxes every guest", func(t *testing.T) {
		b := stay("b3", "P", "2024-05-10", 2, 4)

		line := TaxLineFor(b, rule)

		if line.EligibleGuests != 4 || line.ExemptGuests != 0 {
			t.Errorf("eligible=%d exempt=%d, want 4 and 0", line.EligibleGuests, line.ExemptGuests)
		}
		assertDec(t, "TaxAmount", line.TaxAmount, dec("16"))
	})

	t.Run("unknown birth date counted nowhere", func(t *testing.T) {
		b := stay("b4", "P", "2024-05-10", 1, 3)
		b.Guests = []models.Guest{
			{FirstName: "Ada", BirthDate: born("1985-03-01")},
			{FirstName: "Dario"},
			{FirstName: "Elena", BirthDate: born("2020-07-07")},
		}

		line := TaxLineFor(b, rule)

		if line.EligibleGuests != 1 || line.ExemptGuests != 1 || line.UnknownAgeGuests != 1 {
			t.Errorf("got eligible=%d exempt=%d unknown=%d, want 1/1/1",
				line.EligibleGuests, line.ExemptGuests, line.UnknownAgeGuests)
		}
		assertDec(t, "TaxAmount", line.TaxAmount, dec("2"))
	})

	t.Run("channel display falls back", func(t *testing.T) {
		b := stay("b5", "P", "2024-05-10", 1, 1)
		if got := TaxLineFor(b, rule).ChannelDisplay; got != "Booking.com" {
			t.Errorf("ChannelDisplay = %q, want channel name", got)
		}
		b.ChannelDisplay = "Booking (Genius)"
		if got := TaxLineFor(b, rule).ChannelDisplay; got != "Booking (Genius)" {
			t.Errorf("ChannelDisplay = %q, want recorded label", got)
		}
	})
}

func TestComputeTouristTax(t *testing.T) {
	rule := testRule()

	direct := stay("direct", "P", "2024-05-03", 4, 6)
	direct.Channel = nil
	direct.SourceLabel = "Direct"
	direct.GrossRevenue = dec("5000")

	cancelled := stay("cancelled", "P", "2024-05-04", 2, 2)
	cancelled.Status = models.StatusCancelled

	imported := stay("imported", "Q", "2024-05-20", 2, 3)
	imported.Channel = nil
	imported.SourceLabel = "airbnb-csv"

	bookings := []models.Booking{
		stay("one-night", "P", "2024-05-01", 1, 2),
		stay("long", "Q", "2024-05-31", 6, 2),
		stay("april", "P", "2024-04-30", 3, 2),
		direct,
		cancelled,
		imported,
	}

	t.Run("all properties", func(t *testing.T) {
		report := ComputeTouristTax(bookings, rule, 2024, time.May, "")

		if len(report.Bookings) != 3 {
			t.Fatalf("taxable bookings = %d, want 3", len(report.Bookings))
		}
		for _, l := range report.Bookings {
			if l.BookingID == "direct" {
				t.Error("direct booking must never be taxable")
			}
		}
		// 2x1x2 + 2x3x2 + 3x2x2
		assertDec(t, "TaxAmount", report.Totals.TaxAmount, dec("28"))
		if report.Totals.TotalAllGuests != 7 {
			t.Errorf("TotalAllGuests = %d, want 7", report.Totals.TotalAllGuests)
		}
		if report.Totals.TaxableNights != 6 {
			t.Errorf("TaxableNights = %d, want 6", report.Totals.TaxableNights)
		}

		buckets := report.BreakdownByNights
		if buckets[0].Label != "1" || buckets[0].Totals.Bookings != 1 {
			t.Errorf("bucket 1 = %+v", buckets[0])
		}
		if buckets[1].Totals.Bookings != 1 || buckets[2].Totals.Bookings != 1 {
			t.Errorf("buckets 2/3+ = %+v / %+v", buckets[1], buckets[2])
		}
	})

	t.Run("property filter narrows breakdown only", func(t *testing.T) {
		report := ComputeTouristTax(bookings, rule, 2024, time.May, "Q")

		if len(report.Bookings) != 3 {
			t.Errorf("lines = %d, want 3 regardless of filter", len(report.Bookings))
		}
		if report.BreakdownByNights[0].Totals.Bookings != 0 {
			t.Error("property P booking leaked into filtered breakdown")
		}
		var filtered int
		for _, b := range report.BreakdownByNights {
			filtered += b.Totals.Bookings
		}
		if filtered != 2 {
			t.Errorf("filtered breakdown bookings = %d, want 2", filtered)
		}
	})

	t.Run("empty month", func(t *testing.T) {
		report := ComputeTouristTax(bookings, rule, 2023, time.May, "")
		if len(report.Bookings) != 0 || !report.Totals.TaxAmount.IsZero() {
			t.Errorf("expected empty report, got %+v", report.Totals)
		}
		if len(report.BreakdownByNights) != 3 {
			t.Errorf("breakdown should always list 3 buckets")
		}
	})
}
