package finance

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

func periodSnapshot() Snapshot {
	airbnb := &models.Channel{ID: "ch-airbnb", Name: "Airbnb", CommissionRate: dec("3")}
	return Snapshot{
		Properties: []models.Property{
			{ID: "P", Name: "Casa Limone"},
			{ID: "Q", Name: "Loft Navigli"},
		},
		Bookings: []models.Booking{
			{ID: "b1", PropertyID: "P", Channel: &booking, Status: models.StatusConfirmed,
				CheckIn: day("2024-01-05"), CheckOut: day("2024-01-10"), NumberOfGuests: 2, GrossRevenue: dec("500"),
				Products: []models.ProductLine{{ProductID: "kit", Quantity: dec("1"), UnitPrice: dec("20")}}},
			{ID: "b2", PropertyID: "P", Status: models.StatusConfirmed,
				CheckIn: day("2024-02-27"), CheckOut: day("2024-03-03"), NumberOfGuests: 1, GrossRevenue: dec("300")},
			{ID: "b3", PropertyID: "P", Channel: &booking, Status: models.StatusCancelled,
				CheckIn: day("2024-01-20"), CheckOut: day("2024-01-22"), NumberOfGuests: 2, GrossRevenue: dec("200")},
			{ID: "b4", PropertyID: "Q", Channel: airbnb, Status: models.StatusConfirmed,
				CheckIn: day("2024-01-15"), CheckOut: day("2024-01-18"), NumberOfGuests: 3, GrossRevenue: dec("600")},
			{ID: "b5", PropertyID: "Q", Status: models.StatusConfirmed,
				CheckIn: day("2024-03-01"), CheckOut: day("2024-03-04"), NumberOfGuests: 2, GrossRevenue: dec("250")},
			{ID: "b6", PropertyID: "unknown", Status: models.StatusConfirmed,
				CheckIn: day("2024-01-15"), CheckOut: day("2024-01-16"), NumberOfGuests: 2, GrossRevenue: dec("99")},
		},
		FixedCosts: []models.FixedCost{
			{ID: "f1", PropertyID: "P", Amount: dec("30"), Frequency: models.FrequencyMonthly},
			{ID: "f2", Amount: dec("20"), Frequency: models.FrequencyMonthly},
		},
	}
}

func TestSummarizePeriod(t *testing.T) {
	r, err := NewDateRange(day("2024-01-01"), day("2024-02-29"))
	if err != nil {
		t.Fatal(err)
	}

	report := SummarizePeriod(periodSnapshot(), r, nil)

	if report.Months != 2 {
		t.Fatalf("Months = %d, want 2", report.Months)
	}
	if len(report.Properties) != 2 || report.Properties[0].PropertyID != "P" || report.Properties[1].PropertyID != "Q" {
		t.Fatalf("properties out of insertion order: %+v", report.Properties)
	}

	p := report.Properties[0]
	if p.BookingsCount != 2 {
		t.Errorf("P bookings = %d, want 2", p.BookingsCount)
	}
	assertDec(t, "P revenue", p.Revenue, dec("800"))
	assertDec(t, "P commissions", p.Commissions, dec("75"))
	assertDec(t, "P net revenue", p.NetRevenue, dec("725"))
	assertDec(t, "P variable costs", p.VariableCosts, dec("20"))
	assertDec(t, "P fixed costs", p.FixedCosts, dec("80"))
	assertDec(t, "P margin", p.Margin, dec("625"))
	// b1 5 nights, b2 3 of its 5 nights fall before March (leap year).
	if p.NightsBooked != 8 {
		t.Errorf("P nights = %d, want 8", p.NightsBooked)
	}

	q := report.Properties[1]
	if q.BookingsCount != 1 {
		t.Errorf("Q bookings = %d, want 1", q.BookingsCount)
	}
	assertDec(t, "Q commissions", q.Commissions, dec("18"))
	assertDec(t, "Q fixed costs", q.FixedCosts, dec("20"))
	assertDec(t, "Q margin", q.Margin, dec("562"))

	pf := report.Portfolio
	if pf.BookingsCount != 3 {
		t.Errorf("portfolio bookings = %d, want 3", pf.BookingsCount)
	}
	assertDec(t, "portfolio revenue", pf.Revenue, dec("1400"))
	assertDec(t, "portfolio fixed costs", pf.FixedCosts, dec("100"))
	assertDec(t, "portfolio margin", pf.Margin, p.Margin.Add(q.Margin))
}

func TestSummarizePeriod_StatusFilter(t *testing.T) {
	r, _ := NewDateRange(day("2024-01-01"), day("2024-01-31"))
	cancelled := models.StatusCancelled

	report := SummarizePeriod(periodSnapshot(), r, &cancelled)

	p := report.Properties[0]
	if p.BookingsCount != 1 {
		t.Fatalf("cancelled bookings = %d, want 1", p.BookingsCount)
	}
	assertDec(t, "commissions", p.Commissions, decimal.Zero)
	assertDec(t, "revenue", p.Revenue, dec("200"))
}

func TestSummarizePeriod_InclusiveRange(t *testing.T) {
	r, _ := NewDateRange(day("2024-01-15"), day("2024-01-15"))

	report := SummarizePeriod(periodSnapshot(), r, nil)

	if got := report.Properties[1].BookingsCount; got != 1 {
		t.Errorf("booking checking in on the last day should count, got %d", got)
	}
	if got := report.Properties[1].OccupancyRate; !got.Equal(dec("100")) {
		t.Errorf("occupancy = %s, want 100", got)
	}
}

func TestSummarizePeriod_Idempotent(t *testing.T) {
	r, _ := NewDateRange(day("2024-01-01"), day("2024-03-31"))
	s := periodSnapshot()

	first := SummarizePeriod(s, r, nil)
	second := SummarizePeriod(s, r, nil)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different reports")
	}
}

func TestSummarizePeriod_NoProperties(t *testing.T) {
	r, _ := NewDateRange(day("2024-01-01"), day("2024-01-31"))
	s := periodSnapshot()
	s.Properties = nil

	report := SummarizePeriod(s, r, nil)

	if len(report.Properties) != 0 {
		t.Errorf("expected no property rows, got %d", len(report.Properties))
	}
	assertDec(t, "unallocated", report.Portfolio.UnallocatedFixedCosts, dec("50"))
	assertDec(t, "occupancy", report.Portfolio.OccupancyRate, decimal.Zero)
}

func TestNewDateRange_Invalid(t *testing.T) {
	if _, err := NewDateRange(day("2024-02-01"), day("2024-01-01")); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantErr bool
	}{
		{"valid", func(*Snapshot) {}, false},
		{"unknown status", func(s *Snapshot) { s.Bookings[0].Status = "NO_SHOW" }, true},
		{"unknown frequency", func(s *Snapshot) { s.FixedCosts[0].Frequency = "WEEKLY" }, true},
		{"reversed stay", func(s *Snapshot) { s.Bookings[1].CheckOut = s.Bookings[1].CheckIn }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := periodSnapshot()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
