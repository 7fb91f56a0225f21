package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

func (hw *htmlWriter) amountCell(d decimal.Decimal) {
	if d.IsNegative() {
		hw.raw(`<td class="negative">`)
	} else {
		hw.raw(`<td>`)
	}
	hw.text(money(d))
	hw.raw(`</td>`)
}

func (hw *htmlWriter) intCell(n int) {
	hw.raw(`<td>`)
	hw.raw(strconv.Itoa(n))
	hw.raw(`</td>`)
}

func (hw *htmlWriter) textCell(s string) {
	hw.raw(`<td>`)
	hw.text(s)
	hw.raw(`</td>`)
}

// PeriodTable renders a period report into #period-content.
func PeriodTable(report *models.PeriodReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="period-content"><p class="muted">`)
		hw.text(date(report.Start) + " to " + date(report.End))
		hw.rawf(` &middot; %d month(s) of fixed costs`, report.Months)
		if report.Status != nil {
			hw.raw(` &middot; status `)
			hw.text(string(*report.Status))
		}
		hw.raw(`</p><table class="modern-table"><thead><tr>`)
		hw.raw(`<th>Property</th><th>Bookings</th><th>Revenue</th><th>Commissions</th><th>Net revenue</th>`)
		hw.raw(`<th>Variable costs</th><th>Fixed costs</th><th>Margin</th><th>Nights</th><th>Occupancy</th>`)
		hw.raw(`</tr></thead><tbody>`)

		for _, p := range report.Properties {
			hw.raw(`<tr>`)
			hw.textCell(p.PropertyName)
			hw.intCell(p.BookingsCount)
			hw.amountCell(p.Revenue)
			hw.amountCell(p.Commissions)
			hw.amountCell(p.NetRevenue)
			hw.amountCell(p.VariableCosts)
			hw.amountCell(p.FixedCosts)
			hw.amountCell(p.Margin)
			hw.intCell(p.NightsBooked)
			hw.textCell(percent(p.OccupancyRate))
			hw.raw(`</tr>`)
		}

		pf := report.Portfolio
		hw.raw(`</tbody><tfoot><tr>`)
		hw.textCell("Portfolio")
		hw.intCell(pf.BookingsCount)
		hw.amountCell(pf.Revenue)
		hw.amountCell(pf.Commissions)
		hw.amountCell(pf.NetRevenue)
		hw.amountCell(pf.VariableCosts)
		hw.amountCell(pf.FixedCosts)
		hw.amountCell(pf.Margin)
		hw.intCell(pf.NightsBooked)
		hw.textCell(percent(pf.OccupancyRate))
		hw.raw(`</tr></tfoot></table>`)

		if pf.UnallocatedFixedCosts.IsPositive() {
			hw.raw(`<p class="error-banner">`)
			hw.text(money(pf.UnallocatedFixedCosts))
			hw.raw(` of fixed costs could not be attributed to a property.</p>`)
		}
		hw.raw(`</div>`)
		return hw.err
	})
}

// TaxTable renders a tourist-tax report into #tax-content.
func TaxTable(report *models.TouristTaxReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="tax-content">`)

		hw.raw(`<div class="stat-grid">`)
		stat := func(label, value string) {
			hw.raw(`<div class="stat"><span class="muted">`)
			hw.text(label)
			hw.raw(`</span><strong>`)
			hw.text(value)
			hw.raw(`</strong></div>`)
		}
		stat("Taxable bookings", strconv.Itoa(report.Totals.Bookings))
		stat("Eligible guests", strconv.Itoa(report.Totals.EligibleGuests))
		stat("Exempt guests", strconv.Itoa(report.Totals.ExemptGuests))
		stat("Taxable nights", strconv.Itoa(report.Totals.TaxableNights))
		stat("Tax due", money(report.Totals.TaxAmount))
		hw.raw(`</div>`)

		hw.raw(`<table class="modern-table"><thead><tr>`)
		hw.raw(`<th>Guest</th><th>Channel</th><th>Check-in</th><th>Nights</th><th>Guests</th>`)
		hw.raw(`<th>Eligible</th><th>Exempt</th><th>Taxable nights</th><th>Tax</th>`)
		hw.raw(`</tr></thead><tbody>`)
		for _, l := range report.Bookings {
			hw.raw(`<tr>`)
			hw.textCell(l.GuestName)
			hw.textCell(l.ChannelDisplay)
			hw.textCell(date(l.CheckIn))
			hw.intCell(l.Nights)
			hw.intCell(l.NumberOfGuests)
			hw.intCell(l.EligibleGuests)
			if l.UnknownAgeGuests > 0 {
				hw.rawf(`<td title="%d guest(s) without birth date">%d*</td>`, l.UnknownAgeGuests, l.ExemptGuests)
			} else {
				hw.intCell(l.ExemptGuests)
			}
			hw.intCell(l.TaxableNights)
			hw.amountCell(l.TaxAmount)
			hw.raw(`</tr>`)
		}
		hw.raw(`</tbody></table>`)

		hw.raw(`<h3>By length of stay`)
		if report.PropertyFilter != "" {
			hw.raw(` &middot; `)
			hw.text(report.PropertyFilter)
		}
		hw.raw(`</h3><table class="modern-table"><thead><tr>`)
		hw.raw(`<th>Nights</th><th>Bookings</th><th>Eligible</th><th>Exempt</th><th>All guests</th><th>Tax</th>`)
		hw.raw(`</tr></thead><tbody>`)
		for _, b := range report.BreakdownByNights {
			hw.raw(`<tr>`)
			hw.textCell(b.Label)
			hw.intCell(b.Totals.Bookings)
			hw.intCell(b.Totals.EligibleGuests)
			hw.intCell(b.Totals.ExemptGuests)
			hw.intCell(b.Totals.TotalAllGuests)
			hw.amountCell(b.Totals.TaxAmount)
			hw.raw(`</tr>`)
		}
		hw.raw(`</tbody></table></div>`)
		return hw.err
	})
}

var frequencyOrder = []models.Frequency{
	models.FrequencyMonthly,
	models.FrequencyQuarterly,
	models.FrequencyYearly,
	models.FrequencyOneTime,
}

// FixedCostCard renders the fixed-cost statistics into #fixed-costs-content.
func FixedCostCard(summary *models.FixedCostSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="fixed-costs-content"><div class="stat-grid">`)
		hw.raw(`<div class="stat"><span class="muted">Monthly equivalent</span><strong>`)
		hw.text(money(summary.MonthlyTotal))
		hw.raw(`</strong></div><div class="stat"><span class="muted">Yearly equivalent</span><strong>`)
		hw.text(money(summary.YearlyTotal))
		hw.raw(`</strong></div><div class="stat"><span class="muted">One-time</span><strong>`)
		hw.text(money(summary.OneTimeTotal))
		hw.raw(`</strong></div></div>`)

		hw.raw(`<table class="modern-table"><thead><tr><th>Frequency</th><th>Costs</th><th>Amount</th></tr></thead><tbody>`)
		for _, f := range frequencyOrder {
			t, ok := summary.ByFrequency[f]
			if !ok {
				continue
			}
			hw.raw(`<tr>`)
			hw.textCell(string(f))
			hw.intCell(t.Count)
			hw.amountCell(t.Amount)
			hw.raw(`</tr>`)
		}
		hw.raw(`</tbody></table></div>`)
		return hw.err
	})
}
