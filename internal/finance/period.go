package finance

import (
	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

// selectBooking applies the status rule of a period summary: without a
// filter cancelled bookings are left out, with one only that status counts.
func selectBooking(b models.Booking, r DateRange, status *models.BookingStatus) bool {
	if status == nil {
		if b.Status == models.StatusCancelled {
			return false
		}
	} else if b.Status != *status {
		return false
	}
	return r.Contains(b.CheckIn)
}

// SummarizePeriod produces per-property and portfolio figures for the
// bookings checking in within r. Properties keep the order of the snapshot.
func SummarizePeriod(s Snapshot, r DateRange, status *models.BookingStatus) models.PeriodReport {
	alloc := AllocateFixedCosts(s.FixedCosts, s.Properties, r.Start, r.End)
	days := r.Days()

	index := make(map[string]int, len(s.Properties))
	summaries := make([]models.PropertySummary, len(s.Properties))
	for i, p := range s.Properties {
		index[p.ID] = i
		summaries[i] = models.PropertySummary{
			PropertyID:   p.ID,
			PropertyName: p.Name,
			FixedCosts:   alloc.For(p.ID),
		}
	}

	for _, b := range s.Bookings {
		i, ok := index[b.PropertyID]
		if !ok || !selectBooking(b, r, status) {
			continue
		}
		bd := Decompose(b)
		ps := &summaries[i]
		ps.BookingsCount++
		ps.Revenue = ps.Revenue.Add(b.GrossRevenue)
		ps.Commissions = ps.Commissions.Add(bd.CommissionAmount)
		ps.NetRevenue = ps.NetRevenue.Add(bd.NetRevenue)
		ps.VariableCosts = ps.VariableCosts.Add(bd.VariableCosts)
		ps.NightsBooked += r.NightsWithin(b.CheckIn, b.CheckOut)
	}

	portfolio := models.PortfolioSummary{
		Properties:            len(s.Properties),
		FixedCosts:            alloc.PortfolioTotal,
		UnallocatedFixedCosts: alloc.Unallocated,
	}
	for i := range summaries {
		ps := &summaries[i]
		ps.Margin = ps.NetRevenue.Sub(ps.VariableCosts).Sub(ps.FixedCosts)
		ps.OccupancyRate = occupancy(ps.NightsBooked, days)

		portfolio.BookingsCount += ps.BookingsCount
		portfolio.Revenue = portfolio.Revenue.Add(ps.Revenue)
		portfolio.Commissions = portfolio.Commissions.Add(ps.Commissions)
		portfolio.NetRevenue = portfolio.NetRevenue.Add(ps.NetRevenue)
		portfolio.VariableCosts = portfolio.VariableCosts.Add(ps.VariableCosts)
		portfolio.NightsBooked += ps.NightsBooked
	}
	portfolio.Margin = portfolio.NetRevenue.Sub(portfolio.VariableCosts).Sub(portfolio.FixedCosts)
	portfolio.OccupancyRate = occupancy(portfolio.NightsBooked, days*len(s.Properties))

	return models.PeriodReport{
		Start:      r.Start,
		End:        r.End,
		Status:     status,
		Months:     alloc.Months,
		Properties: summaries,
		Portfolio:  portfolio,
	}
}

// occupancy is booked nights over available nights, in percent, capped at
// 100 since overlapping bookings can double-count a night.
func occupancy(nights, available int) decimal.Decimal {
	if available <= 0 {
		return decimal.Zero
	}
	rate := decimal.NewFromInt(int64(nights)).Mul(hundred).Div(decimal.NewFromInt(int64(available))).Round(2)
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}
