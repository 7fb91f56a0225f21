package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

// daysPerMonth approximates a month for period projections. It is not a
// calendar-exact count.
const daysPerMonth = 30

// Allocation is the fixed-cost load of a reporting period. PortfolioTotal
// covers every recurring cost; Unallocated is the part of it that no
// property row carries.
type Allocation struct {
	Months              int                        `json:"months"`
	GenericMonthlyTotal decimal.Decimal            `json:"generic_monthly_total"`
	GenericShare        decimal.Decimal            `json:"generic_share"`
	PerProperty         map[string]decimal.Decimal `json:"per_property"`
	PortfolioTotal      decimal.Decimal            `json:"portfolio_total"`
	Unallocated         decimal.Decimal            `json:"unallocated"`
}

// For returns the fixed cost allocated to a property for the period.
func (a Allocation) For(propertyID string) decimal.Decimal {
	return a.PerProperty[propertyID]
}

// MonthsInPeriod is max(1, round(days/30)).
func MonthsInPeriod(start, end time.Time) int {
	days := models.DaysBetween(start, end)
	months := int(math.Round(float64(days) / daysPerMonth))
	if months < 1 {
		return 1
	}
	return months
}

// AllocateFixedCosts spreads property-scoped and generic recurring costs over
// the properties and the period [start, end].
//
// Generic costs are divided evenly between properties, not weighted by
// revenue or size. With no properties the whole generic cost ends up in
// Unallocated, as do costs naming a property that is not in the collection.
func AllocateFixedCosts(costs []models.FixedCost, properties []models.Property, start, end time.Time) Allocation {
	months := decimal.NewFromInt(int64(MonthsInPeriod(start, end)))

	known := make(map[string]bool, len(properties))
	for _, p := range properties {
		known[p.ID] = true
	}

	propertyMonthly := make(map[string]decimal.Decimal, len(properties))
	genericMonthly := decimal.Zero
	orphanMonthly := decimal.Zero
	scopedMonthly := decimal.Zero

	for _, c := range costs {
		monthly := MonthlyEquivalent(c.Amount, c.Frequency)
		switch {
		case c.Generic():
			genericMonthly = genericMonthly.Add(monthly)
		case known[c.PropertyID]:
			propertyMonthly[c.PropertyID] = propertyMonthly[c.PropertyID].Add(monthly)
			scopedMonthly = scopedMonthly.Add(monthly)
		default:
			orphanMonthly = orphanMonthly.Add(monthly)
		}
	}

	count := len(properties)
	if count == 0 {
		count = 1
	}
	share := genericMonthly.Div(decimal.NewFromInt(int64(count)))

	a := Allocation{
		Months:              int(months.IntPart()),
		GenericMonthlyTotal: genericMonthly,
		GenericShare:        share,
		PerProperty:         make(map[string]decimal.Decimal, len(properties)),
		PortfolioTotal:      scopedMonthly.Add(orphanMonthly).Add(genericMonthly).Mul(months),
		Unallocated:         orphanMonthly.Mul(months),
	}
	for _, p := range properties {
		a.PerProperty[p.ID] = propertyMonthly[p.ID].Add(share).Mul(months)
	}
	if len(properties) == 0 {
		a.Unallocated = a.Unallocated.Add(genericMonthly.Mul(months))
	}
	return a
}
