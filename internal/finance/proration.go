package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

var (
	three  = decimal.NewFromInt(3)
	four   = decimal.NewFromInt(4)
	twelve = decimal.NewFromInt(12)
)

// MonthlyEquivalent normalises a recurring amount to one month. One-time
// costs are never amortised and contribute nothing.
func MonthlyEquivalent(amount decimal.Decimal, freq models.Frequency) decimal.Decimal {
	switch freq {
	case models.FrequencyMonthly:
		return amount
	case models.FrequencyQuarterly:
		return amount.Div(three)
	case models.FrequencyYearly:
		return amount.Div(twelve)
	case models.FrequencyOneTime:
		return decimal.Zero
	}
	panic(fmt.Sprintf("finance: unknown frequency %q", freq))
}

// YearlyEquivalent annualises a recurring amount. One-time costs are
// reported once, as they are.
func YearlyEquivalent(amount decimal.Decimal, freq models.Frequency) decimal.Decimal {
	switch freq {
	case models.FrequencyMonthly:
		return amount.Mul(twelve)
	case models.FrequencyQuarterly:
		return amount.Mul(four)
	case models.FrequencyYearly, models.FrequencyOneTime:
		return amount
	}
	panic(fmt.Sprintf("finance: unknown frequency %q", freq))
}

func SummarizeFixedCosts(costs []models.FixedCost) models.FixedCostSummary {
	s := models.FixedCostSummary{
		ByFrequency: make(map[models.Frequency]models.FrequencyTotal),
	}
	for _, c := range costs {
		s.Count++
		s.MonthlyTotal = s.MonthlyTotal.Add(MonthlyEquivalent(c.Amount, c.Frequency))
		if c.Frequency == models.FrequencyOneTime {
			s.OneTimeTotal = s.OneTimeTotal.Add(c.Amount)
		} else {
			s.YearlyTotal = s.YearlyTotal.Add(YearlyEquivalent(c.Amount, c.Frequency))
		}

		ft := s.ByFrequency[c.Frequency]
		ft.Count++
		ft.Amount = ft.Amount.Add(c.Amount)
		s.ByFrequency[c.Frequency] = ft
	}
	return s
}
