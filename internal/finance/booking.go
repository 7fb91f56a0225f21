package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the financial decomposition of a single booking. Fixed costs
// are allocated per property and period, never per booking.
type Breakdown struct {
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	NetRevenue       decimal.Decimal `json:"net_revenue"`
	VariableCosts    decimal.Decimal `json:"variable_costs"`
	NetMargin        decimal.Decimal `json:"net_margin"`
}

// Decompose computes commission, net revenue, variable cost and net margin
// for a booking whose channel and product lines are already resolved.
func Decompose(b models.Booking) Breakdown {
	rate := CommissionRate(b)
	commission := b.GrossRevenue.Mul(rate).Div(hundred)
	net := b.GrossRevenue.Sub(commission)
	variable := VariableCosts(b.Products)

	return Breakdown{
		CommissionRate:   rate,
		CommissionAmount: commission,
		NetRevenue:       net,
		VariableCosts:    variable,
		NetMargin:        net.Sub(variable),
	}
}

// CommissionRate is the channel's rate, zero for direct bookings.
//
// Settlement policy: a cancelled booking pays no channel fee, so its rate is
// zero whatever the channel charges.
func CommissionRate(b models.Booking) decimal.Decimal {
	switch b.Status {
	case models.StatusCancelled:
		return decimal.Zero
	case models.StatusConfirmed:
	default:
		panic(fmt.Sprintf("finance: booking %s has unknown status %q", b.ID, b.Status))
	}
	if b.Channel == nil {
		return decimal.Zero
	}
	return b.Channel.CommissionRate
}

func VariableCosts(lines []models.ProductLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}
