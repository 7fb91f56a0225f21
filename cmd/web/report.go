package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stayledger/internal/finance"
	"stayledger/internal/models"
)

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print reports to the terminal",
	}

	var asJSON bool
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	cmd.AddCommand(
		newPeriodReportCommand(a, &asJSON),
		newTaxReportCommand(a, &asJSON),
		newCostsReportCommand(a, &asJSON),
	)
	return cmd
}

func newPeriodReportCommand(a *app, asJSON *bool) *cobra.Command {
	var start, end, status string

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Revenue, costs and margin per property for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, st, err := parsePeriodFlags(start, end, status)
			if err != nil {
				return err
			}

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := a.newReports(db).PropertyPeriodSummary(cmd.Context(), rng, st)
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printPeriodReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first check-in day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last check-in day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "only bookings with this status (CONFIRMED or CANCELLED)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newTaxReportCommand(a *app, asJSON *bool) *cobra.Command {
	var year, month int
	var property string

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Tourist tax owed for check-ins in a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := a.newReports(db).TouristTax(cmd.Context(), year, month, property)
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printTaxReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "calendar year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "calendar month (1-12)")
	cmd.Flags().StringVar(&property, "property", "", "narrow the stay-length breakdown to one property id")
	return cmd
}

func newCostsReportCommand(a *app, asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "costs",
		Short: "Monthly and yearly equivalents of the fixed costs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			summary, err := a.newReports(db).FixedCostSummary(cmd.Context())
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printFixedCosts(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func parsePeriodFlags(start, end, status string) (finance.DateRange, *models.BookingStatus, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return finance.DateRange{}, nil, fmt.Errorf("--start: %w", err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return finance.DateRange{}, nil, fmt.Errorf("--end: %w", err)
	}
	rng, err := finance.NewDateRange(s, e)
	if err != nil {
		return finance.DateRange{}, nil, err
	}
	if status == "" {
		return rng, nil, nil
	}
	st := models.BookingStatus(strings.ToUpper(status))
	return rng, &st, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func printPeriodReport(w io.Writer, r *models.PeriodReport) {
	fmt.Fprintf(w, "Period %s .. %s (%d months of fixed costs)\n",
		r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), r.Months)

	t := newTable(w, "Property", "Bookings", "Nights", "Revenue", "Commissions", "Net", "Variable", "Fixed", "Margin", "Occupancy %")
	for _, p := range r.Properties {
		t.Append([]string{
			p.PropertyName, itoa(p.BookingsCount), itoa(p.NightsBooked),
			amount(p.Revenue), amount(p.Commissions), amount(p.NetRevenue),
			amount(p.VariableCosts), amount(p.FixedCosts), amount(p.Margin), p.OccupancyRate.StringFixed(1),
		})
	}
	pf := r.Portfolio
	t.SetFooter([]string{
		"Portfolio", itoa(pf.BookingsCount), itoa(pf.NightsBooked),
		amount(pf.Revenue), amount(pf.Commissions), amount(pf.NetRevenue),
		amount(pf.VariableCosts), amount(pf.FixedCosts), amount(pf.Margin), pf.OccupancyRate.StringFixed(1),
	})
	t.Render()

	if pf.UnallocatedFixedCosts.IsPositive() {
		fmt.Fprintf(w, "Unallocated fixed costs: %s\n", amount(pf.UnallocatedFixedCosts))
	}
}

func printTaxReport(w io.Writer, r *models.TouristTaxReport) {
	fmt.Fprintf(w, "Tourist tax %04d-%02d\n", r.Year, r.Month)

	t := newTable(w, "Guest", "Channel", "Check-in", "Nights", "Guests", "Eligible", "Exempt", "Unknown age", "Taxable nights", "Tax")
	for _, l := range r.Bookings {
		t.Append([]string{
			l.GuestName, l.ChannelDisplay, l.CheckIn.Format(time.DateOnly), itoa(l.Nights),
			itoa(l.NumberOfGuests), itoa(l.EligibleGuests), itoa(l.ExemptGuests), itoa(l.UnknownAgeGuests),
			itoa(l.TaxableNights), amount(l.TaxAmount),
		})
	}
	tot := r.Totals
	t.SetFooter([]string{
		"Total", itoa(tot.Bookings) + " bookings", "", "",
		itoa(tot.TotalAllGuests), itoa(tot.EligibleGuests), itoa(tot.ExemptGuests), "",
		itoa(tot.TaxableNights), amount(tot.TaxAmount),
	})
	t.Render()

	title := "By nights"
	if r.PropertyFilter != "" {
		title += " (property " + r.PropertyFilter + ")"
	}
	fmt.Fprintln(w, title)
	b := newTable(w, "Nights", "Bookings", "Guests", "Taxable nights", "Tax")
	for _, bucket := range r.BreakdownByNights {
		b.Append([]string{
			bucket.Label, itoa(bucket.Totals.Bookings), itoa(bucket.Totals.TotalAllGuests),
			itoa(bucket.Totals.TaxableNights), amount(bucket.Totals.TaxAmount),
		})
	}
	b.Render()
}

func printFixedCosts(w io.Writer, s *models.FixedCostSummary) {
	t := newTable(w, "Frequency", "Costs", "Amount")
	for _, f := range []models.Frequency{models.FrequencyMonthly, models.FrequencyQuarterly, models.FrequencyYearly, models.FrequencyOneTime} {
		ft, ok := s.ByFrequency[f]
		if !ok {
			continue
		}
		t.Append([]string{string(f), itoa(ft.Count), amount(ft.Amount)})
	}
	t.Render()
	fmt.Fprintf(w, "%d fixed costs: %s per month, %s per year\n", s.Count, amount(s.MonthlyTotal), amount(s.YearlyTotal))
}
