package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"stayledger/internal/finance"
	"stayledger/internal/models"
	"stayledger/internal/observability"
)

// Reports computes financial and tax reports from a fresh store snapshot on
// every call. Nothing is cached between calls.
type Reports struct {
	store  Store
	rule   finance.TaxRule
	logger *slog.Logger

	computed     atomic.Int64
	failed       atomic.Int64
	lastDuration atomic.Int64
	lastAt       atomic.Int64
}

// Stats describes the work done by the service since start-up.
type Stats struct {
	ReportsComputed int64         `json:"reports_computed"`
	ReportsFailed   int64         `json:"reports_failed"`
	LastDuration    time.Duration `json:"last_duration_ns"`
	LastComputedAt  *time.Time    `json:"last_computed_at,omitempty"`
}

func NewReports(store Store, rule finance.TaxRule, logger *slog.Logger) *Reports {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reports{
		store:  store,
		rule:   rule,
		logger: logger,
	}
}

// TaxRule returns the rule tourist-tax reports are computed with.
func (r *Reports) TaxRule() finance.TaxRule {
	return r.rule
}

// PropertyPeriodSummary aggregates bookings checking in within rng. A nil
// status counts every booking except cancelled ones.
func (r *Reports) PropertyPeriodSummary(ctx context.Context, rng finance.DateRange, status *models.BookingStatus) (*models.PeriodReport, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *status)
	}

	start := time.Now()
	snap, err := r.loadSnapshot(ctx, BookingFilter{From: rng.Start, To: rng.End}, true)
	if err != nil {
		r.failed.Add(1)
		return nil, fmt.Errorf("load period snapshot: %w", err)
	}

	report := finance.SummarizePeriod(snap, rng, status)
	r.record(start)
	r.logger.InfoContext(ctx, "period summary computed",
		"start", rng.Start.Format(time.DateOnly),
		"end", rng.End.Format(time.DateOnly),
		"properties", len(report.Properties),
		"bookings", report.Portfolio.BookingsCount,
		"duration", time.Since(start))

	return &report, nil
}

// TouristTax reports the lodging tax owed for check-ins in the given month.
// property narrows only the stay-length breakdown.
func (r *Reports) TouristTax(ctx context.Context, year, month int, property string) (*models.TouristTaxReport, error) {
	if year < 1 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, year, month)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := time.Now()
	snap, err := r.loadSnapshot(ctx, BookingFilter{From: first, To: last}, false)
	if err != nil {
		r.failed.Add(1)
		return nil, fmt.Errorf("load tax snapshot: %w", err)
	}

	report := finance.ComputeTouristTax(snap.Bookings, r.rule, year, time.Month(month), property)
	r.record(start)
	r.logger.InfoContext(ctx, "tourist tax computed",
		"year", year,
		"month", month,
		"property", property,
		"bookings", report.Totals.Bookings,
		"tax", report.Totals.TaxAmount.StringFixed(2),
		"duration", time.Since(start))

	return &report, nil
}

// FixedCostSummary returns monthly and yearly equivalents of every fixed
// cost on record.
func (r *Reports) FixedCostSummary(ctx context.Context) (*models.FixedCostSummary, error) {
	start := time.Now()
	costs, err := r.store.ListFixedCosts(ctx)
	if err != nil {
		r.failed.Add(1)
		return nil, fmt.Errorf("list fixed costs: %w", err)
	}
	if err := (finance.Snapshot{FixedCosts: costs}).Validate(); err != nil {
		r.failed.Add(1)
		return nil, err
	}

	summary := finance.SummarizeFixedCosts(costs)
	r.record(start)
	return &summary, nil
}

func (r *Reports) Stats() Stats {
	s := Stats{
		ReportsComputed: r.computed.Load(),
		ReportsFailed:   r.failed.Load(),
		LastDuration:    time.Duration(r.lastDuration.Load()),
	}
	if at := r.lastAt.Load(); at != 0 {
		t := time.Unix(0, at).UTC()
		s.LastComputedAt = &t
	}
	return s
}

func (r *Reports) record(start time.Time) {
	r.computed.Add(1)
	r.lastDuration.Store(int64(time.Since(start)))
	r.lastAt.Store(time.Now().UnixNano())
}

// loadSnapshot reads the collections concurrently, then resolves booking
// channels and validates the result. Properties and fixed costs are only
// fetched when withCosts is set.
func (r *Reports) loadSnapshot(ctx context.Context, filter BookingFilter, withCosts bool) (_ finance.Snapshot, err error) {
	ctx, span := observability.StartSpan(ctx, "reports.load_snapshot")
	defer func() { span.End(ctx, r.logger, err) }()

	var (
		snap     finance.Snapshot
		channels []models.Channel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bookings, err := r.store.ListBookings(gctx, filter)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		snap.Bookings = bookings
		return nil
	})
	g.Go(func() error {
		var err error
		if channels, err = r.store.ListChannels(gctx); err != nil {
			return fmt.Errorf("list channels: %w", err)
		}
		return nil
	})
	if withCosts {
		g.Go(func() error {
			properties, err := r.store.ListProperties(gctx)
			if err != nil {
				return fmt.Errorf("list properties: %w", err)
			}
			snap.Properties = properties
			return nil
		})
		g.Go(func() error {
			costs, err := r.store.ListFixedCosts(gctx)
			if err != nil {
				return fmt.Errorf("list fixed costs: %w", err)
			}
			snap.FixedCosts = costs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return finance.Snapshot{}, err
	}

	bookings, err := resolveChannels(filterBookings(snap.Bookings, filter), channels)
	if err != nil {
		return finance.Snapshot{}, err
	}
	snap.Bookings = bookings
	span.SetAttr("bookings", len(bookings))

	if err := snap.Validate(); err != nil {
		return finance.Snapshot{}, err
	}
	return snap, nil
}

// filterBookings drops anything the store returned outside the filter.
func filterBookings(bookings []models.Booking, filter BookingFilter) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// resolveChannels attaches the channel record to bookings that only carry
// a channel id. The channel is copied so the computation never shares
// state with the store.
func resolveChannels(bookings []models.Booking, channels []models.Channel) ([]models.Booking, error) {
	byID := make(map[string]models.Channel, len(channels))
	for _, c := range channels {
		byID[c.ID] = c
	}
	for i := range bookings {
		b := &bookings[i]
		if b.Channel != nil || b.ChannelID == "" {
			continue
		}
		c, ok := byID[b.ChannelID]
		if !ok {
			return nil, fmt.Errorf("%w: booking %s references unknown channel %s",
				ErrInvalidSnapshot, b.ID, b.ChannelID)
		}
		b.Channel = &c
	}
	return bookings, nil
}
