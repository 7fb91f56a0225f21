package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"stayledger/internal/errors"
	"stayledger/internal/observability"
	"stayledger/internal/services"
	"stayledger/internal/store"
)

// Database is the part of the store the operational endpoints need.
type Database interface {
	PingContext(ctx context.Context) error
	Counts(ctx context.Context) (store.Counts, error)
}

type APIHandlers struct {
	reports *services.Reports
	db      Database
	logger  *slog.Logger
	started time.Time
}

// NewAPIHandlers builds the JSON handlers. db may be nil, in which case
// health and stats skip the database checks.
func NewAPIHandlers(reports *services.Reports, db Database, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		reports: reports,
		db:      db,
		logger:  logger,
		started: time.Now(),
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandlePeriodSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, status, err := periodQuery{Start: q.Get("start"), End: q.Get("end"), Status: q.Get("status")}.parse()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report, err := h.reports.PropertyPeriodSummary(r.Context(), rng, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, report, map[string]string{"Cache-Control": "no-store"})
}

func (h *APIHandlers) HandleTouristTax(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tq, err := parseTaxQuery(q.Get("year"), q.Get("month"), q.Get("property"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report, err := h.reports.TouristTax(r.Context(), tq.Year, tq.Month, tq.Property)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, report, map[string]string{"Cache-Control": "no-store"})
}

func (h *APIHandlers) HandleFixedCostSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.FixedCostSummary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, summary, map[string]string{"Cache-Control": "no-store"})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.fail(w, r, errors.Wrap(err, errors.CodeServiceUnavail, "Database unreachable"))
			return
		}
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

type statsResponse struct {
	Reports services.Stats `json:"reports"`
	Rows    *store.Counts  `json:"rows,omitempty"`
	Uptime  string         `json:"uptime"`
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Reports: h.reports.Stats(),
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	}

	if h.db != nil {
		counts, err := h.db.Counts(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp.Rows = &counts
	}

	errors.WriteSuccess(w, resp)
}
