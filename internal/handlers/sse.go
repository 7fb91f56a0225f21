package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"stayledger/internal/errors"
	"stayledger/internal/services"
	"stayledger/internal/ui/templates"
)

const (
	periodTarget     = "period-content"
	taxTarget        = "tax-content"
	fixedCostsTarget = "fixed-costs-content"
)

// dashboardSignals mirrors the data-signals declared on the dashboard.
type dashboardSignals struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Status   string `json:"status"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Property string `json:"property"`
}

type SSEHandlers struct {
	reports *services.Reports
	logger  *slog.Logger
}

func NewSSEHandlers(reports *services.Reports, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		reports: reports,
		logger:  logger,
	}
}

// patch renders c and sends it as an element patch.
func (h *SSEHandlers) patch(sse *datastar.ServerSentEventGenerator, r *http.Request, c templ.Component) {
	html, err := templates.RenderString(r.Context(), c)
	if err != nil {
		h.logger.Error("render fragment", "error", err, "path", r.URL.Path)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch elements", "error", err, "path", r.URL.Path)
	}
}

// patchError shows err in place of the target fragment. Internal causes
// stay in the log.
func (h *SSEHandlers) patchError(sse *datastar.ServerSentEventGenerator, r *http.Request, target string, err error) {
	appErr := errors.FromError(err)
	msg := appErr.Message
	if appErr.Details != "" {
		msg += ": " + appErr.Details
	}
	level := slog.LevelWarn
	if appErr.StatusCode >= 500 {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "sse request failed", "path", r.URL.Path, "code", appErr.Code, "error", err)
	h.patch(sse, r, templates.ErrorBanner(target, msg))
}

func (h *SSEHandlers) HandlePeriodSummary(w http.ResponseWriter, r *http.Request) {
	var sig dashboardSignals
	readErr := datastar.ReadSignals(r, &sig)
	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		h.patchError(sse, r, periodTarget, errors.BadRequestWrap(readErr, "Invalid signals"))
		return
	}

	rng, status, err := periodQuery{Start: sig.Start, End: sig.End, Status: sig.Status}.parse()
	if err != nil {
		h.patchError(sse, r, periodTarget, err)
		return
	}

	report, err := h.reports.PropertyPeriodSummary(r.Context(), rng, status)
	if err != nil {
		h.patchError(sse, r, periodTarget, err)
		return
	}

	h.patch(sse, r, templates.PeriodTable(report))

	totals, err := json.Marshal(map[string]any{
		"portfolioMargin":  report.Portfolio.Margin.StringFixed(2),
		"portfolioRevenue": report.Portfolio.Revenue.StringFixed(2),
	})
	if err != nil {
		h.logger.Error("marshal period signals", "error", err)
		return
	}
	sse.PatchSignals(totals)
}

func (h *SSEHandlers) HandleTouristTax(w http.ResponseWriter, r *http.Request) {
	var sig dashboardSignals
	readErr := datastar.ReadSignals(r, &sig)
	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		h.patchError(sse, r, taxTarget, errors.BadRequestWrap(readErr, "Invalid signals"))
		return
	}

	report, err := h.reports.TouristTax(r.Context(), sig.Year, sig.Month, sig.Property)
	if err != nil {
		h.patchError(sse, r, taxTarget, err)
		return
	}

	h.patch(sse, r, templates.TaxTable(report))

	totals, err := json.Marshal(map[string]any{
		"taxDue": report.Totals.TaxAmount.StringFixed(2),
	})
	if err != nil {
		h.logger.Error("marshal tax signals", "error", err)
		return
	}
	sse.PatchSignals(totals)
}

func (h *SSEHandlers) HandleFixedCosts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	summary, err := h.reports.FixedCostSummary(r.Context())
	if err != nil {
		h.patchError(sse, r, fixedCostsTarget, err)
		return
	}

	h.patch(sse, r, templates.FixedCostCard(summary))
}
