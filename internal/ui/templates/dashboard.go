package templates

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

const styles = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1d2430; }
header { background: #1d2430; color: #fff; padding: 1rem 2rem; }
main { padding: 1.5rem 2rem; display: grid; gap: 1.5rem; }
section { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.controls { display: flex; gap: .75rem; align-items: end; flex-wrap: wrap; margin-bottom: 1rem; }
.controls label { display: flex; flex-direction: column; font-size: .8rem; gap: .25rem; }
.modern-table { width: 100%; border-collapse: collapse; font-size: .9rem; }
.modern-table th, .modern-table td { padding: .45rem .6rem; border-bottom: 1px solid #e4e7ec; text-align: right; }
.modern-table th:first-child, .modern-table td:first-child { text-align: left; }
.modern-table tfoot td { font-weight: 600; }
.negative { color: #b42318; }
.error-banner { background: #fef3f2; color: #b42318; padding: .75rem; border-radius: 6px; }
.stat-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 1rem; }
.stat { background: #f6f7f9; border-radius: 6px; padding: .75rem; }
.stat strong { display: block; font-size: 1.2rem; }
.muted { color: #667085; font-size: .85rem; }
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title><style>`)
		hw.raw(styles)
		hw.raw(`</style><script type="module" src="`)
		hw.raw(datastarScript)
		hw.raw(`"></script></head><body><header><h1>`)
		hw.text(title)
		hw.raw(`</h1></header><main>`)
		hw.component(ctx, body)
		hw.raw(`</main></body></html>`)
		return hw.err
	})
}

// Dashboard is the full page. Its controls drive the SSE endpoints through
// datastar signals, defaulting to the month containing today.
func Dashboard(today time.Time) templ.Component {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.rawf(`<div data-signals="{start: '%s', end: '%s', status: '', year: %d, month: %d, property: ''}">`,
			date(first), date(last), first.Year(), int(first.Month()))

		hw.raw(`<section><h2>Period summary</h2><div class="controls">`)
		hw.raw(`<label>From<input type="date" data-bind="start"></label>`)
		hw.raw(`<label>To<input type="date" data-bind="end"></label>`)
		hw.raw(`<label>Status<select data-bind="status">`)
		hw.raw(`<option value="">Active bookings</option>`)
		hw.raw(`<option value="CONFIRMED">Confirmed</option>`)
		hw.raw(`<option value="CANCELLED">Cancelled</option>`)
		hw.raw(`</select></label>`)
		hw.raw(`<button data-on-click="@get('/sse/period-summary')">Compute</button></div>`)
		hw.raw(`<div id="period-content"><p class="muted">Pick a range and press Compute.</p></div></section>`)

		hw.raw(`<section><h2>Tourist tax</h2><div class="controls">`)
		hw.raw(`<label>Year<input type="number" min="2000" data-bind="year"></label>`)
		hw.raw(`<label>Month<input type="number" min="1" max="12" data-bind="month"></label>`)
		hw.raw(`<label>Property<input type="text" placeholder="all" data-bind="property"></label>`)
		hw.raw(`<button data-on-click="@get('/sse/tourist-tax')">Compute</button></div>`)
		hw.raw(`<div id="tax-content"><p class="muted">Pick a month and press Compute.</p></div></section>`)

		hw.raw(`<section><h2>Fixed costs</h2>`)
		hw.raw(`<button data-on-click="@get('/sse/fixed-costs')">Refresh</button>`)
		hw.raw(`<div id="fixed-costs-content"><p class="muted">Press Refresh to load.</p></div></section>`)

		hw.raw(`</div>`)
		return hw.err
	})

	return Layout("Stay Ledger", body)
}
