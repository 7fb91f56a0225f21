// Package templates holds the dashboard's HTML components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// htmlWriter remembers the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) rawf(format string, args ...any) {
	hw.raw(fmt.Sprintf(format, args...))
}

func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// RenderString renders a component into a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func money(d decimal.Decimal) string {
	return "€ " + d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

func date(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ErrorBanner replaces the content of the element with the given id by an
// error message.
func ErrorBanner(id, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div id="`)
		hw.text(id)
		hw.raw(`"><div class="error-banner">`)
		hw.text(message)
		hw.raw(`</div></div>`)
		return hw.err
	})
}
