package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span times one unit of work. Spans started under a request share its
// request id as trace id.
type Span struct {
	TraceID   string
	SpanID    string
	ParentID  string
	Operation string
	StartTime time.Time
	attrs     []any
}

type spanContextKey struct{}

func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		TraceID:   GetRequestID(ctx),
		SpanID:    uuid.NewString()[:8],
		Operation: operation,
		StartTime: time.Now(),
	}

	if parent := GetSpan(ctx); parent != nil {
		span.ParentID = parent.SpanID
		span.TraceID = parent.TraceID
	}
	if span.TraceID == "" {
		span.TraceID = span.SpanID
	}

	return context.WithValue(ctx, spanContextKey{}, span), span
}

// SetAttr records a key/value pair logged when the span ends.
func (s *Span) SetAttr(key string, value any) {
	s.attrs = append(s.attrs, key, value)
}

// End logs the span at debug level, or at error level when err is set, and
// returns its duration.
func (s *Span) End(ctx context.Context, logger *slog.Logger, err error) time.Duration {
	d := time.Since(s.StartTime)

	args := append([]any{
		"operation", s.Operation,
		"trace_id", s.TraceID,
		"span_id", s.SpanID,
		"duration", d,
	}, s.attrs...)
	if s.ParentID != "" {
		args = append(args, "parent_id", s.ParentID)
	}

	if err != nil {
		logger.ErrorContext(ctx, "span failed", append(args, "error", err)...)
	} else {
		logger.DebugContext(ctx, "span finished", args...)
	}
	return d
}

func GetSpan(ctx context.Context) *Span {
	if span, ok := ctx.Value(spanContextKey{}).(*Span); ok {
		return span
	}
	return nil
}
