package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stayledger/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger := NewLogger(config.LoggerConfig{Level: "info", Format: "json", File: path, FileMaxSizeMB: 1})

	logger.Info("hello", "k", "v")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %s", data)
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty context = %q", got)
	}
}

func TestSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithRequestID(context.Background(), "req-7")
	ctx, parent := StartSpan(ctx, "outer")
	if parent.TraceID != "req-7" {
		t.Errorf("trace id = %q, want request id", parent.TraceID)
	}

	childCtx, child := StartSpan(ctx, "inner")
	if child.ParentID != parent.SpanID || child.TraceID != parent.TraceID {
		t.Errorf("child span not linked: %+v", child)
	}
	child.SetAttr("rows", 3)
	child.End(childCtx, logger, nil)

	if !strings.Contains(buf.String(), "operation=inner") || !strings.Contains(buf.String(), "rows=3") {
		t.Errorf("debug line = %s", buf.String())
	}

	buf.Reset()
	parent.End(ctx, logger, errors.New("boom"))
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("error line = %s", buf.String())
	}
}

func TestStartSpan_WithoutRequest(t *testing.T) {
	_, span := StartSpan(context.Background(), "job")
	if span.TraceID == "" || span.TraceID != span.SpanID {
		t.Errorf("root span should trace itself, got %+v", span)
	}
}
