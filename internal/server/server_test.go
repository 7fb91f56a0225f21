package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stayledger/internal/config"
	"stayledger/internal/middleware"
	"stayledger/internal/services"
	"stayledger/internal/store"
)

const seedJSON = `{
	"properties": [{"id": "p1", "name": "Casa Limone", "bedrooms": 2, "bathrooms": 1}],
	"channels": [{"id": "ch-air", "name": "Airbnb", "commission_rate": "3"}],
	"bookings": [
		{"id": "b1", "property_id": "p1", "channel_id": "ch-air", "guest_name": "Verdi",
		 "check_in": "2024-05-10", "check_out": "2024-05-12", "number_of_guests": 2, "gross_revenue": "200"}
	],
	"fixed_costs": [
		{"id": "f1", "property_id": "p1", "description": "Cleaning", "amount": "60", "frequency": "MONTHLY", "start_date": "2024-01-01"}
	]
}`

func createTestServer(t *testing.T, mws ...middleware.Middleware) *Server {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := store.Open(ctx, store.DriverSQLite, ":memory:", "acct-test")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	f, err := store.DecodeFixture(strings.NewReader(seedJSON))
	if err != nil {
		t.Fatalf("DecodeFixture() error = %v", err)
	}
	if _, err := db.Seed(ctx, f); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	cfg := config.TaxConfig{
		Rate:             decimal.NewFromInt(2),
		MaxNights:        10,
		MinExemptAge:     14,
		EligibleChannels: []string{"booking", "airbnb"},
		DirectChannels:   []string{"direct"},
	}
	reports := services.NewReports(db, (&config.Config{Tax: cfg}).TaxRule(), logger)
	return NewServer(reports, db, logger, mws...)
}

func TestServer_Routes(t *testing.T) {
	srv := createTestServer(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/period-summary?start=2024-05-01&end=2024-05-31", http.StatusOK, "application/json"},
		{"/api/tourist-tax?year=2024&month=5", http.StatusOK, "application/json"},
		{"/api/fixed-costs/summary", http.StatusOK, "application/json"},
		{"/api/period-summary", http.StatusBadRequest, "application/json"},
		{"/sse/fixed-costs", http.StatusOK, "text/event-stream"},
		{"/api/unknown", http.StatusNotFound, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("expected content-type %q, got %q", tt.contentType, ct)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := createTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/fixed-costs/summary", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestServer_PeriodSummaryFromStore(t *testing.T) {
	srv := createTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/period-summary?start=2024-05-01&end=2024-05-31", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var resp struct {
		Data struct {
			Portfolio struct {
				Revenue     decimal.Decimal `json:"revenue"`
				Commissions decimal.Decimal `json:"commissions"`
				FixedCosts  decimal.Decimal `json:"fixed_costs"`
				Margin      decimal.Decimal `json:"margin"`
			} `json:"portfolio"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	p := resp.Data.Portfolio
	if !p.Revenue.Equal(decimal.NewFromInt(200)) {
		t.Errorf("revenue = %s, want 200", p.Revenue)
	}
	if !p.Commissions.Equal(decimal.NewFromInt(6)) {
		t.Errorf("commissions = %s, want 6", p.Commissions)
	}
	if !p.FixedCosts.Equal(decimal.NewFromInt(60)) {
		t.Errorf("fixed costs = %s, want 60", p.FixedCosts)
	}
	if !p.Margin.Equal(decimal.NewFromInt(134)) {
		t.Errorf("margin = %s, want 134", p.Margin)
	}
}

func TestServer_MiddlewareApplied(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := createTestServer(t, middleware.RequestID(), middleware.SecurityHeaders(), middleware.Recovery(logger))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}
}

func TestGracefulServer_RunStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, logger, config.ServerConfig{ShutdownTimeout: time.Second})

	var order []string
	gs.RegisterShutdownHook(func(context.Context) error { order = append(order, "first"); return nil })
	gs.RegisterShutdownHook(func(context.Context) error { order = append(order, "second"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if strings.Join(order, ",") != "first,second" {
		t.Errorf("hooks ran as %v, want first,second", order)
	}
}
