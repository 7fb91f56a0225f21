package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayledger/internal/finance"
	"stayledger/internal/services"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
	}{
		{"app error", NotFound("missing"), CodeNotFound, http.StatusNotFound},
		{"range", fmt.Errorf("parse: %w", finance.ErrInvalidRange), CodeValidation, http.StatusBadRequest},
		{"month", services.ErrInvalidMonth, CodeValidation, http.StatusBadRequest},
		{"status", services.ErrInvalidStatus, CodeValidation, http.StatusBadRequest},
		{"snapshot", fmt.Errorf("load: %w", services.ErrInvalidSnapshot), CodeDataIntegrity, http.StatusInternalServerError},
		{"unknown", fmt.Errorf("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Code != tt.code || got.StatusCode != tt.status {
				t.Errorf("FromError() = %s/%d, want %s/%d", got.Code, got.StatusCode, tt.code, tt.status)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := httptest.NewRecorder()

	WriteError(w, logger, services.ErrInvalidMonth, "req-1")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Details   string `json:"details"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Error.Code != string(CodeValidation) || resp.Error.RequestID != "req-1" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Error.Details == "" {
		t.Error("validation errors should carry details")
	}
}
