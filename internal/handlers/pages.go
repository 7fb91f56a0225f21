package handlers

import (
	"net/http"
	"time"

	"github.com/a-h/templ"

	"stayledger/internal/ui/templates"
)

// HandleDashboard serves the dashboard page for the current month.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	templ.Handler(templates.Dashboard(time.Now().UTC())).ServeHTTP(w, r)
}
