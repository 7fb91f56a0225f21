package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stayledger/internal/errors"
	"stayledger/internal/handlers"
	"stayledger/internal/middleware"
	"stayledger/internal/observability"
	"stayledger/internal/services"
)

type Server struct {
	reports     *services.Reports
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

// NewServer wires the routes. db may be nil; middlewares run in the order
// given, outermost first.
func NewServer(reports *services.Reports, db handlers.Database, logger *slog.Logger, middlewares ...middleware.Middleware) *Server {
	s := &Server{
		reports:     reports,
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(reports, db, logger),
		sseHandlers: handlers.NewSSEHandlers(reports, logger),
	}
	for _, mw := range middlewares {
		s.router.Use(mw)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	// Dashboard routes
	r.Get("/", handlers.HandleDashboard)
	r.Get("/health", s.apiHandlers.HandleHealth)
	r.Get("/admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/period-summary", s.apiHandlers.HandlePeriodSummary)
		r.Get("/tourist-tax", s.apiHandlers.HandleTouristTax)
		r.Get("/fixed-costs/summary", s.apiHandlers.HandleFixedCostSummary)
	})

	// Datastar SSE endpoints
	r.Route("/sse", func(r chi.Router) {
		r.Get("/period-summary", s.sseHandlers.HandlePeriodSummary)
		r.Get("/tourist-tax", s.sseHandlers.HandleTouristTax)
		r.Get("/fixed-costs", s.sseHandlers.HandleFixedCosts)
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, s.logger, errors.NotFound("No route for "+r.URL.Path), observability.GetRequestID(r.Context()))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	appErr := errors.BadRequest(r.Method + " is not supported on " + r.URL.Path)
	appErr.StatusCode = http.StatusMethodNotAllowed
	errors.WriteError(w, s.logger, appErr, observability.GetRequestID(r.Context()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
