/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. CORS:          Cross-origin requests for frontend
  3. RequestLogger: Structured JSON request logging (httplog + slog)
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. Heartbeat:     Liveness probe at /healthz

ROUTE GROUPS:
  /api/applications/*   Leave application lifecycle
  /api/approvals/*      Manager approval queue
  /api/balances/*       Balance administration
  /api/holidays/*       Public holiday calendar

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions tunes the middleware stack from configuration.
type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
	Env            string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-engine"),
		slog.String("env", opts.Env),
	)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Application lifecycle
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", h.ListApplications)
			r.Post("/", h.SubmitApplication)
			r.Get("/{id}", h.GetApplication)
			r.Post("/{id}/approve", h.ApproveApplication)
			r.Post("/{id}/reject", h.RejectApplication)
			r.Post("/{id}/cancel", h.CancelApplication)
		})

		// Approval queue
		r.Route("/approvals", func(r chi.Router) {
			r.Get("/pending", h.ListPendingApprovals)
		})

		// Balance administration
		r.Route("/balances", func(r chi.Router) {
			r.Get("/", h.ListBalances)
			r.Get("/{employeeID}", h.GetBalance)
			r.Put("/{employeeID}", h.UpdateBalance)
			r.Post("/{employeeID}/rollover", h.RolloverBalance)
		})

		// Holiday calendar
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/defaults", h.AddDefaultHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})
	})

	return r
}
