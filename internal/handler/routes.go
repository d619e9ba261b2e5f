package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps are the pieces NewRouter wires together. Metrics, RateLimit
// and Docs are optional.
type RouterDeps struct {
	Events    *EventHandler
	Store     Pinger
	Log       *slog.Logger
	RateLimit *RateLimiter
	Docs      *APIDocs
	Metrics   interface {
		Middleware(http.Handler) http.Handler
		Handler() http.Handler
	}
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(d.Log))
	r.Use(CORS)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/", Root)
	r.Get("/health", HealthCheck(d.Store))
	if d.Docs != nil {
		r.Get("/api-docs", d.Docs.JSON)
		r.Get("/api-docs.yaml", d.Docs.YAML)
	}

	r.Route("/events", func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit.Middleware)
		}
		r.Post("/", d.Events.CreateEvent)
		r.Get("/", d.Events.ListEvents)
		r.Get("/{id}", d.Events.GetEvent)
		r.Put("/{id}", d.Events.UpdateEvent)
		r.Delete("/{id}", d.Events.DeleteEvent)
	})

	return r
}
