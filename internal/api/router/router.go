// Package router assembles the HTTP surface: public turn and lead intake
// endpoints plus JWT-protected admin endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/northstackhq/funnelbot/internal/http/handlers"
	httpmiddleware "github.com/northstackhq/funnelbot/internal/http/middleware"
	"github.com/northstackhq/funnelbot/internal/leads"
	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	TurnsHandler       *handlers.TurnsHandler
	AdminAssistant     *handlers.AdminAssistantHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// TurnRatePerSec limits webhook traffic per source IP. Zero disables
	// the limiter.
	TurnRatePerSec float64
	TurnBurst      int
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (channel webhooks, health check, metrics).
	r.Group(func(public chi.Router) {
		if cfg.TurnsHandler != nil {
			public.Get("/health", cfg.TurnsHandler.HealthCheck)
			if cfg.TurnRatePerSec > 0 {
				public.With(httpmiddleware.RateLimit(cfg.TurnRatePerSec, cfg.TurnBurst)).
					Post("/turns", cfg.TurnsHandler.HandleTurn)
			} else {
				public.Post("/turns", cfg.TurnsHandler.HandleTurn)
			}
		}
		if cfg.LeadsHandler != nil {
			public.Post("/leads", cfg.LeadsHandler.CreateLead)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin routes (protected by an HMAC-signed JWT).
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.LeadsHandler != nil {
				admin.Get("/leads", cfg.LeadsHandler.ListLeads)
				admin.Get("/leads/{id}", cfg.LeadsHandler.GetLead)
			}
			if cfg.AdminAssistant != nil {
				admin.Route("/assistant", func(assistant chi.Router) {
					assistant.Get("/prompt", cfg.AdminAssistant.GetPrompt)
					assistant.Put("/prompt", cfg.AdminAssistant.SetPrompt)
					assistant.Get("/contacts", cfg.AdminAssistant.GetContacts)
					assistant.Put("/contacts", cfg.AdminAssistant.SetContacts)
				})
			}
		})
	}

	return r
}
