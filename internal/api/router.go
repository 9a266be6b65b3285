package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/logstackhq/logstack/internal/api/alerts"
	"github.com/logstackhq/logstack/internal/api/auth"
	"github.com/logstackhq/logstack/internal/api/logs"
	"github.com/logstackhq/logstack/internal/api/middleware"
	"github.com/logstackhq/logstack/internal/api/triggers"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Metrics)

	jwtService := auth.NewJWTService(s.config.JWTSecret, s.config.AccessTokenTTL)
	authHandler := auth.NewHandler(s.storage.Users(), jwtService)
	logHandler := logs.NewHandler(s.pipeline, s.search, s.storage.Logs())
	triggerHandler := triggers.NewHandler(s.storage.Triggers())
	alertHandler := alerts.NewHandler(s.storage.Alerts())

	ipLimiter := middleware.NewIPRateLimiter(s.config.RateLimitPerIP)

	r.Route("/api/v1", func(r chi.Router) {
		// Unauthenticated endpoints are rate limited by client IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ipLimiter))
			r.Post("/logs", logHandler.Ingest)
			r.Post("/auth/login", authHandler.Login)
		})

		// Operator endpoints require a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))

			r.Get("/logs", logHandler.List)
			r.Get("/logs/export", logHandler.Export)
			r.Get("/logs/{id}", logHandler.GetByID)
			r.Post("/logs/{id}/archive", logHandler.Archive)
			r.Post("/logs/{id}/unarchive", logHandler.Unarchive)

			r.Get("/triggers", triggerHandler.List)
			r.Post("/triggers", triggerHandler.Create)
			r.Get("/triggers/{id}", triggerHandler.GetByID)
			r.Put("/triggers/{id}", triggerHandler.Update)
			r.Post("/triggers/{id}/activate", triggerHandler.Activate)
			r.Post("/triggers/{id}/deactivate", triggerHandler.Deactivate)
			r.Post("/triggers/{id}/archive", triggerHandler.Archive)
			r.Post("/triggers/{id}/unarchive", triggerHandler.Unarchive)

			r.Get("/alerts", alertHandler.List)
			r.Get("/alerts/{id}", alertHandler.GetByID)
			r.Post("/alerts/{id}/acknowledge", alertHandler.Acknowledge)
			r.Post("/alerts/{id}/archive", alertHandler.Archive)
			r.Post("/alerts/{id}/unarchive", alertHandler.Unarchive)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		OK(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
