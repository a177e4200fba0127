package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/growthsystem/erpchat/core/infrastructure/logging"
)

// RegisterRoutes registers all HTTP routes
func RegisterRoutes(r *chi.Mux, h *Handlers) {
	log := logging.New("routes")
	log.Info("Registering HTTP routes")

	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", h.HandleMessage)
		r.Post("/queries/validate", h.HandleValidate)
		r.Route("/conversations/{conversationID}", func(r chi.Router) {
			r.Get("/messages", h.HandleHistory)
			r.Post("/reset", h.HandleReset)
		})
	})

	// Heartbeat endpoint for health checks
	r.Get("/heartbeat", h.HandleHeartbeat)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	log.Debug("Routes registered:")
	log.Debug("  POST /v1/messages")
	log.Debug("  POST /v1/queries/validate")
	log.Debug("  GET /v1/conversations/{conversationID}/messages")
	log.Debug("  POST /v1/conversations/{conversationID}/reset")
	log.Debug("  GET /heartbeat")
	log.Debug("  GET /metrics")
}
