package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slidesync/internal/api"
	"slidesync/internal/metrics"
)

func New(h *api.Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		metrics.Middleware,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/ws/session/{id}", h.CollabWS)

	r.Route("/api/v1/sessions/{id}/snapshot", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/", h.LoadSnapshot)
		r.With(h.RequireTeacher).Put("/", h.SaveSnapshot)
		r.With(h.RequireTeacher).Delete("/", h.DeleteSnapshot)
	})

	return r
}
