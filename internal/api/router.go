package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the root router: JSON API under /api, health check, and
// the UI handler mounted at / when ui is not nil.
func NewRouter(h *Handler, ui http.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.HealthCheck)
	r.Route("/api", h.RegisterRoutes)

	if ui != nil {
		r.Mount("/", ui)
	}
	return r
}

// RegisterRoutes adds the session API to r
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Put("/scope", h.ApplyScope)
		r.Post("/clusters", h.RunClustering)
		r.Get("/clusters/inertia", h.InertiaCurve)
		r.Get("/options", h.Options)
		r.Get("/profile", h.Profile)
		r.Get("/charts/race", h.RaceChart)
		r.Get("/charts/cluster-map", h.ClusterMap)
		r.Get("/charts/explore", h.Explore)
		r.Post("/peers", h.Peers)
		r.Get("/export", h.Export)
	})
}
