package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/config"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/metrics"
	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/middleware"
)

const Version = "2.0.0"

type ScoutingServer struct {
	svc    Scouting
	cfg    *config.Config
	logger zerolog.Logger
}

func NewScoutingServer(svc Scouting, cfg *config.Config, logger zerolog.Logger) *ScoutingServer {
	return &ScoutingServer{svc: svc, cfg: cfg, logger: logger}
}

// Handler mounts the RPC procedures, REST routes, health and metrics endpoints.
func (s *ScoutingServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Metrics)

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", metrics.Handler())

	for path, h := range s.connectHandlers() {
		r.Handle(path, h)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/analysis", s.GenerateAnalysis)
		r.Post("/analysis/generate", s.GenerateAnalysis)
		r.Get("/teams/{opponent}/analysis", s.TeamAnalysis)
		r.Get("/reports", s.ListReportsREST)
		r.Get("/reports/{id}", s.GetReportREST)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
