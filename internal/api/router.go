package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"order-etl/internal/api/handler"
)

// NewRouter wires the run API and the swagger UI.
func NewRouter(h *handler.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/runs", h.CreateRun)
		r.Get("/runs", h.ListRuns)
		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", h.GetRun)
			r.Delete("/", h.DeleteRun)
			r.Get("/report", h.GetReport)
			r.Get("/insights", h.GetInsights)
			r.Get("/logs", h.GetLogs)
			r.Get("/records", h.GetRecords)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	return r
}
