/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  unique ID per request for tracing
  2. Logger:     request logging
  3. Recoverer:  panic recovery (500 instead of crash)
  4. CORS:       cross-origin requests for the back-office frontend

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/pjos", func(r chi.Router) {
			r.Get("/", h.ListPJOs)
			r.Post("/", h.CreatePJO)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPJO)
				r.Delete("/", h.DeletePJO)
				r.Get("/budget", h.GetBudgetReport)

				r.Post("/revenue-items", h.AddRevenueItem)
				r.Delete("/revenue-items/{itemID}", h.RemoveRevenueItem)
				r.Post("/cost-items", h.AddCostItem)
				r.Delete("/cost-items/{itemID}", h.RemoveCostItem)
				r.Post("/cost-items/{itemID}/confirm", h.ConfirmCostItem)

				r.Post("/submit", h.SubmitPJO)
				r.Post("/approve", h.ApprovePJO)
				r.Post("/reject", h.RejectPJO)
				r.Post("/convert", h.ConvertPJO)
			})
		})

		r.Route("/job-orders", func(r chi.Router) {
			r.Get("/", h.ListJOs)
			r.Get("/{id}", h.GetJO)
		})
	})

	return r
}
