package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesafoods/deals/internal/api/handlers"
	"github.com/mesafoods/deals/internal/database"
	"github.com/mesafoods/deals/internal/repository"
	"github.com/mesafoods/deals/internal/service"
)

// NewRouter builds the HTTP router for the deals service.
func NewRouter(db *database.DB, svc *service.DealService, dealRepo *repository.DealRepository) http.Handler {
	r := chi.NewRouter()

	dealHandler := handlers.NewDealHandler(svc, dealRepo)

	// Checkout-facing endpoints
	r.Route("/deals", func(r chi.Router) {
		r.Post("/calculate", dealHandler.CalculateDiscount)
		r.Post("/best", dealHandler.BestDeals)
		r.Post("/apply", dealHandler.ApplyDeals)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Post("/deals", dealHandler.CreateDeal)
	})

	// Health check endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"deals-service"}`))
	})
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Postgres.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","message":"postgres unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","postgres":"connected"}`))
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
