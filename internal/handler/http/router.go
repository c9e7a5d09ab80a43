package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vindenez/Matplaner-backend/internal/service"
	"github.com/vindenez/Matplaner-backend/pkg/health"
	"github.com/vindenez/Matplaner-backend/pkg/middleware"
)

// NewRouter creates a chi router with all product routes registered.
func NewRouter(
	productService *service.ProductService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("matplaner"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/search", productHandler.Search)
			r.Get("/ean/{ean}", productHandler.GetByEAN)
			r.Get("/store/{code}", productHandler.ListByStore)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)
				r.Post("/match", productHandler.Match)
				r.Post("/price", productHandler.EstimatePrice)
			})
		})

		r.Post("/catalog/refresh", productHandler.RefreshCatalog)
	})

	return r
}
