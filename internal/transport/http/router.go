package http

import (
	"net/http"

	"bazaar-be/internal/logger"
	"bazaar-be/internal/metrics"
	"bazaar-be/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Handlers bundles every domain handler mounted on the router.
type Handlers struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Product *ProductHandler
	Store   *StoreHandler
	Cart    *CartHandler
	Order   *OrderHandler
	Sales   *SalesHandler
	Review  *ReviewHandler
}

// NewRouter builds the chi router with the full middleware chain.
// Authentication runs before rate limiting so authenticated callers get
// per-user buckets instead of sharing an IP bucket.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/statz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]uint64{
			"requests_served": metrics.RequestsServed.Load(),
			"requests_failed": metrics.RequestsFailed.Load(),
			"sales_recorded":  metrics.SalesRecorded.Load(),
			"stock_rejected":  metrics.StockRejected.Load(),
		})
	})

	h.Auth.RegisterRoutes(r)
	h.Catalog.RegisterRoutes(r)
	h.Product.RegisterRoutes(r)
	h.Store.RegisterRoutes(r)
	h.Order.RegisterRoutes(r)
	h.Sales.RegisterRoutes(r)
	h.Review.RegisterRoutes(r)

	// Cart requires an authenticated caller on every route.
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth)
		h.Cart.RegisterRoutes(gr)
	})

	return r
}
