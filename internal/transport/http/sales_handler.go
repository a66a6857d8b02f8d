package http

import (
	"net/http"
	"time"

	"bazaar-be/internal/sales"
	"bazaar-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type salesSummaryResponse struct {
	TotalSales      float64 `json:"total_sales"`
	TotalCommission float64 `json:"total_commission"`
}

type SalesHandler struct {
	service sales.Service
}

func NewSalesHandler(service sales.Service) *SalesHandler {
	return &SalesHandler{service: service}
}

func (h *SalesHandler) RegisterRoutes(router chi.Router) {
	router.Post("/sales/{id}/settle", h.handleSettle)
	router.Get("/sales/{id}", h.handleGet)
	router.Get("/sales/vendor/{vendorID}", h.handleListByVendor)
	router.Get("/sales/summary", h.handleSummary)
	router.Get("/sales/top-vendors", h.handleTopVendors)
}

// dateRange reads from/to query params as RFC3339, defaulting to the
// last 30 days.
func dateRange(r *http.Request) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			from = t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			to = t
		}
	}
	return from, to
}

func (h *SalesHandler) handleSettle(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.Settle(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SalesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	s, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s)
}

func (h *SalesHandler) handleListByVendor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.service.ListByVendor(r.Context(), chi.URLParam(r, "vendorID"), actor,
		queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *SalesHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	// Vendors see their own totals; administrators may scope by vendor_id
	// or see the whole marketplace.
	vendorID := queryString(r, "vendor_id")
	if !actor.IsAdmin() {
		vendorID = utils.StrPtr(actor.UserID)
	}

	from, to := dateRange(r)
	total, err := h.service.TotalSalesAmount(r.Context(), from, to, vendorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	commission, err := h.service.TotalCommission(r.Context(), from, to, vendorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, salesSummaryResponse{
		TotalSales:      total,
		TotalCommission: commission,
	})
}

func (h *SalesHandler) handleTopVendors(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "administrator role required")
		return
	}

	limit := utils.PtrInt32(queryInt32(r, "limit"))

	from, to := dateRange(r)
	result, err := h.service.TopVendors(r.Context(), from, to, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
