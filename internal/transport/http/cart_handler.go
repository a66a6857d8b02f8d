package http

import (
	"net/http"

	"bazaar-be/internal/cart"

	"github.com/go-chi/chi/v5"
)

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type removeCartRequest struct {
	ProductIDs []string `json:"product_ids"`
}

type cartResponse struct {
	Items []*cart.CartRow `json:"items"`
	Count int64           `json:"count"`
}

type CartHandler struct {
	service cart.Service
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Post("/cart", h.handleAdd)
	router.Get("/cart", h.handleGet)
	router.Get("/cart/count", h.handleCount)
	router.Patch("/cart", h.handleUpdate)
	router.Delete("/cart", h.handleRemove)
	router.Delete("/cart/all", h.handleClear)
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	item, err := h.service.AddToCart(r.Context(), cart.AddToCartParams{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	rows, count, err := h.service.GetCart(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cartResponse{Items: rows, Count: count})
}

func (h *CartHandler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.GetCartCount(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *CartHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.UpdateCartQuantity(r.Context(), cart.UpdateCartParams{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req removeCartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.RemoveFromCart(r.Context(), req.ProductIDs); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
