package http

import (
	"net/http"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/review"

	"github.com/go-chi/chi/v5"
)

type addReviewRequest struct {
	ProductID string  `json:"product_id"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

type approvalRequest struct {
	Approved bool `json:"approved"`
}

type ReviewHandler struct {
	service review.Service
}

func NewReviewHandler(service review.Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) RegisterRoutes(router chi.Router) {
	router.Post("/reviews", h.handleAdd)
	router.Patch("/reviews/{id}/approval", h.handleApproval)
	router.Get("/products/{id}/reviews", h.handleListByProduct)
}

func (h *ReviewHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req addReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	rv, err := h.service.AddReview(r.Context(), review.AddReviewInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, rv)
}

func (h *ReviewHandler) handleApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	rv, err := h.service.SetApproval(r.Context(), chi.URLParam(r, "id"), req.Approved, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rv)
}

func (h *ReviewHandler) handleListByProduct(w http.ResponseWriter, r *http.Request) {
	// Anonymous readers see approved reviews only.
	actor, _ := auth.ActorFromContext(r.Context())

	reviews, err := h.service.ListByProduct(r.Context(), chi.URLParam(r, "id"), actor,
		queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}
