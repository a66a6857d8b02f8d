package http

import (
	"net/http"

	"bazaar-be/internal/store"

	"github.com/go-chi/chi/v5"
)

type submitStoreRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	DocumentURL *string `json:"document_url"`
}

type updateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	DocumentURL *string `json:"document_url"`
}

type rejectStoreRequest struct {
	Reason string `json:"reason"`
}

type StoreHandler struct {
	service store.Service
}

func NewStoreHandler(service store.Service) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) RegisterRoutes(router chi.Router) {
	router.Post("/stores", h.handleSubmit)
	router.Get("/stores/pending", h.handleListPending)
	router.Get("/stores/{id}", h.handleGet)
	router.Patch("/stores/{id}", h.handleUpdate)
	router.Post("/stores/{id}/approve", h.handleApprove)
	router.Post("/stores/{id}/reject", h.handleReject)
}

func (h *StoreHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req submitStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	st, err := h.service.SubmitStore(r.Context(), store.SubmitStoreInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		DocumentURL: req.DocumentURL,
	}, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, st)
}

func (h *StoreHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func (h *StoreHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req updateStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	st, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), store.UpdateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		DocumentURL: req.DocumentURL,
	}, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func (h *StoreHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	st, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func (h *StoreHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req rejectStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	st, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func (h *StoreHandler) handleListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "administrator role required")
		return
	}

	stores, err := h.service.ListPending(r.Context(), queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stores)
}
