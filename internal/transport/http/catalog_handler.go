package http

import (
	"net/http"

	"bazaar-be/internal/catalog"

	"github.com/go-chi/chi/v5"
)

type addNamedRequest struct {
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(router chi.Router) {
	router.Get("/departments", h.handleGetDepartments)
	router.Post("/departments", h.handleAddDepartment)
	router.Get("/departments/{id}/categories", h.handleGetCategories)
	router.Post("/departments/{id}/categories", h.handleAddCategory)
	router.Post("/categories/{id}/subcategories", h.handleAddSubCategory)
	router.Get("/brands", h.handleGetBrands)
	router.Post("/brands", h.handleAddBrand)
	router.Patch("/catalog/{kind}/{id}/active", h.handleSetActive)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := requireActor(w, r)
	if !ok {
		return false
	}
	if !actor.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "administrator role required")
		return false
	}
	return true
}

func (h *CatalogHandler) handleGetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.GetDepartments(r.Context(), queryString(r, "filter"),
		queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, departments)
}

func (h *CatalogHandler) handleAddDepartment(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req addNamedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	d, err := h.service.AddDepartment(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, d)
}

func (h *CatalogHandler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context(), chi.URLParam(r, "id"),
		queryString(r, "filter"), queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req addNamedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	c, err := h.service.AddCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) handleAddSubCategory(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req addNamedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	sc, err := h.service.AddSubCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sc)
}

func (h *CatalogHandler) handleGetBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.GetBrands(r.Context(), queryString(r, "filter"),
		queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) handleAddBrand(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req addNamedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	b, err := h.service.AddBrand(r.Context(), req.Name, req.LogoURL)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, b)
}

func (h *CatalogHandler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	err := h.service.SetActive(r.Context(), chi.URLParam(r, "kind"), chi.URLParam(r, "id"), req.IsActive)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
