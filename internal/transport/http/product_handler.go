package http

import (
	"net/http"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/product"

	"github.com/go-chi/chi/v5"
)

type submitProductRequest struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	ImageURL      *string  `json:"imageurl"`
	Price         float64  `json:"price"`
	SalePrice     *float64 `json:"sale_price"`
	Discount      *float64 `json:"discount"`
	IsDiscount    bool     `json:"is_discount"`
	Stock         int      `json:"stock"`
	LowStockAlert int      `json:"low_stock_alert"`
	IsFeatured    bool     `json:"is_featured"`
	IsNewArrival  bool     `json:"is_new_arrival"`
	IsWholesale   bool     `json:"is_wholesale"`
	VendorID      string   `json:"vendor_id"`
	StoreID       string   `json:"store_id"`
	DepartmentID  string   `json:"department_id"`
	CategoryID    *string  `json:"category_id"`
	SubCategoryID *string  `json:"subcategory_id"`
	BrandID       *string  `json:"brand_id"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type stockRequest struct {
	Delta int `json:"delta"`
}

type ProductHandler struct {
	service product.Service
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Post("/products", h.handleSubmit)
	router.Get("/products", h.handleList)
	router.Get("/products/{id}", h.handleGet)
	router.Get("/products/{id}/similar", h.handleSimilar)
	router.Patch("/products/{id}/status", h.handleTransition)
	router.Patch("/products/{id}/stock", h.handleStock)
}

func requireActor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}

func (h *ProductHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req submitProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	p, err := h.service.Submit(r.Context(), product.Draft{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		SalePrice:     req.SalePrice,
		Discount:      req.Discount,
		IsDiscount:    req.IsDiscount,
		Stock:         req.Stock,
		LowStockAlert: req.LowStockAlert,
		IsFeatured:    req.IsFeatured,
		IsNewArrival:  req.IsNewArrival,
		IsWholesale:   req.IsWholesale,
		VendorID:      req.VendorID,
		StoreID:       req.StoreID,
		DepartmentID:  req.DepartmentID,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		BrandID:       req.BrandID,
	}, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	if categoryID == "" {
		respondWithError(w, http.StatusBadRequest, "category_id is required")
		return
	}

	var limit int32
	if l := queryInt32(r, "limit"); l != nil {
		limit = *l
	}

	page, err := h.service.ListByCategory(r.Context(), categoryID, queryString(r, "cursor"), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListSimilar(r.Context(), chi.URLParam(r, "id"),
		queryString(r, "category_id"), queryString(r, "subcategory_id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *ProductHandler) handleTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	p, err := h.service.Transition(r.Context(), chi.URLParam(r, "id"), product.Status(req.Status), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleStock(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	stock, err := h.service.UpdateStock(r.Context(), chi.URLParam(r, "id"), req.Delta, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"stock": stock})
}
