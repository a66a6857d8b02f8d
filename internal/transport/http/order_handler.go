package http

import (
	"net/http"

	"bazaar-be/internal/order"

	"github.com/go-chi/chi/v5"
)

type placeOrderRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	ShippingCost   float64 `json:"shipping_cost"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

type paymentStatusRequest struct {
	Status string `json:"status"`
}

type OrderHandler struct {
	service order.Service
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handlePlace)
	router.Get("/orders", h.handleListMine)
	router.Get("/orders/{id}", h.handleGet)
	router.Patch("/orders/{id}/status", h.handleStatus)
	router.Patch("/orders/{id}/payment", h.handlePayment)
	router.Post("/orders/{id}/cancel", h.handleCancel)
}

func (h *OrderHandler) handlePlace(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	input := order.PlaceOrderInput{
		ShippingCost:   req.ShippingCost,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, order.PlaceOrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	o, err := h.service.PlaceOrder(r.Context(), input, actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) handleListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListMyOrders(r.Context(), actor, queryInt32(r, "limit"), queryInt32(r, "page"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	o, err := h.service.GetOrderDetail(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	o, err := h.service.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), order.OrderStatus(req.Status), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handlePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req paymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	o, err := h.service.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), order.PaymentStatus(req.Status), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
