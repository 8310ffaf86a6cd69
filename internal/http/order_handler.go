package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/shopmart/shop-backend/internal/service"
)

type OrderHandler struct {
	orders  *service.OrderService
	timeout time.Duration
}

func NewOrderHandler(orders *service.OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type CreateOrderRequestDTO struct {
	CartID string `json:"cartId"`
	// Raw so the service-side parser can accept a boolean or the strings
	// "true"/"false" and reject everything else.
	Cancellable json.RawMessage `json:"cancellable"`
}

type UpdateOrderRequestDTO struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// POST /users/{userId}/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	order, err := h.orders.CreateOrder(ctx, userID, service.CreateOrderInput{
		CartID:      req.CartID,
		Cancellable: req.Cancellable,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Success", order)
}

// PUT /users/{userId}/orders
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	var req UpdateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	order, err := h.orders.UpdateOrderStatus(ctx, userID, service.UpdateOrderStatusInput{
		OrderID: req.OrderID,
		Status:  req.Status,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Success", order)
}

// GET /users/{userId}/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(ctx, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Success", orders)
}
