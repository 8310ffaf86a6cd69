package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/service"
)

type CartHandler struct {
	carts   *service.CartService
	timeout time.Duration
}

func NewCartHandler(carts *service.CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GET /users/{userId}/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Success", cart)
}

// POST /users/{userId}/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON in request body.")
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Enter a valid productId.")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	cart, err := h.carts.AddItem(ctx, userID, productID, quantity)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Success", cart)
}

// DELETE /users/{userId}/cart/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Enter a valid productId.")
		return
	}

	cart, err := h.carts.RemoveItem(ctx, userID, productID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Success", cart)
}
