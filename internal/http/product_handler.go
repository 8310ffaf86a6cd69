package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/repository"
)

type ProductHandler struct {
	products repository.ProductRepository
	timeout  time.Duration
}

func NewProductHandler(products repository.ProductRepository, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		timeout:  timeout,
	}
}

// GET /products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Enter a valid productId.")
		return
	}

	product, err := h.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product doesn't exist.")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Success", product)
}
