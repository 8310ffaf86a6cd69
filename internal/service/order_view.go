package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/domain"
	"github.com/shopmart/shop-backend/internal/repository"
)

// ProductSummary is the resolved form of a product reference in a response:
// the display fields joined in from the product store.
type ProductSummary struct {
	ID             primitive.ObjectID `json:"_id"`
	Title          string             `json:"title,omitempty"`
	Price          float64            `json:"price,omitempty"`
	ProductImage   string             `json:"productImage,omitempty"`
	IsFreeShipping bool               `json:"isFreeShipping,omitempty"`
}

type OrderItemView struct {
	Product  ProductSummary `json:"productId"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
}

type OrderView struct {
	ID            primitive.ObjectID `json:"_id"`
	UserID        primitive.ObjectID `json:"userId"`
	Items         []OrderItemView    `json:"items"`
	TotalPrice    float64            `json:"totalPrice"`
	TotalItems    int                `json:"totalItems"`
	TotalQuantity int                `json:"totalQuantity"`
	Status        string             `json:"status"`
	Cancellable   bool               `json:"cancellable"`
	IsDeleted     bool               `json:"isDeleted"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// buildOrderView resolves each product reference to its display fields.
// The join is presentation only: a missing or failing lookup degrades to the
// bare reference instead of failing the operation.
func (s *OrderService) buildOrderView(ctx context.Context, order *domain.Order) *OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		summary := ProductSummary{ID: item.ProductID}

		product, err := s.products.GetProduct(ctx, item.ProductID)
		switch {
		case err == nil:
			summary.Title = product.Title
			summary.Price = product.Price
			summary.ProductImage = product.ProductImage
			summary.IsFreeShipping = product.IsFreeShipping
		case !errors.Is(err, repository.ErrProductNotFound):
			log.Printf("failed to resolve product %s: %v", item.ProductID.Hex(), err)
		}

		items = append(items, OrderItemView{
			Product:  summary,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return &OrderView{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         items,
		TotalPrice:    order.TotalPrice,
		TotalItems:    order.TotalItems,
		TotalQuantity: order.TotalQuantity,
		Status:        order.Status.String(),
		Cancellable:   order.Cancellable,
		IsDeleted:     order.IsDeleted,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
