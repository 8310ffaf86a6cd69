package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cart struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	Items      []CartItem         `json:"items" bson:"items"`
	TotalPrice float64            `json:"totalPrice" bson:"totalPrice"`
	TotalItems int                `json:"totalItems" bson:"totalItems"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CartItem keeps the price observed when the product was added,
// so an order snapshot is not affected by later price changes.
type CartItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

// RecalculateTotals keeps totalPrice and totalItems in line with the item
// list; totalItems counts line items, not quantities.
func (c *Cart) RecalculateTotals() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalPrice = total
	c.TotalItems = len(c.Items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
