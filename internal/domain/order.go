package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo encodes the order state machine: the only legal moves are
// pending -> completed and pending -> cancelled.
func CanTransitionTo(from, to OrderStatus) bool {
	return from == OrderStatusPending && to.IsTerminal()
}

// ParseTargetStatus accepts only the two statuses a client may request.
func ParseTargetStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

// Order is a snapshot of a cart taken at creation time. Everything except
// status is immutable once written.
type Order struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	Items         []OrderItem        `json:"items" bson:"items"`
	TotalPrice    float64            `json:"totalPrice" bson:"totalPrice"`
	TotalItems    int                `json:"totalItems" bson:"totalItems"`
	TotalQuantity int                `json:"totalQuantity" bson:"totalQuantity"`
	Status        OrderStatus        `json:"status" bson:"status"`
	Cancellable   bool               `json:"cancellable" bson:"cancellable"`
	IsDeleted     bool               `json:"isDeleted" bson:"isDeleted"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewOrderFromCart builds the order snapshot: items, totalPrice and
// totalItems copied from the cart, totalQuantity derived as the sum of item
// quantities.
func NewOrderFromCart(cart *Cart, cancellable bool) *Order {
	items := make([]OrderItem, 0, len(cart.Items))
	totalQuantity := 0
	for _, item := range cart.Items {
		totalQuantity += item.Quantity
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	now := time.Now()
	return &Order{
		UserID:        cart.UserID,
		Items:         items,
		TotalPrice:    cart.TotalPrice,
		TotalItems:    cart.TotalItems,
		TotalQuantity: totalQuantity,
		Status:        OrderStatusPending,
		Cancellable:   cancellable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

var ErrInvalidCancellable = errors.New("cancellable must be a boolean or the strings 'true'/'false'")

// ParseCancellable interprets the creation-time cancellable override. Clients
// send it either as a JSON boolean or as the literal strings "true"/"false";
// every other representation is rejected.
func ParseCancellable(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return false, ErrInvalidCancellable
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}

	return false, ErrInvalidCancellable
}
