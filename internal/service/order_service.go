package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/apperr"
	"github.com/shopmart/shop-backend/internal/cache"
	"github.com/shopmart/shop-backend/internal/domain"
	"github.com/shopmart/shop-backend/internal/repository"
	"github.com/shopmart/shop-backend/internal/validation"
)

// OrderService owns the order lifecycle: converting a cart into an order and
// moving an order through its status machine.
type OrderService struct {
	carts    repository.CartRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	outbox   repository.OutboxRepository
	cache    cache.CartCache
}

func NewOrderService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	outbox repository.OutboxRepository,
	cartCache cache.CartCache,
) *OrderService {
	return &OrderService{
		carts:    carts,
		orders:   orders,
		products: products,
		outbox:   outbox,
		cache:    cartCache,
	}
}

type CreateOrderInput struct {
	// CartID is optional; when present it must name the caller's own cart.
	CartID string
	// Cancellable is the raw JSON value so the parser can accept both a
	// boolean and the strings "true"/"false". Empty means not supplied.
	Cancellable json.RawMessage
}

type UpdateOrderStatusInput struct {
	OrderID string
	Status  string
}

// CreateOrder snapshots the caller's cart into a new pending order and
// resets the cart. Guards run in order; the first failure wins.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (*OrderView, error) {
	cart, err := s.carts.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperr.NotFound("This user's cart has not been created yet.")
		}
		return nil, apperr.Internal("failed to read cart", err)
	}

	if in.CartID != "" {
		cartID, err := primitive.ObjectIDFromHex(in.CartID)
		if err != nil {
			return nil, apperr.BadRequest("Enter a valid cartId.")
		}
		if cartID != cart.ID {
			return nil, apperr.BadRequest("This user doesn't own this cart.")
		}
	}

	if cart.IsEmpty() {
		return nil, apperr.BadRequest("The cart is empty.")
	}

	cancellable := true
	if len(in.Cancellable) > 0 {
		parsed, err := domain.ParseCancellable(in.Cancellable)
		if err != nil {
			return nil, apperr.BadRequest("Provide either 'true' or 'false' in cancellable.")
		}
		cancellable = parsed
	}

	order, err := s.orders.InsertOrder(ctx, domain.NewOrderFromCart(cart, cancellable))
	if err != nil {
		return nil, apperr.Internal("failed to create order", err)
	}

	// The insert and the reset are two separate writes with no transaction
	// around them: a failure here leaves the order persisted and the cart
	// untouched.
	if err := s.carts.ResetCart(ctx, userID); err != nil {
		return nil, apperr.Internal("failed to reset cart after order creation", err)
	}
	s.invalidateCartCache(userID)

	s.appendOrderEvent(ctx, repository.EventTypeOrderCreated, order, map[string]interface{}{
		"orderId":       order.ID.Hex(),
		"userId":        order.UserID.Hex(),
		"totalPrice":    order.TotalPrice,
		"totalQuantity": order.TotalQuantity,
		"status":        order.Status.String(),
		"createdAt":     order.CreatedAt,
	})

	return s.buildOrderView(ctx, order), nil
}

// UpdateOrderStatus moves a pending order to completed or cancelled. The
// write is a compare-and-set in the repository, so when two transitions race
// only one wins; the loser is re-read and reported against the state that won.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, userID primitive.ObjectID, in UpdateOrderStatusInput) (*OrderView, error) {
	if !validation.IsValid(in.OrderID) {
		return nil, apperr.BadRequest("Provide orderId in the request body.")
	}
	orderID, err := primitive.ObjectIDFromHex(in.OrderID)
	if err != nil {
		return nil, apperr.BadRequest("Enter a valid orderId.")
	}
	if !validation.IsValid(in.Status) {
		return nil, apperr.BadRequest("Provide the status to update.")
	}
	target, ok := domain.ParseTargetStatus(in.Status)
	if !ok {
		return nil, apperr.BadRequest("Provide either 'completed' or 'cancelled'")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("Order doesn't exist.")
		}
		return nil, apperr.Internal("failed to read order", err)
	}

	// Ownership violations deliberately answer 400, not 403.
	if order.UserID != userID {
		return nil, apperr.BadRequest("orderId doesn't match with that of the user.")
	}

	if order.Status.IsTerminal() {
		return nil, apperr.BadRequest("Order already " + order.Status.String())
	}

	if target == domain.OrderStatusCancelled && !order.Cancellable {
		return nil, apperr.BadRequest("Order is not cancellable.")
	}

	updated, err := s.orders.TransitionStatus(ctx, orderID, target)
	if err != nil {
		if errors.Is(err, repository.ErrTransitionConflict) {
			return nil, s.classifyConflict(ctx, orderID, target)
		}
		return nil, apperr.Internal("failed to update order status", err)
	}

	s.appendOrderEvent(ctx, repository.EventTypeOrderStatusChanged, updated, map[string]interface{}{
		"orderId":   updated.ID.Hex(),
		"userId":    updated.UserID.Hex(),
		"from":      domain.OrderStatusPending.String(),
		"to":        updated.Status.String(),
		"changedAt": updated.UpdatedAt,
	})

	return s.buildOrderView(ctx, updated), nil
}

// ListOrders returns the caller's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID primitive.ObjectID) ([]*OrderView, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list orders", err)
	}

	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, s.buildOrderView(ctx, order))
	}
	return views, nil
}

// classifyConflict re-reads an order after a lost compare-and-set to report
// the guard that actually failed.
func (s *OrderService) classifyConflict(ctx context.Context, orderID primitive.ObjectID, target domain.OrderStatus) error {
	current, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return apperr.NotFound("Order doesn't exist.")
		}
		return apperr.Internal("failed to re-read order after transition conflict", err)
	}

	if current.Status.IsTerminal() {
		return apperr.BadRequest("Order already " + current.Status.String())
	}
	if target == domain.OrderStatusCancelled && !current.Cancellable {
		return apperr.BadRequest("Order is not cancellable.")
	}
	return apperr.Internal("order transition conflict", repository.ErrTransitionConflict)
}

func (s *OrderService) appendOrderEvent(ctx context.Context, eventType string, order *domain.Order, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s payload for order %s: %v", eventType, order.ID.Hex(), err)
		return
	}

	// Event loss is tolerable; the order write already succeeded.
	if err := s.outbox.Append(ctx, repository.NewOutboxEvent(order.ID.Hex(), eventType, data)); err != nil {
		log.Printf("failed to append %s event for order %s: %v", eventType, order.ID.Hex(), err)
	}
}

func (s *OrderService) invalidateCartCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID.Hex()); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
