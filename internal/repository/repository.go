package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/domain"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")

	// ErrTransitionConflict means the conditional status update matched no
	// pending order: either the order is gone or another transition won.
	ErrTransitionConflict = errors.New("order is not in a transitionable state")
)

// Consumers define these interfaces, not the MongoDB implementations.

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

type CartRepository interface {
	GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	ResetCart(ctx context.Context, userID primitive.ObjectID) error
}

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error)
	// TransitionStatus performs a compare-and-set: the update applies only
	// while the order is still pending (and cancellable, when moving to
	// cancelled), so exactly one concurrent transition can win.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, to domain.OrderStatus) (*domain.Order, error)
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, event *OutboxEvent) error
	GetUnprocessed(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkProcessed(ctx context.Context, id string) error
}
