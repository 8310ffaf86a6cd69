package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/cache"
	"github.com/shopmart/shop-backend/internal/domain"
	"github.com/shopmart/shop-backend/internal/repository"
)

type mockCartRepo struct {
	m         sync.RWMutex
	cart      *domain.Cart
	getErr    error
	upsertErr error
	resetErr  error
	resets    int
}

func (m *mockCartRepo) GetCartByUser(context.Context, primitive.ObjectID) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	copied := *m.cart
	copied.Items = append([]domain.CartItem(nil), m.cart.Items...)
	return &copied, nil
}

func (m *mockCartRepo) UpsertCart(_ context.Context, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.cart = cart
	return nil
}

func (m *mockCartRepo) ResetCart(_ context.Context, _ primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.resetErr != nil {
		return m.resetErr
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.resets++
	m.cart.Items = []domain.CartItem{}
	m.cart.TotalPrice = 0
	m.cart.TotalItems = 0
	return nil
}

func (m *mockCartRepo) snapshot() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	copied := *m.cart
	copied.Items = append([]domain.CartItem(nil), m.cart.Items...)
	return &copied
}

type mockOrderRepo struct {
	m         sync.RWMutex
	orders    map[primitive.ObjectID]*domain.Order
	insertErr error

	// raceTo simulates a concurrent transition landing right after a read:
	// the first GetOrder returns the order as-is, then flips it to raceTo so
	// the following compare-and-set loses.
	raceTo domain.OrderStatus
	raced  bool
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (m *mockOrderRepo) InsertOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	order.ID = primitive.NewObjectID()
	m.orders[order.ID] = order
	return order, nil
}

func (m *mockOrderRepo) GetOrder(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok || order.IsDeleted {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	if m.raceTo != "" && !m.raced {
		order.Status = m.raceTo
		m.raced = true
	}
	return &copied, nil
}

func (m *mockOrderRepo) ListOrdersByUser(_ context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	result := make([]*domain.Order, 0)
	for _, order := range m.orders {
		if order.UserID == userID && !order.IsDeleted {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

// TransitionStatus mirrors the conditional-update semantics of the Mongo
// implementation: only a pending (and, for cancellation, cancellable) order
// matches.
func (m *mockOrderRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, to domain.OrderStatus) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok || order.IsDeleted || order.Status != domain.OrderStatusPending {
		return nil, repository.ErrTransitionConflict
	}
	if to == domain.OrderStatusCancelled && !order.Cancellable {
		return nil, repository.ErrTransitionConflict
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	copied := *order
	return &copied, nil
}

type mockProductRepo struct {
	m        sync.RWMutex
	products map[primitive.ObjectID]*domain.Product
	err      error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*domain.Product)}
}

func (m *mockProductRepo) GetProduct(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepo) add(product *domain.Product) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[product.ID] = product
}

type mockOutboxRepo struct {
	m      sync.RWMutex
	events []*repository.OutboxEvent
	err    error
}

func (m *mockOutboxRepo) Append(_ context.Context, event *repository.OutboxEvent) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutboxRepo) GetUnprocessed(_ context.Context, limit int) ([]*repository.OutboxEvent, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	result := make([]*repository.OutboxEvent, 0)
	for _, event := range m.events {
		if !event.Processed && len(result) < limit {
			result = append(result, event)
		}
	}
	return result, nil
}

func (m *mockOutboxRepo) MarkProcessed(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Processed = true
			return nil
		}
	}
	return repository.ErrOrderNotFound
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}
