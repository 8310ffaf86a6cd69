package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/shopmart/shop-backend/internal/apperr"
	"github.com/shopmart/shop-backend/internal/cache"
	"github.com/shopmart/shop-backend/internal/domain"
	"github.com/shopmart/shop-backend/internal/repository"
)

type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cartCache,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID.Hex(), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID.Hex())
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCartByUser(ctx, userID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID.Hex(), cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperr.NotFound("Cart not found.")
		}
		return nil, apperr.Internal("failed to get cart", err)
	}

	return v.(*domain.Cart), nil
}

// AddItem puts a product in the cart, snapshotting its current price. The
// cart is created implicitly on the first add; adding a product already in
// the cart merges quantities.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.BadRequest("Quantity should be at least 1.")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperr.NotFound("Product doesn't exist.")
		}
		return nil, apperr.Internal("failed to get product", err)
	}

	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperr.Internal("failed to get cart", err)
		}
		now := time.Now()
		cart = &domain.Cart{UserID: userID, Items: []domain.CartItem{}, CreatedAt: now, UpdatedAt: now}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}
	cart.RecalculateTotals()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperr.Internal("failed to save cart", err)
	}

	s.invalidateCache(userID)
	return cart, nil
}

// RemoveItem drops the whole line item for a product.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.repo.GetCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, apperr.NotFound("Cart not found.")
		}
		return nil, apperr.Internal("failed to get cart", err)
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.NotFound("Product is not present in the cart.")
	}
	cart.RecalculateTotals()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, apperr.Internal("failed to save cart", err)
	}

	s.invalidateCache(userID)
	return cart, nil
}

func (s *CartService) invalidateCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID.Hex()); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
