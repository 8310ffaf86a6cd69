package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopmart/shop-backend/internal/auth"
	"github.com/shopmart/shop-backend/internal/metrics"
	"github.com/shopmart/shop-backend/internal/repository"
	"github.com/shopmart/shop-backend/internal/service"
)

type RouterConfig struct {
	Users          *service.UserService
	Carts          *service.CartService
	Orders         *service.OrderService
	Products       repository.ProductRepository
	Tokens         *auth.TokenManager
	Metrics        *metrics.ServerMetrics
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	userHandler := NewUserHandler(cfg.Users, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout)
	orderHandler := NewOrderHandler(cfg.Orders, cfg.RequestTimeout)
	productHandler := NewProductHandler(cfg.Products, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Get("/products/{productId}", productHandler.GetProduct)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens))

		r.Get("/user/{userId}/profile", userHandler.GetProfile)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart", cartHandler.AddItem)
			r.Delete("/cart/{productId}", cartHandler.RemoveItem)

			r.Get("/orders", orderHandler.ListOrders)
			r.Post("/orders", orderHandler.CreateOrder)
			r.Put("/orders", orderHandler.UpdateOrder)
		})
	})

	return r
}
