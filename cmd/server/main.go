package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopmart/shop-backend/internal/auth"
	"github.com/shopmart/shop-backend/internal/cache"
	"github.com/shopmart/shop-backend/internal/config"
	shophttp "github.com/shopmart/shop-backend/internal/http"
	"github.com/shopmart/shop-backend/internal/metrics"
	"github.com/shopmart/shop-backend/internal/publisher"
	"github.com/shopmart/shop-backend/internal/repository"
	"github.com/shopmart/shop-backend/internal/service"
	"github.com/shopmart/shop-backend/internal/storage"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// MongoDB
	mongoDB, err := repository.ConnectMongoDB(ctx, repository.MongoConfig{
		URI:                    cfg.MongoURI,
		Database:               cfg.MongoDBName,
		ConnectTimeout:         cfg.MongoConnectTimeout,
		ServerSelectionTimeout: cfg.MongoSelectTimeout,
		MaxPoolSize:            cfg.MongoMaxPoolSize,
		MinPoolSize:            cfg.MongoMinPoolSize,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to create MongoDB indexes: %v", err)
	}

	userRepo := repository.NewMongoUserRepository(mongoDB)
	cartRepo := repository.NewMongoCartRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)
	productRepo := repository.NewMongoProductRepository(mongoDB)
	outboxRepo := repository.NewMongoOutboxRepository(mongoDB)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewRedisCache(redisClient)

	// Object storage
	fileStore, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Prefix)
	if err != nil {
		log.Fatalf("Failed to set up S3: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userService := service.NewUserService(userRepo, fileStore, tokens)
	cartService := service.NewCartService(cartRepo, productRepo, cartCache)
	orderService := service.NewOrderService(cartRepo, orderRepo, productRepo, outboxRepo, cartCache)

	// Outbox poller publishing order events to Kafka
	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	poller := publisher.NewOutboxPoller(outboxRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	router := shophttp.NewRouter(shophttp.RouterConfig{
		Users:          userService,
		Carts:          cartService,
		Orders:         orderService,
		Products:       productRepo,
		Tokens:         tokens,
		Metrics:        metrics.NewServerMetrics("backend"),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
