package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaar-be/internal/cache"
	"bazaar-be/internal/cart"
	"bazaar-be/internal/catalog"
	"bazaar-be/internal/config"
	"bazaar-be/internal/db"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/notify"
	"bazaar-be/internal/order"
	"bazaar-be/internal/product"
	"bazaar-be/internal/review"
	"bazaar-be/internal/sales"
	"bazaar-be/internal/store"
	transport "bazaar-be/internal/transport/http"
	"bazaar-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	var invalidator cache.Invalidator = cache.NoopInvalidator{}
	if cfg.RedisAddr != "" {
		invalidator = cache.NewRedisInvalidator(cfg.RedisAddr)
	}
	notifier := notify.NewLogNotifier()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, invalidator)

	storeRepo := store.NewRepository(database)
	storeSvc := store.NewService(storeRepo, notifier, invalidator)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, cartRepo, userRepo,
		notifier, invalidator, cfg.CommissionRate)

	salesRepo := sales.NewRepository(database)
	salesSvc := sales.NewService(salesRepo)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo, productRepo, invalidator)

	router := transport.NewRouter(transport.Handlers{
		Auth:    transport.NewAuthHandler(userSvc),
		Catalog: transport.NewCatalogHandler(catalogSvc),
		Product: transport.NewProductHandler(productSvc),
		Store:   transport.NewStoreHandler(storeSvc),
		Cart:    transport.NewCartHandler(cartSvc),
		Order:   transport.NewOrderHandler(orderSvc),
		Sales:   transport.NewSalesHandler(salesSvc),
		Review:  transport.NewReviewHandler(reviewSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown failed", zap.Error(err))
	}
	logger.L().Info("server stopped")
}
