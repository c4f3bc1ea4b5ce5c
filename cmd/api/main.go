package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sneakpeak/storefront/internal/config"
	"github.com/sneakpeak/storefront/internal/delivery/events"
	httpDelivery "github.com/sneakpeak/storefront/internal/delivery/http"
	"github.com/sneakpeak/storefront/internal/delivery/http/handler"
	"github.com/sneakpeak/storefront/internal/pkg/auth"
	"github.com/sneakpeak/storefront/internal/pkg/cache"
	"github.com/sneakpeak/storefront/internal/pkg/database"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/pkg/profanity"
	"github.com/sneakpeak/storefront/internal/pkg/storage"
	cacheRepo "github.com/sneakpeak/storefront/internal/repository/cache"
	"github.com/sneakpeak/storefront/internal/repository/postgres"
	"github.com/sneakpeak/storefront/internal/usecase/category"
	"github.com/sneakpeak/storefront/internal/usecase/order"
	"github.com/sneakpeak/storefront/internal/usecase/product"
	"github.com/sneakpeak/storefront/internal/usecase/review"
	"github.com/sneakpeak/storefront/internal/usecase/sales"
	"github.com/sneakpeak/storefront/internal/usecase/user"

	_ "github.com/sneakpeak/storefront/docs"
)

// @title SneakPeak Storefront API
// @version 1.0
// @description E-commerce storefront backend with catalog search, orders, reviews and sales reports.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/sneakpeak/storefront
// @contact.email support@sneakpeak.shop

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name Products
// @tag.description Catalog browsing and product management endpoints

// @tag.name Reviews
// @tag.description Review submission and moderation endpoints

// @tag.name Orders
// @tag.description Order placement and fulfilment endpoints

// @tag.name Categories
// @tag.description Category management endpoints

// @tag.name Sales
// @tag.description Admin sales report endpoints

// @tag.name Auth
// @tag.description Registration and login endpoints

// @tag.name Users
// @tag.description Account endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Storefront API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	appLogger.Info("Connecting to MinIO...")
	imageStore, err := storage.NewMinIOStorage(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create MinIO storage", err)
	}

	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	userRepo := postgres.NewUserRepository(db)

	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.CatalogPageTTL,
		cfg.Cache.ProductTTL,
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	filter := profanity.New()

	productService := product.NewService(productRepo, redisCache, imageStore, cfg.Catalog.PageSize, appLogger)
	reviewService := review.NewService(reviewRepo, redisCache, filter, appLogger)
	orderService := order.NewService(orderRepo, publisher, appLogger)
	salesService := sales.NewService(salesRepo, cfg.Reports.ChronologicalSort, appLogger)
	categoryService := category.NewService(categoryRepo, appLogger)
	userService := user.NewService(userRepo, tokens, appLogger)

	productHandler := handler.NewProductHandler(productService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, userService, appLogger)
	orderHandler := handler.NewOrderHandler(orderService, appLogger)
	salesHandler := handler.NewSalesHandler(salesService, appLogger)
	categoryHandler := handler.NewCategoryHandler(categoryService, appLogger)
	userHandler := handler.NewUserHandler(userService, appLogger)

	router := httpDelivery.NewRouter(
		productHandler,
		reviewHandler,
		orderHandler,
		salesHandler,
		categoryHandler,
		userHandler,
		tokens,
		cfg,
		appLogger,
	)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
