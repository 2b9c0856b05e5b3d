package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/agstore/storefront/config"
	"github.com/agstore/storefront/internal/auth"
	"github.com/agstore/storefront/internal/events"
	"github.com/agstore/storefront/internal/google"
	handler "github.com/agstore/storefront/internal/handler/http"
	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/mailer"
	"github.com/agstore/storefront/internal/middleware"
	"github.com/agstore/storefront/internal/repository"
	"github.com/agstore/storefront/internal/repository/postgres"
	"github.com/agstore/storefront/internal/service"
	"github.com/agstore/storefront/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const authTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// order event publisher is optional
	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		pub, err := events.NewPublisher(cfg.AMQPURL, cfg.OrderExchange, cfg.OrderQueue)
		if err != nil {
			logger.Log.Fatal("Error connecting to broker", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub
	}

	// dependency injection
	// catalog
	productRepo := repository.NewProductRepository(db)
	catalogService := service.NewCatalogService(productRepo)
	productHandler := handler.NewProductHandler(catalogService)

	// order
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, catalogService, publisher, cfg.OrderPrefix)
	orderHandler := handler.NewOrderHandler(orderService)

	// user
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	otpMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	userService := service.NewUserService(userRepo, otpRepo, orderRepo, reviewRepo, otpMailer)
	userHandler := handler.NewUserHandler(userService)

	// auth
	googleClient := google.NewClient(cfg.GoogleBaseURL)
	authService := service.NewAuthService(userRepo, token, googleClient)
	authHandler := handler.NewAuthHandler(authService)

	// review
	reviewService := service.NewReviewService(reviewRepo, catalogService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// expired otp cleanup
	cleaner := worker.NewOTPCleaner(userService)
	go cleaner.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))
	router.Use(middleware.Metrics())

	router.Handle("/metrics", promhttp.Handler())

	router.Post("/api/users", userHandler.RegisterUser())
	router.Post("/api/users/login", authHandler.LoginUser())
	router.Post("/api/users/login/google", authHandler.LoginWithGoogle())
	router.Post("/api/users/send-otp", userHandler.SendOTP())
	router.Post("/api/users/reset-password", userHandler.ResetPassword())

	router.Get("/api/products", productHandler.ListProducts())
	router.Get("/api/products/search/{query}", productHandler.SearchProducts())
	router.Get("/api/products/{productId}", productHandler.GetProduct())
	router.Get("/api/reviews/product/{productId}", reviewHandler.ListProductReviews())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders", orderHandler.ListOrders())
		group.Put("/api/orders/{orderId}/{status}", orderHandler.UpdateOrderStatus())

		group.Post("/api/products", productHandler.CreateProduct())
		group.Put("/api/products/{productId}", productHandler.UpdateProduct())
		group.Delete("/api/products/{productId}", productHandler.DeleteProduct())

		group.Get("/api/users", userHandler.GetCurrentUser())
		group.Get("/api/users/admin/all", userHandler.ListUsers())
		group.Put("/api/users/admin/{userId}/role", userHandler.UpdateUserRole())
		group.Delete("/api/users/admin/{userId}", userHandler.DeleteUser())

		group.Post("/api/reviews", reviewHandler.CreateReview())
		group.Get("/api/reviews/user/my-reviews", reviewHandler.ListOwnReviews())
		group.Get("/api/reviews/admin/all", reviewHandler.ListAllReviews())
		group.Put("/api/reviews/{reviewId}", reviewHandler.UpdateReview())
		group.Delete("/api/reviews/{reviewId}", reviewHandler.DeleteReview())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
