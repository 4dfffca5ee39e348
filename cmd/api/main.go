package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/templhaven/marketplace-api/internal/api"
	"github.com/templhaven/marketplace-api/internal/core/service"
	mongodb "github.com/templhaven/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/templhaven/marketplace-api/internal/infrastructure/db/redis"
	"github.com/templhaven/marketplace-api/internal/infrastructure/payment"
	"github.com/templhaven/marketplace-api/internal/pkg/config"
	"github.com/templhaven/marketplace-api/pkg/logger"
)

// @title           Marketplace API
// @version         1.0
// @description     Multi-vendor template marketplace: product moderation workflow and mobile-money checkout.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	productRepo := mongodb.NewProductRepository(db)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure product indexes")
	}
	modLogRepo := mongodb.NewModerationLogRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	catalogCache := redisdb.NewProductCache(rdb)

	// --- Payment provider ---
	providerClient := payment.NewClient(payment.Config{
		BaseURL: cfg.Payment.BaseURL,
		APIKey:  cfg.Payment.APIKey,
	})

	// --- Services ---
	productService := service.NewProductService(productRepo, modLogRepo, catalogCache, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	paymentService := service.NewPaymentService(providerClient, service.PollerConfig{
		Interval:  cfg.Payment.PollInterval,
		Timeout:   cfg.Payment.PollTimeout,
		Retention: cfg.Payment.Retention,
		OnSuccess: func(txID string) {
			log.Info().Str("transaction_id", txID).Msg("payment confirmed")
		},
		OnError: func(txID string, cause error) {
			log.Warn().Str("transaction_id", txID).Err(cause).Msg("payment failed")
		},
	}, log)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		ProductService: productService,
		PaymentService: paymentService,
		AuthService:    authService,
		Mongo:          db,
		Redis:          rdb,
		JWTSecret:      cfg.JWTSecret,
		Logger:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting marketplace api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
