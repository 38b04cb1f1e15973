package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/acqua-delivery/backend/internal/auth"
	"github.com/acqua-delivery/backend/internal/config"
	"github.com/acqua-delivery/backend/internal/handler"
	"github.com/acqua-delivery/backend/internal/middleware"
	"github.com/acqua-delivery/backend/internal/repository"
	"github.com/acqua-delivery/backend/internal/service"
	"github.com/acqua-delivery/backend/internal/validator"
	"github.com/acqua-delivery/backend/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry and apply the embedded schema
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.ApplySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	unitPrice, err := decimal.NewFromString(cfg.Pricing.UnitPrice)
	if err != nil || !unitPrice.IsPositive() {
		log.Fatal().Err(err).Str("unit_price", cfg.Pricing.UnitPrice).Msg("invalid unit price")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "ACQUA Delivery Backend",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Initialize validator
	validate := validator.New()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)

	// Token issuer
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)

	// Services (layered architecture)
	authService := service.NewAuthService(userRepo, tokens)
	pricing := service.NewPricingEngine(couponRepo, unitPrice)
	loyalty := service.NewLoyaltyGenerator(orderRepo, couponRepo)
	orderService := service.NewOrderService(pool, orderRepo, pricing, loyalty, service.OpenTransitionPolicy{})
	couponService := service.NewCouponService(couponRepo)
	statsService := service.NewStatsService(userRepo, orderRepo)

	// Seed the administrator account
	if err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure admin account")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	orderHandler := handler.NewOrderHandler(orderService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Public routes
	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Authenticated routes
	authed := api.Group("", middleware.Authenticate(tokens, userRepo))
	authed.Get("/auth/me", authHandler.Me)
	authed.Post("/orders", orderHandler.Create)
	authed.Get("/orders", orderHandler.List)
	authed.Get("/orders/:id", orderHandler.Get)
	authed.Post("/coupons/validate", couponHandler.Validate)
	authed.Get("/coupons/mine", couponHandler.Mine)
	authed.Get("/stats", statsHandler.Stats)

	// Admin-only routes
	admin := authed.Group("", middleware.RequireAdmin())
	admin.Put("/orders/:id/status", orderHandler.UpdateStatus)
	admin.Delete("/orders/:id", orderHandler.Delete)
	admin.Post("/coupons", couponHandler.Create)
	admin.Get("/coupons", couponHandler.List)
	admin.Delete("/coupons/:code", couponHandler.Delete)
	admin.Get("/customers", statsHandler.Customers)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
