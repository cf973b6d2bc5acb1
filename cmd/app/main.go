package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"courtside/internal/banner"
	"courtside/internal/booking"
	"courtside/internal/config"
	"courtside/internal/db"
	"courtside/internal/gateway"
	"courtside/internal/logger"
	"courtside/internal/notification"
	"courtside/internal/order"
	"courtside/internal/payout"
	"courtside/internal/provider"
	"courtside/internal/server"
	"courtside/internal/shop"
	"courtside/internal/tournament"
	"courtside/internal/user"
	"courtside/internal/venue"
)

// @title Courtside API
// @version 1.0
// @description Sports community platform: venues, tournaments, bookings and payments.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting Courtside application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	gw := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayTimeout)

	userRepo := user.NewRepository(database)
	venueRepo := venue.NewRepository(database)
	tournamentRepo := tournament.NewRepository(database)
	shopRepo := shop.NewRepository(database)
	providerRepo := provider.NewRepository(database)
	bannerRepo := banner.NewRepository(database)
	bookingRepo := booking.NewRepository(database)
	orderRepo := order.NewRepository(database)
	payoutRepo := payout.NewRepository(database)
	outboxRepo := notification.NewRepository(database)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	bookingService := booking.NewService(bookingRepo, venueRepo, cfg.SlotLockWindow)
	orderService := order.NewService(
		database, orderRepo, userRepo, tournamentRepo, venueRepo,
		shopRepo, providerRepo, bannerRepo, bookingRepo, outboxRepo, gw,
	)
	payoutService := payout.NewService(payoutRepo, venueRepo, providerRepo, userRepo, outboxRepo, gw)
	notifier := notification.New(
		outboxRepo,
		cfg.EmailFrom, cfg.EmailFromName,
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.PushEndpoint, cfg.PushAPIKey,
	)
	retryQueue := order.NewRetryQueue(rdb, orderService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notifier.Start(ctx, 5*time.Second)
	go retryQueue.Start(ctx)
	go bookingService.StartSweeper(ctx, time.Minute)

	srv := server.New(server.Deps{
		DB:          database,
		Config:      cfg,
		Users:       user.NewHandler(userService),
		UserRepo:    userRepo,
		Venues:      venue.NewHandler(venueRepo),
		Tournaments: tournament.NewHandler(tournamentRepo),
		Shops:       shop.NewHandler(shopRepo),
		Providers:   provider.NewHandler(providerRepo),
		Banners:     banner.NewHandler(bannerRepo),
		Bookings:    booking.NewHandler(bookingService),
		Orders:      order.NewHandler(orderService, bookingService, retryQueue),
		Payouts:     payout.NewHandler(payoutService),
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
