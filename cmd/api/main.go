package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kliniksehat/clinic-platform/internal/api/router"
	"github.com/kliniksehat/clinic-platform/internal/app/bootstrap"
	"github.com/kliniksehat/clinic-platform/internal/booking"
	appconfig "github.com/kliniksehat/clinic-platform/internal/config"
	"github.com/kliniksehat/clinic-platform/internal/doctors"
	"github.com/kliniksehat/clinic-platform/internal/notify"
	"github.com/kliniksehat/clinic-platform/internal/observability/metrics"
	"github.com/kliniksehat/clinic-platform/internal/queue"
	"github.com/kliniksehat/clinic-platform/internal/reservations"
	"github.com/kliniksehat/clinic-platform/internal/services"
	"github.com/kliniksehat/clinic-platform/pkg/logging"
)

func main() {
	// Load .env in local development; ignore when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise.
	pool, err := bootstrap.BuildPgxPool(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	var (
		reservationRepo reservations.Repository
		doctorRepo      doctors.Repository
		serviceRepo     services.Repository
	)
	if pool != nil {
		defer pool.Close()
		reservationRepo = reservations.NewPostgresRepository(pool)
		doctorRepo = doctors.NewPostgresRepository(pool)
		serviceRepo = services.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		reservationRepo = reservations.NewInMemoryRepository()
		doctorRepo = doctors.NewInMemoryRepository()
		serviceRepo = services.NewInMemoryRepository()
	}

	location, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Warn("invalid clinic timezone, falling back to UTC", "timezone", cfg.ClinicTimezone)
		location = time.UTC
	}

	queueMetrics := metrics.NewQueueMetrics(prometheus.DefaultRegisterer)

	// Queue engine
	generator := queue.NewTicketGenerator(reservationRepo, queueMetrics)
	board := queue.NewBoard(reservationRepo, doctorRepo, cfg.MinutesPerPatient, queueMetrics)
	stats := queue.NewStatsService(reservationRepo, doctorRepo, cfg.MinutesPerPatient)

	var boardComputer queue.BoardComputer = board
	var invalidator booking.BoardInvalidator
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		defer redisClient.Close()
		cached := queue.NewCachedBoard(board, redisClient, cfg.BoardCacheTTL, logger)
		boardComputer = cached
		invalidator = cached
		logger.Info("queue board cache enabled", "ttl", cfg.BoardCacheTTL.String())
	}

	// Notifications
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		logger.Warn("SENDGRID_API_KEY not set, confirmation emails disabled")
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(emailSender, logger)

	bookingService := booking.NewService(
		reservationRepo, doctorRepo, serviceRepo,
		generator, notifier, invalidator, logger,
	)

	routerCfg := &router.Config{
		Logger:             logger,
		BookingHandler:     booking.NewHandler(bookingService, logger),
		QueueHandler:       queue.NewHandler(boardComputer, stats, prometheus.DefaultGatherer, location, logger),
		DoctorsHandler:     doctors.NewHandler(doctorRepo, logger),
		ServicesHandler:    services.NewHandler(serviceRepo, logger),
		AdminReservations:  reservations.NewHandler(reservationRepo, invalidator, logger),
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BookingRateLimit:   cfg.BookingRateLimit,
		BookingBurst:       cfg.BookingRateBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
