package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirayahq/kiraya-backend/api/routes"
	"github.com/kirayahq/kiraya-backend/internal/notifications"
	"github.com/kirayahq/kiraya-backend/internal/payments"
	"github.com/kirayahq/kiraya-backend/internal/properties"
	"github.com/kirayahq/kiraya-backend/internal/referrals"
	"github.com/kirayahq/kiraya-backend/internal/refunds"
	"github.com/kirayahq/kiraya-backend/internal/reservations"
	"github.com/kirayahq/kiraya-backend/internal/users"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db"
	"github.com/kirayahq/kiraya-backend/pkg/logger"
	"github.com/kirayahq/kiraya-backend/pkg/metrics"
	"github.com/kirayahq/kiraya-backend/pkg/migrate"
	"github.com/kirayahq/kiraya-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	lifecycleMetrics := metrics.NewLifecycleMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	propertiesRepo := properties.NewRepository(dbClient.DB())
	reservationsRepo := reservations.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	refundsRepo := refunds.NewRepository(dbClient.DB())
	referralsRepo := referrals.NewRepository(dbClient.DB())

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	referralsSvc, err := referrals.NewService(referralsRepo, usersRepo, dbClient, cfg.Referrals)
	if err != nil {
		logg.Error(context.Background(), "failed to create referrals service", err)
		os.Exit(1)
	}

	reservationsSvc, err := reservations.NewService(
		reservationsRepo,
		propertiesRepo,
		usersRepo,
		refundsRepo,
		referralsSvc,
		dbClient,
		notificationsSvc,
		lifecycleMetrics,
		cfg.Reservations,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservations service", err)
		os.Exit(1)
	}

	paymentsSvc, err := payments.NewService(
		paymentsRepo,
		reservationsRepo,
		propertiesRepo,
		referralsSvc,
		dbClient,
		notificationsSvc,
		lifecycleMetrics,
		cfg.Payouts,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	refundsSvc, err := refunds.NewService(
		refundsRepo,
		reservationsRepo,
		propertiesRepo,
		dbClient,
		notificationsSvc,
		lifecycleMetrics,
		cfg.Reservations,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create refunds service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Registry:      registry,
			Reservations:  reservationsSvc,
			Payments:      paymentsSvc,
			Refunds:       refundsSvc,
			Referrals:     referralsSvc,
			Notifications: notificationsSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
