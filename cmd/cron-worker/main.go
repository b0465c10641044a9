package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shoplux/shoplux-backend/internal/cart"
	"github.com/shoplux/shoplux-backend/internal/coupons"
	"github.com/shoplux/shoplux-backend/internal/cron"
	"github.com/shoplux/shoplux-backend/internal/notifications"
	"github.com/shoplux/shoplux-backend/internal/orders"
	"github.com/shoplux/shoplux-backend/internal/shipping"
	"github.com/shoplux/shoplux-backend/pkg/config"
	"github.com/shoplux/shoplux-backend/pkg/db"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/metrics"
	"github.com/shoplux/shoplux-backend/pkg/migrate"
	"github.com/shoplux/shoplux-backend/pkg/outbox"
	"github.com/shoplux/shoplux-backend/pkg/redis"
)

const lockKeyFormat = "slx:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry, err := buildRegistry(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build cron jobs", err)
		os.Exit(1)
	}
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

// buildRegistry wires the nightly jobs: the pending order sweep plus the
// notification and outbox retention prunes.
func buildRegistry(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*cron.Registry, error) {
	gdb := dbClient.DB()

	couponRepo := coupons.NewRepository(gdb)
	couponSvc, err := coupons.NewService(couponRepo)
	if err != nil {
		return nil, err
	}
	shippingSvc, err := shipping.NewService(shipping.NewRepository(gdb))
	if err != nil {
		return nil, err
	}
	ordersSvc, err := orders.NewService(
		orders.NewRepository(gdb),
		cart.NewRepository(gdb),
		couponSvc,
		couponRepo,
		shippingSvc,
		dbClient,
		outbox.NewService(outbox.NewRepository(gdb), logg),
		redisClient,
		orders.Limits{
			RateWindow:      cfg.OrderRateLimit.Window,
			RateAttempts:    cfg.OrderRateLimit.Attempts,
			TaxRatePercent:  cfg.Checkout.TaxRatePercent,
			PendingOrderTTL: cfg.Payments.PendingOrderTTL,
		},
	)
	if err != nil {
		return nil, err
	}

	expiryJob, err := cron.NewOrderExpiryJob(cron.OrderExpiryJobParams{
		Logger: logg,
		Orders: ordersSvc,
	})
	if err != nil {
		return nil, err
	}
	notificationJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: notifications.NewRepository(gdb),
	})
	if err != nil {
		return nil, err
	}
	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(gdb),
	})
	if err != nil {
		return nil, err
	}

	return cron.NewRegistry(expiryJob, notificationJob, retentionJob), nil
}
