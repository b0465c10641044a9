package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/api/routes"
	"github.com/shoplux/shoplux-backend/internal/address"
	"github.com/shoplux/shoplux-backend/internal/cart"
	"github.com/shoplux/shoplux-backend/internal/checkout"
	"github.com/shoplux/shoplux-backend/internal/coupons"
	"github.com/shoplux/shoplux-backend/internal/email"
	"github.com/shoplux/shoplux-backend/internal/notifications"
	"github.com/shoplux/shoplux-backend/internal/orders"
	"github.com/shoplux/shoplux-backend/internal/payments"
	product "github.com/shoplux/shoplux-backend/internal/products"
	"github.com/shoplux/shoplux-backend/internal/reviews"
	"github.com/shoplux/shoplux-backend/internal/shipping"
	"github.com/shoplux/shoplux-backend/internal/support"
	"github.com/shoplux/shoplux-backend/internal/wishlist"
	"github.com/shoplux/shoplux-backend/pkg/config"
	"github.com/shoplux/shoplux-backend/pkg/db"
	"github.com/shoplux/shoplux-backend/pkg/env"
	"github.com/shoplux/shoplux-backend/pkg/logger"
	"github.com/shoplux/shoplux-backend/pkg/metrics"
	"github.com/shoplux/shoplux-backend/pkg/migrate"
	"github.com/shoplux/shoplux-backend/pkg/outbox"
	"github.com/shoplux/shoplux-backend/pkg/redis"
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

	handler, err := buildRouter(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	id := env.Get("DYNO", "local")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildRouter constructs the service graph and hands it to the router.
func buildRouter(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (http.Handler, error) {
	gdb := dbClient.DB()

	productRepo := product.NewRepository(gdb)
	productSvc, err := product.NewService(productRepo)
	if err != nil {
		return nil, err
	}

	shippingSvc, err := shipping.NewService(shipping.NewRepository(gdb))
	if err != nil {
		return nil, err
	}

	couponRepo := coupons.NewRepository(gdb)
	couponSvc, err := coupons.NewService(couponRepo)
	if err != nil {
		return nil, err
	}

	cartRepo := cart.NewRepository(gdb)
	cartSvc, err := cart.NewService(cartRepo, dbClient, productRepo, couponSvc, cfg.Checkout.TaxRatePercent)
	if err != nil {
		return nil, err
	}

	outboxSvc := outbox.NewService(outbox.NewRepository(gdb), logg)
	ordersSvc, err := orders.NewService(
		orders.NewRepository(gdb),
		cartRepo,
		couponSvc,
		couponRepo,
		shippingSvc,
		dbClient,
		outboxSvc,
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

	dispatcher, err := buildPaymentDispatcher(cfg.Payments, logg)
	if err != nil {
		return nil, err
	}

	notificationsSvc, err := notifications.NewService(notifications.NewRepository(gdb))
	if err != nil {
		return nil, err
	}

	mailSvc, err := buildMailer(cfg.Email, gdb, logg)
	if err != nil {
		return nil, err
	}

	addressSvc, err := address.NewService(address.NewRepository(gdb), dbClient)
	if err != nil {
		return nil, err
	}

	sessions, err := checkout.NewSessionStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		return nil, err
	}
	checkoutSvc, err := checkout.NewService(
		sessions,
		ordersSvc,
		dispatcher,
		cartRepo,
		notificationsSvc,
		mailSvc,
		addressSvc,
		logg,
		metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		return nil, err
	}

	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(gdb),
		ProductRepo:  productRepo,
	})
	if err != nil {
		return nil, err
	}

	reviewsSvc, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo:  reviews.NewRepository(gdb),
		ProductRepo: productRepo,
	})
	if err != nil {
		return nil, err
	}

	supportSvc, err := support.NewService(support.NewRepository(gdb))
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		productSvc,
		shippingSvc,
		cartSvc,
		checkoutSvc,
		ordersSvc,
		addressSvc,
		notificationsSvc,
		wishlistSvc,
		reviewsSvc,
		supportSvc,
	), nil
}

// buildPaymentDispatcher registers cash on delivery unconditionally and the
// mobile money strategies only when their gateway credentials are present.
func buildPaymentDispatcher(cfg config.PaymentsConfig, logg *logger.Logger) (*payments.Dispatcher, error) {
	strategies := []payments.Strategy{payments.NewCashOnDeliveryStrategy()}

	if cfg.WaveAPIURL != "" && cfg.WaveAPIKey != "" {
		gateway, err := payments.NewHTTPGateway(cfg.WaveAPIURL, cfg.WaveAPIKey, cfg.GatewayTimeout, logg)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, payments.NewWaveStrategy(gateway, logg))
	} else {
		logg.Warn(context.Background(), "wave gateway not configured, wave payments disabled")
	}

	if cfg.OrangeMoneyURL != "" && cfg.OrangeMoneyKey != "" {
		gateway, err := payments.NewHTTPGateway(cfg.OrangeMoneyURL, cfg.OrangeMoneyKey, cfg.GatewayTimeout, logg)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, payments.NewOrangeMoneyStrategy(gateway, logg))
	} else {
		logg.Warn(context.Background(), "orange money gateway not configured, orange money payments disabled")
	}

	return payments.NewDispatcher(strategies...)
}

func buildMailer(cfg config.EmailConfig, gdb *gorm.DB, logg *logger.Logger) (email.Service, error) {
	var sender email.Sender
	if cfg.SendgridAPIKey != "" {
		s, err := email.NewSendgridSender(cfg.SendgridAPIKey, 0)
		if err != nil {
			return nil, err
		}
		sender = s
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, order mail will be logged only")
		sender = email.NewLogSender(logg)
	}
	return email.NewService(email.NewRepository(gdb), sender, cfg.DefaultFrom, logg)
}
