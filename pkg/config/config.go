package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig
	Service        ServiceConfig
	DB             DBConfig
	Redis          RedisConfig
	JWT            JWTConfig
	OrderRateLimit OrderRateLimitConfig
	Checkout       CheckoutConfig
	Payments       PaymentsConfig
	Email          EmailConfig
	FeatureFlags   FeatureFlagsConfig
	GCP            GCPConfig
	PubSub         PubSubConfig
	Outbox         OutboxConfig
	Cron           CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPLUX_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPLUX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPLUX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPLUX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPLUX_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPLUX_DB_DSN"`
	Driver string `envconfig:"SHOPLUX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPLUX_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPLUX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPLUX_DB_USER"`
	LegacyPassword string `envconfig:"SHOPLUX_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPLUX_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPLUX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPLUX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPLUX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPLUX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPLUX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPLUX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPLUX_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPLUX_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPLUX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPLUX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPLUX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPLUX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPLUX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPLUX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPLUX_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPLUX_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPLUX_JWT_EXPIRATION_MINUTES" default:"60"`
}

// OrderRateLimitConfig throttles order creation attempts per user.
type OrderRateLimitConfig struct {
	Window   time.Duration `envconfig:"SHOPLUX_ORDER_RATE_LIMIT_WINDOW" default:"1m"`
	Attempts int           `envconfig:"SHOPLUX_ORDER_RATE_LIMIT_ATTEMPTS" default:"5"`
}

type CheckoutConfig struct {
	TaxRatePercent int           `envconfig:"SHOPLUX_CHECKOUT_TAX_RATE_PERCENT" default:"20"`
	SessionTTL     time.Duration `envconfig:"SHOPLUX_CHECKOUT_SESSION_TTL" default:"2h"`
	DefaultCountry string        `envconfig:"SHOPLUX_CHECKOUT_DEFAULT_COUNTRY" default:"SN"`
}

type PaymentsConfig struct {
	Currency        string        `envconfig:"SHOPLUX_PAYMENTS_CURRENCY" default:"XOF"`
	WaveAPIURL      string        `envconfig:"SHOPLUX_PAYMENTS_WAVE_API_URL"`
	WaveAPIKey      string        `envconfig:"SHOPLUX_PAYMENTS_WAVE_API_KEY"`
	OrangeMoneyURL  string        `envconfig:"SHOPLUX_PAYMENTS_ORANGE_MONEY_API_URL"`
	OrangeMoneyKey  string        `envconfig:"SHOPLUX_PAYMENTS_ORANGE_MONEY_API_KEY"`
	GatewayTimeout  time.Duration `envconfig:"SHOPLUX_PAYMENTS_GATEWAY_TIMEOUT" default:"15s"`
	PendingOrderTTL time.Duration `envconfig:"SHOPLUX_PAYMENTS_PENDING_ORDER_TTL" default:"48h"`
}

type EmailConfig struct {
	SendgridAPIKey string `envconfig:"SHOPLUX_SENDGRID_API_KEY"`
	DefaultFrom    string `envconfig:"SHOPLUX_EMAIL_FROM" default:"orders@shoplux.sn"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPLUX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPLUX_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPLUX_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHOPLUX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPLUX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"SHOPLUX_PUBSUB_ORDERS_TOPIC" default:"slx-order-events"`
	OrdersSubscription string `envconfig:"SHOPLUX_PUBSUB_ORDERS_SUBSCRIPTION"`
	NotificationTopic  string `envconfig:"SHOPLUX_PUBSUB_NOTIFICATION_TOPIC" default:"slx-notification-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SHOPLUX_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SHOPLUX_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SHOPLUX_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SHOPLUX_CRON_INTERVAL" default:"1h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
