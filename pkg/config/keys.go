package config

// EnvPrefix is the envconfig prefix; individual fields carry fully
// qualified names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "SHOPLUX_APP_ENV"
	EnvPort     = "SHOPLUX_APP_PORT"
	EnvDBDSN    = "SHOPLUX_DB_DSN"
	EnvDBHost   = "SHOPLUX_DB_HOST"
	EnvDBUser   = "SHOPLUX_DB_USER"
	EnvDBName   = "SHOPLUX_DB_NAME"
	EnvRedisURL = "SHOPLUX_REDIS_URL"

	EnvJWTSecret  = "SHOPLUX_JWT_SECRET"
	EnvJWTIssuer  = "SHOPLUX_JWT_ISSUER"
	EnvJWTExpMins = "SHOPLUX_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
