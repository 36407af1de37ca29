package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "BORROWBOX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "BORROWBOX_APP_ENV"
	EnvPort     = "BORROWBOX_APP_PORT"
	EnvRedisURL = "BORROWBOX_REDIS_URL"
	EnvDBDSN    = "BORROWBOX_DB_DSN"
	EnvDBHost   = "BORROWBOX_DB_HOST"
	EnvDBUser   = "BORROWBOX_DB_USER"
	EnvDBName   = "BORROWBOX_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
