package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
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
	Env          string `envconfig:"BORROWBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"BORROWBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BORROWBOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BORROWBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BORROWBOX_DB_DSN"`
	Driver string `envconfig:"BORROWBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BORROWBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"BORROWBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BORROWBOX_DB_USER"`
	LegacyPassword string `envconfig:"BORROWBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"BORROWBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"BORROWBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BORROWBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BORROWBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BORROWBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BORROWBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BORROWBOX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BORROWBOX_REDIS_ADDR"`
	Password     string        `envconfig:"BORROWBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"BORROWBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BORROWBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BORROWBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BORROWBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BORROWBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BORROWBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BORROWBOX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BORROWBOX_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BORROWBOX_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BORROWBOX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BORROWBOX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"BORROWBOX_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"BORROWBOX_MAX_UPLOAD_MB" default:"25"`
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
