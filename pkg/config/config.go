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
	JWT          JWTConfig
	POS          POSConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"FARMAPUNTO_APP_ENV" required:"true"`
	Port         string `envconfig:"FARMAPUNTO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARMAPUNTO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FARMAPUNTO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FARMAPUNTO_DB_DSN"`
	Driver string `envconfig:"FARMAPUNTO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FARMAPUNTO_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMAPUNTO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMAPUNTO_DB_USER"`
	LegacyPassword string `envconfig:"FARMAPUNTO_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMAPUNTO_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMAPUNTO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMAPUNTO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMAPUNTO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMAPUNTO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMAPUNTO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMAPUNTO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMAPUNTO_REDIS_ADDR"`
	Password     string        `envconfig:"FARMAPUNTO_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMAPUNTO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMAPUNTO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMAPUNTO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMAPUNTO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMAPUNTO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMAPUNTO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FARMAPUNTO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FARMAPUNTO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FARMAPUNTO_JWT_EXPIRATION_MINUTES" required:"true"`
}

// POSConfig tunes the point-of-sale session layer.
type POSConfig struct {
	SessionTTL        time.Duration `envconfig:"FARMAPUNTO_POS_SESSION_TTL" default:"12h"`
	IdempotencyTTL    time.Duration `envconfig:"FARMAPUNTO_POS_IDEMPOTENCY_TTL" default:"24h"`
	DefaultBranchID   string        `envconfig:"FARMAPUNTO_POS_DEFAULT_BRANCH_ID"`
	CurrencyCode      string        `envconfig:"FARMAPUNTO_POS_CURRENCY" default:"MXN"`
	HeldSaleRetention time.Duration `envconfig:"FARMAPUNTO_POS_HELD_SALE_RETENTION" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FARMAPUNTO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FARMAPUNTO_AUTO_MIGRATE" default:"false"`
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
