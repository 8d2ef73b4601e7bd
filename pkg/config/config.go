package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "harland"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Tax          TaxConfig
	Distributor  DistributorConfig
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
	Env          string `envconfig:"HARLAND_APP_ENV" required:"true"`
	Port         string `envconfig:"HARLAND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HARLAND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HARLAND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HARLAND_DB_DSN"`
	Driver string `envconfig:"HARLAND_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"HARLAND_DB_HOST"`
	Port     int    `envconfig:"HARLAND_DB_PORT" default:"5432"`
	User     string `envconfig:"HARLAND_DB_USER"`
	Password string `envconfig:"HARLAND_DB_PASSWORD"`
	Name     string `envconfig:"HARLAND_DB_NAME"`
	SSLMode  string `envconfig:"HARLAND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HARLAND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HARLAND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HARLAND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HARLAND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from discrete parts when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name parts are required")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"HARLAND_REDIS_URL"`
	Address      string        `envconfig:"HARLAND_REDIS_ADDR"`
	Password     string        `envconfig:"HARLAND_REDIS_PASSWORD"`
	DB           int           `envconfig:"HARLAND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HARLAND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HARLAND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HARLAND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HARLAND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HARLAND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite       bool `envconfig:"HARLAND_USE_SQLITE" default:"false"`
	PersistQuotes   bool `envconfig:"HARLAND_PERSIST_QUOTES" default:"true"`
	SnapshotCaching bool `envconfig:"HARLAND_SNAPSHOT_CACHING" default:"true"`
}

type CatalogConfig struct {
	SnapshotTTL time.Duration `envconfig:"HARLAND_CATALOG_SNAPSHOT_TTL" default:"5m"`
}

type TaxConfig struct {
	DomesticRate string `envconfig:"HARLAND_TAX_DOMESTIC_RATE" default:"0.20"`
}

type DistributorConfig struct {
	FloorPct string `envconfig:"HARLAND_DISTRIBUTOR_FLOOR_PCT" default:"60"`
}
