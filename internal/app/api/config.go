package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	ordersapp "github.com/Apurer/boutique-orders/internal/domains/orders/application"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDocument = "document"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string        `envconfig:"PORT" default:"3000"`
	Environment       string        `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	AdminPassword     string        `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	AdminTokenTTL     time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"0"`
	SecureCookies     bool          `envconfig:"SECURE_COOKIES" default:"false"`
	TokenPurgeEvery   time.Duration `envconfig:"TOKEN_PURGE_INTERVAL" default:"10m"`
	StorageDriver     string        `envconfig:"STORAGE_DRIVER" default:"document"`
	DataFile          string        `envconfig:"DATA_FILE" default:"data/orders.json"`
	SQLitePath        string        `envconfig:"SQLITE_PATH" default:"data/orders.db"`
	PostgresDSN       string        `envconfig:"POSTGRES_DSN"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1h"`
	RateLimitMax      int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	ReadFailurePolicy string        `envconfig:"READ_FAILURE_POLICY" default:"empty"`
	TemporalAddress   string        `envconfig:"TEMPORAL_ADDRESS" default:"localhost:7233"`
	TemporalNamespace string        `envconfig:"TEMPORAL_NAMESPACE" default:"default"`
	TemporalDisabled  bool          `envconfig:"TEMPORAL_DISABLED" default:"false"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case StorageDocument, StorageMemory, StorageSQLite:
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of document, memory, postgres, sqlite; got %q", c.StorageDriver))
	}
	if c.StorageDriver == StorageDocument && strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("DATA_FILE must not be empty"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}
	if c.AdminTokenTTL < 0 {
		errs = append(errs, errors.New("ADMIN_TOKEN_TTL must not be negative"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if _, err := ordersapp.ParseReadFailurePolicy(c.ReadFailurePolicy); err != nil {
		errs = append(errs, fmt.Errorf("READ_FAILURE_POLICY: %w", err))
	}
	return errors.Join(errs...)
}

// DurableWorkflows reports whether order placement may run on the Temporal
// worker. The worker is a separate process, so it needs a store both processes
// share; the document and memory stores are guarded by an in-process lock only
// and always persist inline.
func (c Config) DurableWorkflows() bool {
	if c.TemporalDisabled {
		return false
	}
	return c.StorageDriver == StoragePostgres || c.StorageDriver == StorageSQLite
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
