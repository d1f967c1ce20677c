package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Cache      CacheConfig
	Pagination PaginationConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
	SelfHosted bool `env:"BILEMO_SELF_HOSTED, default=false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `env:"BILEMO_DB_HOST,      default=localhost"`
	Port     int    `env:"BILEMO_DB_PORT,      default=5432"`
	User     string `env:"BILEMO_DB_USER,      default=bilemo"`
	Password string `env:"BILEMO_DB_PASSWORD"` //nolint:gosec // G117: DB connection config
	DBName   string `env:"BILEMO_DB_NAME,      default=bilemo_dev"`
	SSLMode  string `env:"BILEMO_DB_SSLMODE,   default=disable"`
	MaxConns int    `env:"BILEMO_DB_MAX_CONNS, default=25"`
}

// RedisConfig holds Redis connection settings. An empty Addr disables the
// cross-replica cache invalidation bus.
type RedisConfig struct {
	Addr     string `env:"BILEMO_REDIS_ADDR"`
	Password string `env:"BILEMO_REDIS_PASSWORD"` //nolint:gosec // G117: Redis connection config
	DB       int    `env:"BILEMO_REDIS_DB, default=0"`
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret    string        `env:"BILEMO_JWT_SECRET"` //nolint:gosec // G117: JWT signing secret config
	AccessTTL time.Duration `env:"BILEMO_JWT_ACCESS_TTL, default=1h"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `env:"BILEMO_SERVER_ADDR,          default=:8080"`
	ReadTimeout  time.Duration `env:"BILEMO_SERVER_READ_TIMEOUT,  default=10s"`
	WriteTimeout time.Duration `env:"BILEMO_SERVER_WRITE_TIMEOUT, default=30s"`
	CORSOrigins  []string      `env:"BILEMO_CORS_ORIGINS,         default=http://localhost:3000"`
	RateLimitRPS float64       `env:"BILEMO_RATE_LIMIT_RPS,       default=20"`
	RateBurst    int           `env:"BILEMO_RATE_LIMIT_BURST,     default=40"`
}

// CacheConfig sizes the in-process response cache.
type CacheConfig struct {
	Capacity        int           `env:"BILEMO_CACHE_CAPACITY,         default=10000"`
	Shards          int           `env:"BILEMO_CACHE_SHARDS,           default=10"`
	TTL             time.Duration `env:"BILEMO_CACHE_TTL,              default=24h"`
	EvictionPercent int           `env:"BILEMO_CACHE_EVICTION_PERCENT, default=10"`
}

// PaginationConfig bounds list requests.
type PaginationConfig struct {
	MaxLimit int `env:"BILEMO_PAGINATION_MAX_LIMIT, default=100"`
}

// TelemetryConfig configures OpenTelemetry export. Tracing is off when
// Endpoint is empty.
type TelemetryConfig struct {
	Endpoint    string `env:"BILEMO_OTEL_ENDPOINT"`
	Insecure    bool   `env:"BILEMO_OTEL_INSECURE, default=true"`
	ServiceName string `env:"BILEMO_OTEL_SERVICE_NAME, default=bilemo"`
}

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level  string `env:"BILEMO_LOG_LEVEL,  default=info"`
	Format string `env:"BILEMO_LOG_FORMAT, default=json"`
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load(ctx context.Context) (*Config, error) {
	return loadFrom(ctx, envconfig.OsLookuper())
}

func loadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return &cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("BILEMO_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("BILEMO_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("BILEMO_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("BILEMO_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("BILEMO_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("BILEMO_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("BILEMO_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("BILEMO_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateBurst < 1 {
		return fmt.Errorf("BILEMO_RATE_LIMIT_RPS and BILEMO_RATE_LIMIT_BURST must be positive, got %g/%d",
			c.Server.RateLimitRPS, c.Server.RateBurst)
	}
	if c.Cache.Capacity < 1 || c.Cache.Shards < 1 {
		return fmt.Errorf("BILEMO_CACHE_CAPACITY and BILEMO_CACHE_SHARDS must be >= 1, got %d/%d",
			c.Cache.Capacity, c.Cache.Shards)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("BILEMO_CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.EvictionPercent < 0 || c.Cache.EvictionPercent > 100 {
		return fmt.Errorf("BILEMO_CACHE_EVICTION_PERCENT must be 0-100, got %d", c.Cache.EvictionPercent)
	}
	if c.Pagination.MaxLimit < 1 {
		return fmt.Errorf("BILEMO_PAGINATION_MAX_LIMIT must be >= 1, got %d", c.Pagination.MaxLimit)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
