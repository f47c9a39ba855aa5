package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	URL            string `env:"DATABASE_URL"`
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           string `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"platform_sport"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
}

type RedisConfig struct {
	URL              string        `env:"REDIS_URL"`
	Host             string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port             string        `env:"REDIS_PORT" envDefault:"6379"`
	Password         string        `env:"REDIS_PASSWORD"`
	DB               int           `env:"REDIS_DB" envDefault:"0"`
	CapacityCacheTTL time.Duration `env:"REDIS_CAPACITY_CACHE_TTL" envDefault:"30s"`
}

// AuthConfig holds the identity and /metrics credentials.
// An empty JWTSecret means identity is read from X-User-ID / X-User-Role headers.
type AuthConfig struct {
	JWTSecret       string `env:"AUTH_JWT_SECRET"`
	JWTIssuer       string `env:"AUTH_JWT_ISSUER"`
	MetricsUser     string `env:"METRICS_USER"`
	MetricsPassword string `env:"METRICS_PASSWORD"`
}

// WorkerConfig configures background jobs. A zero interval disables the job.
type WorkerConfig struct {
	CompletionInterval time.Duration `env:"WORKER_COMPLETION_INTERVAL" envDefault:"0s"`
	LockTTL            time.Duration `env:"WORKER_LOCK_TTL" envDefault:"30s"`
}

type LogConfig struct {
	Env   string `env:"APP_ENV" envDefault:"development"`
	Level string `env:"LOG_LEVEL"`
}

// Load reads the configuration from the environment.
// DATABASE_URL and REDIS_URL take precedence over the discrete fields.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Database.applyURL()
	cfg.Redis.applyURL()
	return cfg, nil
}

// applyURL overrides the discrete fields with DATABASE_URL.
// An unparsable URL leaves them untouched.
func (c *DatabaseConfig) applyURL() {
	if c.URL == "" {
		return
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if port := u.Port(); port != "" {
		c.Port = port
	}
	if u.User != nil {
		c.User = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			c.Password = pass
		}
	}
	if name := trimSlash(u.Path); name != "" {
		c.DBName = name
	}
	// hosted databases expect TLS unless told otherwise
	c.SSLMode = "require"
	if mode := u.Query().Get("sslmode"); mode != "" {
		c.SSLMode = mode
	}
}

func (c *RedisConfig) applyURL() {
	if c.URL == "" {
		return
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return
	}
	c.Host = u.Hostname()
	if port := u.Port(); port != "" {
		c.Port = port
	}
	if u.User != nil {
		if pass, ok := u.User.Password(); ok {
			c.Password = pass
		}
	}
}

func trimSlash(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr returns the Redis address.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// JWTEnabled reports whether bearer tokens are verified.
func (c *AuthConfig) JWTEnabled() bool {
	return c.JWTSecret != ""
}

// MetricsAuthEnabled reports whether /metrics requires basic auth.
func (c *AuthConfig) MetricsAuthEnabled() bool {
	return c.MetricsUser != "" && c.MetricsPassword != ""
}
