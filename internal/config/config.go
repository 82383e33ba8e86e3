// Package config loads runtime settings and owns the database plumbing.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinJWTSecretLength is the shortest accepted HS256 signing key, in bytes.
const MinJWTSecretLength = 32

// Config holds runtime configuration for the todo API.
type Config struct {
	Env        string `env:"APP_ENV,default=development"`
	ServerAddr string `env:"SERVER_ADDR,default=:8080"`

	AppDatabaseURL      string        `env:"APP_DATABASE_URL,required"`
	IdentityDatabaseURL string        `env:"IDENTITY_DATABASE_URL,required"`
	DBMaxRetries        int           `env:"DB_MAX_RETRIES,default=5"`
	DBRetryInterval     time.Duration `env:"DB_RETRY_INTERVAL,default=5s"`

	JWTSecretKey  string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer     string        `env:"JWT_ISSUER,default=todo-api"`
	JWTAudience   string        `env:"JWT_AUDIENCE,default=todo-api-clients"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION,default=3h"`

	SeedPassword string `env:"SEED_PASSWORD"`

	LogLevel           string        `env:"LOG_LEVEL,default=info"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE,default=300"`
	AllowedOrigins     []string      `env:"CORS_ALLOWED_ORIGINS,default=*"`
	OTLPEndpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit variable source.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks constraints envconfig tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.AppDatabaseURL == "" || c.IdentityDatabaseURL == "" {
		errs = append(errs, errors.New("APP_DATABASE_URL and IDENTITY_DATABASE_URL must not be empty"))
	}
	if len(c.JWTSecretKey) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", MinJWTSecretLength))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.DBMaxRetries < 1 {
		errs = append(errs, errors.New("DB_MAX_RETRIES must be at least 1"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	return errors.Join(errs...)
}

// Development reports whether APP_ENV selects the development environment.
func (c Config) Development() bool {
	return c.Env == "development"
}

// SeedAccounts reports whether the default User and Admin accounts may be created.
func (c Config) SeedAccounts() bool {
	return c.Development() || c.SeedPassword != ""
}
