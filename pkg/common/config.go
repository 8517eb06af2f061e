package common

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DBTypeFile     string = "file"
	DBTypeMemory   string = "memory"
	DBTypePostgres string = "postgres"
)

// Config is the process configuration, read from the environment after .env is loaded.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	DBType      string `env:"GLUCOVA_DB_TYPE" envDefault:"file"`
	DBPath      string `env:"GLUCOVA_DB_PATH" envDefault:"glucova.db"`
	PostgresDSN string `env:"GLUCOVA_POSTGRES_DSN"`

	HttpHostPort string   `env:"GLUCOVA_HTTP_HOST_PORT" envDefault:":8000"`
	GrpcHostPort string   `env:"GLUCOVA_GRPC_HOST_PORT"`
	CORSOrigins  []string `env:"GLUCOVA_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	JWTSecret    string        `env:"GLUCOVA_JWT_SECRET,required,notEmpty"`
	TokenTTL     time.Duration `env:"GLUCOVA_TOKEN_TTL" envDefault:"30m"`
	PasswordCost int           `env:"GLUCOVA_PASSWORD_COST" envDefault:"10"`

	AlertRate   float64 `env:"GLUCOVA_ALERT_RATE" envDefault:"1"`
	AlertBurst  int     `env:"GLUCOVA_ALERT_BURST" envDefault:"5"`
	MaxPageSize int     `env:"GLUCOVA_MAX_PAGE_SIZE" envDefault:"1000"`

	LogDir string `env:"GLUCOVA_LOG_DIR" envDefault:"logs"`
}

func LoadConfig() (*Config, error) {
	return loadConfig(env.Options{})
}

// LoadConfigFrom parses config from the given variables only, ignoring the process environment.
func LoadConfigFrom(vars map[string]string) (*Config, error) {
	return loadConfig(env.Options{Environment: vars})
}

func loadConfig(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case DBTypeFile, DBTypeMemory:
	case DBTypePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("GLUCOVA_POSTGRES_DSN is required when GLUCOVA_DB_TYPE=postgres")
		}
	default:
		return fmt.Errorf("unknown GLUCOVA_DB_TYPE %q, should be one of: file, memory, postgres", c.DBType)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("GLUCOVA_TOKEN_TTL must be positive, got %v", c.TokenTTL)
	}
	// bcrypt accepts costs in [4, 31]
	if c.PasswordCost < 4 || c.PasswordCost > 31 {
		return fmt.Errorf("GLUCOVA_PASSWORD_COST must be between 4 and 31, got %d", c.PasswordCost)
	}
	if c.AlertRate < 0 || c.AlertBurst < 0 {
		return fmt.Errorf("GLUCOVA_ALERT_RATE and GLUCOVA_ALERT_BURST can not be negative")
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("GLUCOVA_MAX_PAGE_SIZE must be positive, got %d", c.MaxPageSize)
	}
	return nil
}

func (c *Config) LogOptions() LogOptions {
	opts := DefaultLogOptions()
	if c.LogDir != "" {
		opts.Dir = c.LogDir
	}
	return opts
}
