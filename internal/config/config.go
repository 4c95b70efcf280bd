package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Checkout modes understood by the order workflow.
const (
	CheckoutSequential = "sequential"
	CheckoutAtomic     = "atomic"
)

type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	AppPort    string `envconfig:"APP_PORT" default:"5000"`
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
	JWTSecret  string `envconfig:"JWT_SECRET"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`

	// CheckoutMode selects between the legacy two-phase checkout and the
	// transactional one. Anything else falls back to sequential.
	CheckoutMode string `envconfig:"CHECKOUT_MODE" default:"sequential"`

	RateLimitPerSecond float64 `envconfig:"RATE_LIMIT_PER_SECOND" default:"10"`
	RateLimitBurst     int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// Load reads .env (if present) and decodes the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.CheckoutMode != CheckoutAtomic {
		cfg.CheckoutMode = CheckoutSequential
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
