package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the pricing API configuration, loadable from environment
// variables (PETRO_ prefix), flags, or YAML config files.
type Config struct {
	Addr             string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL      string `usage:"PostgreSQL connection URL; customers go to a flat file when empty" flag:"database-url"`
	CustomersFile    string `default:"clientes.txt" usage:"Customer registry file used without a database" flag:"customers-file"`
	NotifyFrom       string `default:"noreply@petrobahia.com.br" usage:"Sender of welcome notifications" flag:"notify-from"`
	BatchConcurrency int    `default:"8" usage:"Orders priced in parallel per batch request" flag:"batch-concurrency"`
	RateLimit        RateLimitConfig
	CORS             CORSConfig
	Graceful         GracefulConfig
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	Rate  float64 `default:"10" usage:"Requests per second per client"`
	Burst int     `default:"20" usage:"Burst size per client"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PETRO",
		SkipFlags: true,
		Files:     []string{"config.yaml", "/etc/petrobahia/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.BatchConcurrency < 1 {
		return errors.Errorf("batch concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if c.RateLimit.Rate <= 0 || c.RateLimit.Burst < 1 {
		return errors.Errorf("invalid rate limit %v/%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	if c.DatabaseURL == "" && c.CustomersFile == "" {
		return errors.New("either a database URL or a customers file is required")
	}
	return nil
}

// applyPlatformDefaults maps DATABASE_URL and PORT, as set by hosting
// platforms, onto the PETRO_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
