package app

import (
	"io/fs"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"

	"github.com/xenking/order-processor/internal/domain/order"
)

const defaultAddr = "0.0.0.0:8080"

// Store drivers.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Notify drivers.
const (
	NotifyConsole = "console"
	NotifyKafka   = "kafka"
)

// Config holds the complete application configuration, loadable from
// environment variables (ORDERS_ prefix), a .env file, flags, or YAML config
// files.
type Config struct {
	Addr               string `default:"0.0.0.0:8080" usage:"API server listen address"`
	StrictCustomerType bool   `default:"false" usage:"Reject unknown customer types instead of applying no discount" flag:"strict-customer-type"`
	Store              StoreConfig
	Log                LogConfig
	Notify             NotifyConfig
	RateLimit          RateLimitConfig
	Graceful           GracefulConfig
}

// StoreConfig selects and configures the order store.
type StoreConfig struct {
	Driver      string `default:"file" usage:"Order store: file, memory, postgres or redis"`
	Path        string `default:"orders.json" usage:"Store file path for the file driver; .gz enables compression"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ORDERS_STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisAddr   string `usage:"Redis host:port or redis:// URL (ORDERS_STORE_REDIS_ADDR, REDIS_URL or REDIS_ADDR)" flag:"redis-addr"`
	RedisKey    string `default:"orders" usage:"Redis list key"`
}

// LogConfig controls the processing log.
type LogConfig struct {
	Path       string `default:"log.txt" usage:"Processing log file path"`
	TimeLayout string `usage:"Go time layout of processing log timestamps"`
}

// NotifyConfig selects how customers are notified.
type NotifyConfig struct {
	Driver       string   `default:"console" usage:"Notifier: console or kafka"`
	KafkaBrokers []string `usage:"Kafka bootstrap brokers" flag:"kafka-brokers"`
	KafkaTopic   string   `default:"order.processed" usage:"Kafka topic for OrderProcessed events"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// command-line flags and the default YAML config files, and applies
// platform-specific defaults.
func LoadConfig() (*Config, error) {
	return load(aconfig.Config{
		Files: []string{"config.yaml", "/etc/orders/config.yaml"},
	})
}

// LoadConfigFile is like LoadConfig but skips flag parsing, leaving the
// command line to the caller. A non-empty path replaces the default config
// files and must exist.
func LoadConfigFile(path string) (*Config, error) {
	cfg := aconfig.Config{
		SkipFlags: true,
		Files:     []string{"config.yaml", "/etc/orders/config.yaml"},
	}
	if path != "" {
		cfg.Files = []string{path}
		cfg.FailOnFileNotFound = true
	}
	return load(cfg)
}

func load(acfg aconfig.Config) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	acfg.EnvPrefix = "ORDERS"
	acfg.FileDecoders = map[string]aconfig.FileDecoder{
		".yaml": aconfigyaml.New(),
		".yml":  aconfigyaml.New(),
	}

	var cfg Config
	if err := aconfig.LoaderFor(&cfg, acfg).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreFile:
		if c.Store.Path == "" {
			return errors.New("store path is required for the file driver")
		}
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("database URL is required: set ORDERS_STORE_DATABASE_URL or DATABASE_URL")
		}
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("redis address is required: set ORDERS_STORE_REDIS_ADDR or REDIS_URL")
		}
	default:
		return errors.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Notify.Driver {
	case NotifyConsole:
	case NotifyKafka:
		if len(c.Notify.KafkaBrokers) == 0 {
			return errors.New("kafka brokers are required for the kafka notifier")
		}
		if c.Notify.KafkaTopic == "" {
			return errors.New("kafka topic is required for the kafka notifier")
		}
	default:
		return errors.Errorf("unknown notify driver %q", c.Notify.Driver)
	}

	if c.Log.Path == "" {
		return errors.New("log path is required")
	}
	return nil
}

// TimeLayout returns the configured processing log layout or the default.
func (c *Config) TimeLayout() string {
	if c.Log.TimeLayout == "" {
		return order.DefaultTimeLayout
	}
	return c.Log.TimeLayout
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's ORDERS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Store.DatabaseURL == "" {
		c.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Store.RedisAddr == "" {
		for _, key := range []string{"REDIS_URL", "REDIS_ADDR"} {
			if v := os.Getenv(key); v != "" {
				c.Store.RedisAddr = v
				break
			}
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
