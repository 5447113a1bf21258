package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the service configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	AWS         AWSConfig         `mapstructure:"aws"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Events      EventsConfig      `mapstructure:"events"`
	Clients     ClientsConfig     `mapstructure:"clients"`
	Pedidos     PedidosConfig     `mapstructure:"pedidos"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, staging, production
}

// Server modes
const (
	ModeLocal  = "local"
	ModeLambda = "lambda"
)

type ServerConfig struct {
	Mode            string          `mapstructure:"mode"`
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`  // requests per second per client IP
	Burst   int     `mapstructure:"burst"` // burst capacity
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

type AWSConfig struct {
	Region           string `mapstructure:"region"`
	EndpointOverride string `mapstructure:"endpoint_override"` // e.g. http://localhost:4566
}

// Storage drivers
const (
	DriverDynamoDB = "dynamodb"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type StorageConfig struct {
	Driver    string      `mapstructure:"driver"`
	Table     string      `mapstructure:"table"`
	ScanLimit int32       `mapstructure:"scan_limit"`
	Mongo     MongoConfig `mapstructure:"mongo"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Table   string        `mapstructure:"table"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type EventsConfig struct {
	QueueURL string `mapstructure:"queue_url"` // empty disables publishing
}

type ClientsConfig struct {
	Users    UpstreamConfig `mapstructure:"users"`
	Products UpstreamConfig `mapstructure:"products"`
}

type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PedidosConfig struct {
	EmployeeFromOrderUser bool          `mapstructure:"employee_from_order_user"`
	MaxParallelLookups    int           `mapstructure:"max_parallel_lookups"`
	TaxRate               TaxRateConfig `mapstructure:"tax_rate"`
	Page                  PageConfig    `mapstructure:"page"`
}

type TaxRateConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

type PageConfig struct {
	DefaultSize int `mapstructure:"default_size"`
	MaxSize     int `mapstructure:"max_size"`
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// NeedsAWS reports whether any configured component talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.Storage.Driver == DriverDynamoDB || c.Idempotency.Enabled || c.Events.QueueURL != ""
}

// Load reads configuration from defaults, an optional YAML file and
// PEDIDOS_* environment variables, in increasing priority.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PEDIDOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ModeLocal, ModeLambda:
	default:
		return fmt.Errorf("config: unknown server.mode %q", c.Server.Mode)
	}
	switch c.Storage.Driver {
	case DriverDynamoDB:
		if c.Storage.Table == "" {
			return errors.New("config: storage.table is required for the dynamodb driver")
		}
	case DriverMongo:
		if c.Storage.Mongo.URI == "" {
			return errors.New("config: storage.mongo.uri is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Idempotency.Enabled && c.Idempotency.Table == "" {
		return errors.New("config: idempotency.table is required when idempotency is enabled")
	}
	if c.Pedidos.TaxRate.Min > c.Pedidos.TaxRate.Max {
		return fmt.Errorf("config: pedidos.tax_rate.min %v exceeds max %v", c.Pedidos.TaxRate.Min, c.Pedidos.TaxRate.Max)
	}
	p := c.Pedidos.Page
	if p.DefaultSize <= 0 || p.MaxSize < p.DefaultSize {
		return fmt.Errorf("config: invalid page sizes default=%d max=%d", p.DefaultSize, p.MaxSize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "pedidos")
	v.SetDefault("app.env", "development")

	// Server
	v.SetDefault("server.mode", ModeLocal)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.rate", 50)
	v.SetDefault("server.rate_limit.burst", 100)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// AWS
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.endpoint_override", "")

	// Storage
	v.SetDefault("storage.driver", DriverDynamoDB)
	v.SetDefault("storage.table", "pedidos")
	v.SetDefault("storage.scan_limit", 100)
	v.SetDefault("storage.mongo.uri", "")
	v.SetDefault("storage.mongo.database", "pedidos")
	v.SetDefault("storage.mongo.collection", "pedidos")

	// Idempotency
	v.SetDefault("idempotency.enabled", false)
	v.SetDefault("idempotency.table", "pedidos-idempotency")
	v.SetDefault("idempotency.ttl", "48h")

	// Events
	v.SetDefault("events.queue_url", "")

	// Upstream services
	v.SetDefault("clients.users.base_url", "http://localhost:8081")
	v.SetDefault("clients.users.token", "")
	v.SetDefault("clients.users.timeout", "5s")
	v.SetDefault("clients.products.base_url", "http://localhost:8082")
	v.SetDefault("clients.products.token", "")
	v.SetDefault("clients.products.timeout", "5s")

	// Pedidos
	v.SetDefault("pedidos.employee_from_order_user", false)
	v.SetDefault("pedidos.max_parallel_lookups", 8)
	v.SetDefault("pedidos.tax_rate.min", 0.0)
	v.SetDefault("pedidos.tax_rate.max", 1.0)
	v.SetDefault("pedidos.page.default_size", 20)
	v.SetDefault("pedidos.page.max_size", 100)
}
