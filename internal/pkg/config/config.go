package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, business limits, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Sweeper  SweeperConfig
	Gateway  GatewayConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// CheckoutConfig carries the business limits of the reservation flow.
type CheckoutConfig struct {
	HoldTTL            time.Duration `envconfig:"CHECKOUT_HOLD_TTL" default:"10m"`
	OrderTTL           time.Duration `envconfig:"CHECKOUT_ORDER_TTL" default:"15m"`
	MaxTicketsPerOrder int           `envconfig:"CHECKOUT_MAX_TICKETS_PER_ORDER" default:"5"`
}

type SweeperConfig struct {
	Interval time.Duration `envconfig:"SWEEPER_INTERVAL" default:"15s"`
}

type GatewayConfig struct {
	BaseURL      string        `envconfig:"GATEWAY_BASE_URL" required:"true"`
	ClientID     string        `envconfig:"GATEWAY_CLIENT_ID" required:"true"`
	ClientSecret string        `envconfig:"GATEWAY_CLIENT_SECRET" required:"true"`
	Timeout      time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
	IssuerURL    string        `envconfig:"TICKET_ISSUER_URL" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Checkout: CheckoutConfig{
			HoldTTL:            10 * time.Minute,
			OrderTTL:           15 * time.Minute,
			MaxTicketsPerOrder: 5,
		},
		Sweeper: SweeperConfig{
			Interval: time.Second,
		},
		Gateway: GatewayConfig{
			BaseURL:      "http://localhost:9999",
			ClientID:     "test",
			ClientSecret: "test",
			Timeout:      time.Second,
			IssuerURL:    "http://localhost:9998",
		},
	}
}
