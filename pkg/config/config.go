package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/novabill/pkg/state"
)

// ErrMissingToken is returned when a platform call is attempted without a bearer token.
var ErrMissingToken = errors.New("METRONOME_BEARER_TOKEN is not set; configure it in .env")

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Billing platform connection
	Platform PlatformConfig

	// Local state file
	State StateConfig

	// Metric, product, rate card and tier definitions
	Catalog Catalog

	// Observability configuration
	Observability ObservabilityConfig

	// PrepaidGuard declines usage that costs more than the remaining prepaid balance
	PrepaidGuard bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// PlatformConfig holds settings for the external billing platform client
type PlatformConfig struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

// StateConfig holds settings for the local idempotency cache
type StateConfig struct {
	Path  string
	Watch bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  logrus.Level
	LogFormat string

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is loaded first if present.
func LoadConfig() (*Config, error) {
	// Best-effort .env loading; real environment variables win.
	_ = godotenv.Load()

	catalog := DefaultCatalog()
	if path := getEnv("NOVA_CATALOG_FILE", ""); path != "" {
		loaded, err := LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}

	cfg := &Config{
		Server:        loadServerConfig(),
		Platform:      loadPlatformConfig(),
		State:         loadStateConfig(),
		Catalog:       catalog,
		Observability: loadObservabilityConfig(),
		PrepaidGuard:  getEnvBool("NOVA_PREPAID_GUARD", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("NOVA_HOST", "127.0.0.1"),
		Port:            getEnv("NOVA_PORT", "5000"),
		ReadTimeout:     getEnvDuration("NOVA_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("NOVA_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("NOVA_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("NOVA_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// loadPlatformConfig loads billing platform settings from environment
func loadPlatformConfig() PlatformConfig {
	return PlatformConfig{
		BaseURL:     getEnv("METRONOME_BASE_URL", "https://api.metronome.com"),
		BearerToken: strings.TrimSpace(os.Getenv("METRONOME_BEARER_TOKEN")),
		Timeout:     getEnvDuration("NOVA_HTTP_TIMEOUT", 30*time.Second),
	}
}

// loadStateConfig loads state file settings from environment
func loadStateConfig() StateConfig {
	return StateConfig{
		Path:  getEnv("NOVA_STATE_PATH", state.DefaultPath),
		Watch: getEnvBool("NOVA_WATCH_STATE", true),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("NOVA_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("NOVA_LOG_FORMAT", "json")),
		MetricsEnabled:     getEnvBool("NOVA_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("NOVA_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("NOVA_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("NOVA_OTEL_SERVICE_NAME", "novabill"),
		OTelServiceVersion: getEnv("NOVA_OTEL_SERVICE_VERSION", "0.1.0"),
		OTelInsecure:       getEnvBool("NOVA_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %q", c.Server.Port)
	}
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("platform base URL is required")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state path is required")
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	switch c.Observability.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Observability.LogFormat)
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// RequirePlatform reports whether platform calls can be made with this configuration.
func (c *Config) RequirePlatform() error {
	if c.Platform.BearerToken == "" {
		return ErrMissingToken
	}
	return nil
}

// parseLogLevel parses a log level string, falling back to info
func parseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
