package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the optional YAML file loaded beneath the environment
const ConfigPathEnv = "STOREFRONT_CONFIG"

type Config struct {
	Server ServerConfig `yaml:"server"`
	OTLP   OTLPConfig   `yaml:"otlp"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type OTLPConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
}

// ClientConfig configures the storefront client side: where the backend
// lives, the transport timeout and the search settle interval.
type ClientConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	SearchSettle time.Duration `yaml:"search_settle"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8082",
		},
		OTLP: OTLPConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "storefront-cart",
			Environment: "development",
		},
		Client: ClientConfig{
			BaseURL:      "http://localhost:8082/api/v1",
			Timeout:      10 * time.Second,
			SearchSettle: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads defaults, then the YAML file named by STOREFRONT_CONFIG
// if set, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg; absent keys keep their value.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Validate checks the values the client and server cannot run without
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.base_url must be an absolute URL, got %q", c.Client.BaseURL))
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, errors.New("client.timeout must not be negative"))
	}
	if c.Client.SearchSettle <= 0 {
		errs = append(errs, errors.New("client.search_settle must be positive"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port must be set"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseLevel converts a configured level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)

	cfg.OTLP.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLP.Endpoint)
	cfg.OTLP.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTLP.ServiceName)
	cfg.OTLP.Environment = getEnv("OTEL_ENVIRONMENT", cfg.OTLP.Environment)

	cfg.Client.BaseURL = getEnv("STOREFRONT_BACKEND_URL", cfg.Client.BaseURL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	var err error
	if cfg.OTLP.Enabled, err = getEnvBool("OTEL_ENABLED", cfg.OTLP.Enabled); err != nil {
		return err
	}
	if cfg.Client.Timeout, err = getEnvDuration("STOREFRONT_TIMEOUT", cfg.Client.Timeout); err != nil {
		return err
	}
	if cfg.Client.SearchSettle, err = getEnvDuration("STOREFRONT_SEARCH_SETTLE", cfg.Client.SearchSettle); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
