// Package config provides configuration loading for forecastd.
package config

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config is the root forecastd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Weather   WeatherConfig   `koanf:"weather"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds the HTTP transport settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// WeatherConfig holds the outbound provider settings.
type WeatherConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	RPS     float64       `koanf:"rps"`
}

// TelemetryConfig holds metrics settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

// Default returns the hardcoded defaults applied before file and
// environment overrides.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8480,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Weather: WeatherConfig{
			Timeout: 10 * time.Second,
			RPS:     5,
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			ServiceName: "forecastd",
		},
	}
}

// Validate checks the configuration for values the daemon cannot start
// with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level %q is invalid: %w", c.Logging.Level, err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Weather.APIKey == "" {
		return fmt.Errorf("weather.api_key is required")
	}
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("weather.timeout must be positive, got %s", c.Weather.Timeout)
	}
	if c.Weather.RPS < 0 {
		return fmt.Errorf("weather.rps must not be negative, got %v", c.Weather.RPS)
	}
	return nil
}
