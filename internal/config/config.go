// Package config loads gateway configuration from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the gateway.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// UpstreamConfig configures the external materials database client.
// APIKey may be empty: the service still boots and data endpoints report
// the missing key per request.
type UpstreamConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Flat env names kept for compatibility with existing deployments.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("upstream.api_key", "MP_API_KEY")
	v.BindEnv("upstream.base_url", "MP_BASE_URL")
	v.BindEnv("upstream.timeout", "MP_TIMEOUT")
	v.BindEnv("log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// MATERIALS_API_KEY is the legacy name for the upstream key.
	if cfg.Upstream.APIKey == "" {
		cfg.Upstream.APIKey = v.GetString("MATERIALS_API_KEY")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("upstream.base_url", "https://api.materialsproject.org")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
}
