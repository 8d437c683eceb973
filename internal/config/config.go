// Package config provides configuration management for the FormForge CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds extraction settings shared by all subcommands.
type Config struct {
	CatalogURL string
	ReportPath string
	LogLevel   string
	LogFormat  string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		CatalogURL: "",
		ReportPath: "",
		LogLevel:   "info",
		LogFormat:  "json",
	}
}

// Load loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching Default()
	v.SetDefault("extract.catalog_url", "")
	v.SetDefault("extract.report_path", "")
	v.SetDefault("extract.log_level", "info")
	v.SetDefault("extract.log_format", "json")

	// Bind environment variables with FF_ prefix
	v.SetEnvPrefix("FF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		CatalogURL: v.GetString("extract.catalog_url"),
		ReportPath: v.GetString("extract.report_path"),
		LogLevel:   v.GetString("extract.log_level"),
		LogFormat:  v.GetString("extract.log_format"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks enumerated settings.
func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", cfg.LogFormat)
	}
	return nil
}
