package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solatis/formforge/internal/config"
)

var (
	configFile string
	catalogURL string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "formforge",
	Short: "FormForge form-fill rule extraction engine",
	Long:  `FormForge extracts structured form-fill rules from the free-text logic cells of business-requirement documents and emits a populated schema for the form-rendering engine.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&catalogURL, "catalog-url", "", "lookup catalog URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig merges flags over file/env configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if catalogURL != "" {
		cfg.CatalogURL = catalogURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, nil
}

// buildLogger constructs the process logger from configuration.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.LogFormat
	if cfg.LogFormat == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}
