package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clean environment
	os.Unsetenv("FF_EXTRACT_CATALOG_URL")
	os.Unsetenv("FF_EXTRACT_LOG_LEVEL")
	os.Unsetenv("FF_EXTRACT_LOG_FORMAT")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.CatalogURL != "" {
			t.Errorf("expected empty catalog_url, got %s", cfg.CatalogURL)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("expected log_level info, got %s", cfg.LogLevel)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("expected log_format json, got %s", cfg.LogFormat)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("FF_EXTRACT_LOG_LEVEL", "debug")
		os.Setenv("FF_EXTRACT_CATALOG_URL", "sqlite://catalog.db")
		defer os.Unsetenv("FF_EXTRACT_LOG_LEVEL")
		defer os.Unsetenv("FF_EXTRACT_CATALOG_URL")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("expected log_level debug, got %s", cfg.LogLevel)
		}
		if cfg.CatalogURL != "sqlite://catalog.db" {
			t.Errorf("expected catalog_url sqlite://catalog.db, got %s", cfg.CatalogURL)
		}
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "formforge.yaml")
		content := "extract:\n  log_level: warn\n  log_format: console\n  catalog_url: postgres://localhost/catalog\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.LogLevel != "warn" {
			t.Errorf("expected log_level warn, got %s", cfg.LogLevel)
		}
		if cfg.LogFormat != "console" {
			t.Errorf("expected log_format console, got %s", cfg.LogFormat)
		}
		if cfg.CatalogURL != "postgres://localhost/catalog" {
			t.Errorf("expected postgres catalog_url, got %s", cfg.CatalogURL)
		}
	})

	t.Run("environment overrides config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "formforge.yaml")
		content := "extract:\n  log_level: warn\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		os.Setenv("FF_EXTRACT_LOG_LEVEL", "error")
		defer os.Unsetenv("FF_EXTRACT_LOG_LEVEL")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.LogLevel != "error" {
			t.Errorf("expected env to win over file, got %s", cfg.LogLevel)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load("/nonexistent/formforge.yaml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		os.Setenv("FF_EXTRACT_LOG_LEVEL", "verbose")
		defer os.Unsetenv("FF_EXTRACT_LOG_LEVEL")

		_, err := Load("")
		if err == nil {
			t.Error("expected error for invalid log_level")
		}
	})

	t.Run("invalid log format", func(t *testing.T) {
		os.Setenv("FF_EXTRACT_LOG_FORMAT", "xml")
		defer os.Unsetenv("FF_EXTRACT_LOG_FORMAT")

		_, err := Load("")
		if err == nil {
			t.Error("expected error for invalid log_format")
		}
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("Default() = %+v, want info/json logging", cfg)
	}
	if cfg.CatalogURL != "" || cfg.ReportPath != "" {
		t.Errorf("Default() = %+v, want empty paths", cfg)
	}
}
