package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/storweave/storweave/internal/bytesize"
	"github.com/storweave/storweave/pkg/market/store"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected INFO, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text, got %s", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected 30s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Database.Type != store.DatabaseTypeSQLite {
		t.Errorf("expected sqlite, got %s", cfg.Database.Type)
	}
	if cfg.Intervals.DiscoveryInterval != 30*time.Second {
		t.Errorf("expected 30s discovery interval, got %v", cfg.Intervals.DiscoveryInterval)
	}
	if cfg.Intervals.UsageInterval != time.Hour {
		t.Errorf("expected 1h usage interval, got %v", cfg.Intervals.UsageInterval)
	}
	if cfg.Intervals.HeartbeatInterval != 15*time.Second {
		t.Errorf("expected 15s heartbeat interval, got %v", cfg.Intervals.HeartbeatInterval)
	}
	if cfg.Provider.Capacity != 100*bytesize.GiB {
		t.Errorf("expected 100Gi capacity, got %v", cfg.Provider.Capacity)
	}
	if cfg.Provider.StoragePath == "" {
		t.Error("expected a default storage path")
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry must be opt-in")
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics must be opt-in")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
  format: json
shutdown_timeout: 10s
provider:
  storage_path: /var/lib/storweave/artifacts
  capacity: 2Ti
  price_per_gb: 0.25
intervals:
  discovery_interval: 45s
  heartbeat_interval: 5s
database:
  type: sqlite
  sqlite:
    path: /tmp/storweave-test.db
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected normalized DEBUG, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json, got %s", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Provider.Capacity != 2*bytesize.TiB {
		t.Errorf("expected 2Ti capacity, got %v", cfg.Provider.Capacity)
	}
	if cfg.Provider.PricePerGB != 0.25 {
		t.Errorf("expected 0.25, got %f", cfg.Provider.PricePerGB)
	}
	if cfg.Intervals.DiscoveryInterval != 45*time.Second {
		t.Errorf("expected 45s, got %v", cfg.Intervals.DiscoveryInterval)
	}
	// Unset interval falls back to its default.
	if cfg.Intervals.UsageInterval != time.Hour {
		t.Errorf("expected 1h, got %v", cfg.Intervals.UsageInterval)
	}
	if cfg.Database.SQLite.Path != "/tmp/storweave-test.db" {
		t.Errorf("unexpected sqlite path: %s", cfg.Database.SQLite.Path)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: loud
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for bad log level")
	}
}

func TestValidate(t *testing.T) {
	t.Run("mirror without bucket fails", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Mirror.Enabled = true

		if err := Validate(cfg); err == nil {
			t.Error("expected error for enabled mirror without bucket")
		}
	})

	t.Run("negative price fails", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Provider.PricePerGB = -1

		if err := Validate(cfg); err == nil {
			t.Error("expected error for negative price")
		}
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Provider.DisplayName = "rack-7"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 config file, got %o", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Provider.DisplayName != "rack-7" {
		t.Errorf("expected rack-7, got %q", loaded.Provider.DisplayName)
	}
}

func TestProviderSecretEnvPrecedence(t *testing.T) {
	t.Setenv(EnvProviderSecret, "aa")

	cfg := ProviderConfig{Secret: "bb"}
	if got := cfg.GetSecret(); got != "aa" {
		t.Errorf("expected environment to win, got %q", got)
	}

	t.Setenv(EnvProviderSecret, "")
	if got := cfg.GetSecret(); got != "bb" {
		t.Errorf("expected config fallback, got %q", got)
	}
}
