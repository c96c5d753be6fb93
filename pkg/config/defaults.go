package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/storweave/storweave/internal/bytesize"
	"github.com/storweave/storweave/internal/telemetry"
	"github.com/storweave/storweave/pkg/market/store"
	"github.com/storweave/storweave/pkg/metrics"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values (0, "", false, nil) are replaced with defaults; explicit
// values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyProviderDefaults(&cfg.Provider)
	applyMetricsDefaults(&cfg.Metrics)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	cfg.Intervals.ApplyDefaults()
	cfg.Database.ApplyDefaults()
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults. Tracing and profiling
// stay opt-in; only endpoints and sampling get defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *telemetry.ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

// applyProviderDefaults sets provider identity and capacity defaults.
// The secret has no default: it must come from config or environment.
func applyProviderDefaults(cfg *ProviderConfig) {
	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath()
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = 100 * bytesize.GiB
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *metrics.ServerConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// defaultStoragePath returns the default artifact directory:
// $XDG_DATA_HOME/storweave/artifacts, falling back to ~/.local/share.
func defaultStoragePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "storweave-artifacts")
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "storweave", "artifacts")
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for generating sample configuration files and for tests.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Database: store.Config{
			Type: store.DatabaseTypeSQLite,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
