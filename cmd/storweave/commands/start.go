package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storweave/storweave/internal/logger"
	"github.com/storweave/storweave/internal/telemetry"
	"github.com/storweave/storweave/pkg/api"
	"github.com/storweave/storweave/pkg/artifact"
	"github.com/storweave/storweave/pkg/config"
	"github.com/storweave/storweave/pkg/market/store"
	"github.com/storweave/storweave/pkg/metrics"
	"github.com/storweave/storweave/pkg/provider"
	"github.com/storweave/storweave/pkg/wallet"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the storweave provider daemon",
	Long: `Start the storweave provider daemon with the specified configuration.

The daemon registers (or resumes) the provider identity derived from the
wallet secret, then runs its discovery, usage reconciliation, and heartbeat
loops until interrupted. It is meant to run in the foreground under a
process supervisor such as systemd.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/storweave/config.yaml.

The wallet secret is read from the STORWEAVE_PROVIDER_SECRET environment
variable, falling back to the provider.secret config field.

Examples:
  # Start with the default config
  STORWEAVE_PROVIDER_SECRET=<hex> storweave start

  # Start with custom config file
  storweave start --config /etc/storweave/config.yaml

  # Start with environment variable overrides
  STORWEAVE_LOGGING_LEVEL=DEBUG storweave start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "storweave",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "storweave",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}

	// Initialize metrics (if enabled)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	providerMetrics := metrics.NewProviderMetrics()

	// Connect to the shared marketplace database. An unreachable backend is
	// fatal: the daemon has nothing to reconcile against.
	st, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize marketplace store: %w", err)
	}
	defer func() { _ = st.Close() }()

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	err = st.Ping(pingCtx)
	pingCancel()
	if err != nil {
		return fmt.Errorf("marketplace database unreachable: %w", err)
	}
	logger.Info("Marketplace store connected", "type", cfg.Database.Type)

	// Derive the provider identity from the wallet secret and register it
	w, err := wallet.New(cfg.Provider.GetSecret())
	if err != nil {
		return fmt.Errorf("invalid provider wallet secret (set %s): %w", config.EnvProviderSecret, err)
	}

	prov, err := wallet.Resolve(ctx, st, w, wallet.Registration{
		DisplayName: cfg.Provider.DisplayName,
		AvailableGB: cfg.Provider.Capacity.Gigabytes(),
		PricePerGB:  cfg.Provider.PricePerGB,
	}, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to resolve provider identity: %w", err)
	}
	logger.Info("Provider identity resolved",
		"provider_id", prov.ID,
		"wallet_address", prov.WalletAddress,
		"display_name", prov.DisplayName)

	// Prepare the artifact vault and optional S3 mirror
	vault, err := artifact.NewVault(cfg.Provider.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to prepare artifact vault: %w", err)
	}
	logger.Info("Artifact vault ready", "dir", vault.Dir())

	var mirror *artifact.Mirror
	if cfg.Mirror.Enabled {
		mirror, err = artifact.NewMirror(ctx, cfg.Mirror)
		if err != nil {
			return fmt.Errorf("failed to configure artifact mirror: %w", err)
		}
		logger.Info("Artifact mirror enabled", "bucket", cfg.Mirror.Bucket)
	}

	builder := artifact.NewBuilder(vault, mirror)

	// Start the reconciliation daemon
	daemon := provider.New(cfg.Intervals, st, builder, prov, providerMetrics)
	daemon.Start(ctx)

	serverErr := make(chan error, 2)

	// Start the operator API server (if enabled)
	var apiServer *api.Server
	if cfg.API.IsEnabled() {
		apiServer = api.NewServer(cfg.API, st, prov.ID, vault.Dir(), Version)
		go func() {
			if err := apiServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("api server: %w", err)
			}
		}()
	}

	// Start the metrics server (nil when metrics are disabled)
	metricsServer := metrics.NewServer(cfg.Metrics)
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil {
				serverErr <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Daemon is running. Press Ctrl+C to stop.")

	var runErr error
	select {
	case sig := <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown", "signal", sig.String())
	case runErr = <-serverErr:
		signal.Stop(sigChan)
		logger.Error("Server error, shutting down", "error", runErr)
	}

	// Stop the daemon first so no new artifacts are produced while the
	// servers drain, then take the provider offline.
	daemon.Stop(cfg.ShutdownTimeout)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if apiServer != nil {
		if err := apiServer.Stop(shutdownCtx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", "error", err)
		}
	}
	cancel()

	if runErr != nil {
		return runErr
	}
	logger.Info("Daemon stopped gracefully")
	return nil
}
