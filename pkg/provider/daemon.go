// Package provider implements the reconciliation daemon: the long-running
// process that claims marketplace files, reconciles per-user storage usage,
// and keeps the provider's heartbeat fresh.
package provider

import (
	"context"
	"sync"
	"time"

	"github.com/storweave/storweave/internal/logger"
	"github.com/storweave/storweave/pkg/artifact"
	"github.com/storweave/storweave/pkg/market/models"
	"github.com/storweave/storweave/pkg/market/store"
	"github.com/storweave/storweave/pkg/metrics"
)

// Config holds the daemon's loop intervals.
type Config struct {
	// DiscoveryInterval is the period between discovery cycles.
	// Default: 30s
	DiscoveryInterval time.Duration `mapstructure:"discovery_interval" yaml:"discovery_interval"`

	// UsageInterval is the period between usage reconciliation passes.
	// Default: 1h
	UsageInterval time.Duration `mapstructure:"usage_interval" yaml:"usage_interval"`

	// HeartbeatInterval is the period between heartbeat writes.
	// Default: 15s
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" yaml:"heartbeat_interval"`
}

// ApplyDefaults fills in missing intervals.
func (c *Config) ApplyDefaults() {
	if c.DiscoveryInterval <= 0 {
		c.DiscoveryInterval = 30 * time.Second
	}
	if c.UsageInterval <= 0 {
		c.UsageInterval = time.Hour
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 15 * time.Second
	}
}

// Daemon runs the three reconciliation loops for one provider identity.
type Daemon struct {
	cfg      Config
	store    store.Store
	builder  *artifact.Builder
	provider *models.Provider
	metrics  metrics.ProviderMetrics // may be nil

	// now is swapped in tests
	now func() time.Time

	mu        sync.Mutex
	started   bool
	stopped   bool
	wg        sync.WaitGroup
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// New creates a daemon for an already-resolved provider identity.
// m may be nil to disable metrics collection.
func New(cfg Config, s store.Store, builder *artifact.Builder, provider *models.Provider, m metrics.ProviderMetrics) *Daemon {
	cfg.ApplyDefaults()
	return &Daemon{
		cfg:       cfg,
		store:     s,
		builder:   builder,
		provider:  provider,
		metrics:   m,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Start runs one discovery cycle and one usage reconciliation synchronously,
// then launches the periodic loops. Errors in the initial cycles are logged,
// not fatal: the backend may heal before the next tick.
func (d *Daemon) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	logger.Info("starting reconciliation daemon",
		logger.KeyProvider, d.provider.ID,
		logger.KeyAddress, d.provider.WalletAddress,
		"discovery_interval", d.cfg.DiscoveryInterval,
		"usage_interval", d.cfg.UsageInterval,
		"heartbeat_interval", d.cfg.HeartbeatInterval)

	if err := d.runDiscovery(ctx); err != nil {
		logger.Error("initial discovery cycle failed", logger.KeyError, err)
	}
	if err := d.runUsageReconciliation(ctx); err != nil {
		logger.Error("initial usage reconciliation failed", logger.KeyError, err)
	}

	d.wg.Add(3)
	go d.loop(ctx, d.cfg.DiscoveryInterval, "discovery", d.runDiscovery)
	go d.loop(ctx, d.cfg.UsageInterval, "usage reconciliation", d.runUsageReconciliation)
	go d.loop(ctx, d.cfg.HeartbeatInterval, "heartbeat", d.runHeartbeat)

	go func() {
		d.wg.Wait()
		close(d.stoppedCh)
	}()
}

// loop runs fn every interval until the daemon stops. A failed cycle is
// logged and the loop keeps ticking.
func (d *Daemon) loop(ctx context.Context, interval time.Duration, name string, fn func(context.Context) error) {
	defer d.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				logger.Error(name+" cycle failed", logger.KeyError, err)
			}
		}
	}
}

// Stop halts the loops, waits up to timeout for in-flight cycles, then
// writes the offline status. The offline write is best effort: a dead
// backend must not block process exit.
func (d *Daemon) Stop(timeout time.Duration) {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	logger.Info("stopping reconciliation daemon", logger.KeyProvider, d.provider.ID)
	close(d.stopCh)

	select {
	case <-d.stoppedCh:
	case <-time.After(timeout):
		logger.Warn("daemon loops did not stop in time, abandoning in-flight cycles")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := d.store.SetProviderStatus(ctx, d.provider.ID, false, models.HealthOffline, d.now().UTC()); err != nil {
		logger.Warn("failed to mark provider offline", logger.KeyError, err)
	} else {
		logger.Info("provider marked offline", logger.KeyProvider, d.provider.ID)
	}
}
