package provider

import (
	"context"
	"fmt"

	"github.com/storweave/storweave/internal/logger"
	"github.com/storweave/storweave/internal/telemetry"
)

// runHeartbeat refreshes the provider's liveness timestamp. A missed beat is
// logged and retried on the next tick; readers tolerate gaps up to their own
// staleness threshold.
func (d *Daemon) runHeartbeat(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanHeartbeat)
	span.SetAttributes(telemetry.ProviderID(d.provider.ID))
	defer span.End()

	if err := d.store.TouchProviderHeartbeat(ctx, d.provider.ID, d.now().UTC()); err != nil {
		telemetry.RecordError(ctx, err)
		d.recordHeartbeat("error")
		return fmt.Errorf("failed to write heartbeat: %w", err)
	}

	logger.Debug("heartbeat written", logger.KeyProvider, d.provider.ID)
	d.recordHeartbeat("ok")
	return nil
}
