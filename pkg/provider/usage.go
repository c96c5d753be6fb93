package provider

import (
	"context"
	"fmt"

	"github.com/storweave/storweave/internal/bytesize"
	"github.com/storweave/storweave/internal/logger"
	"github.com/storweave/storweave/internal/telemetry"
	"github.com/storweave/storweave/pkg/market/models"
)

// runUsageReconciliation recomputes used_gb for every user holding a live
// allocation with this provider. The stored value is always overwritten
// with the recomputed truth; it is a cache of the file table, not a ledger.
//
// A failure for one user never aborts the pass.
func (d *Daemon) runUsageReconciliation(ctx context.Context) error {
	start := d.now()

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanUsageReconcile)
	span.SetAttributes(telemetry.ProviderID(d.provider.ID))
	defer span.End()

	allocations, err := d.store.ListActiveAllocations(ctx, d.provider.ID, start.UTC())
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("failed to list allocations: %w", err)
	}
	if len(allocations) == 0 {
		logger.Debug("no live allocations, skipping usage reconciliation")
		d.recordReconciliation(start, 0)
		return nil
	}

	users := make([]string, 0, len(allocations))
	seen := make(map[string]struct{}, len(allocations))
	var totalAllocatedGB float64
	for _, alloc := range allocations {
		totalAllocatedGB += alloc.AllocatedGB
		addr := models.NormalizeAddress(alloc.UserAddress)
		if _, dup := seen[addr]; !dup {
			seen[addr] = struct{}{}
			users = append(users, addr)
		}
	}

	var updated int
	var totalUsedGB float64
	for _, user := range users {
		usedGB, rows, err := d.reconcileUserUsage(ctx, user)
		if err != nil {
			logger.Error("failed to reconcile user usage",
				logger.KeyUser, user,
				logger.KeyError, err)
			continue
		}
		if rows == 0 {
			// All of the user's allocations expired mid-pass.
			continue
		}

		totalUsedGB += usedGB
		updated++
		logger.Debug("reconciled user usage",
			logger.KeyUser, user,
			logger.KeyUsedGB, usedGB,
			"allocations_updated", rows)
	}

	span.SetAttributes(telemetry.UsedGB(totalUsedGB))
	logger.Info("usage reconciliation complete",
		"users_updated", updated,
		"total_allocated_gb", totalAllocatedGB,
		"total_used_gb", totalUsedGB,
		logger.KeyDuration, d.now().Sub(start))

	d.recordReconciliation(start, updated)
	return nil
}

// reconcileUserUsage recomputes one user's completed-file total and writes
// it to every unexpired allocation the user holds with this provider.
// Returns the recomputed figure in GB and the number of rows updated.
func (d *Daemon) reconcileUserUsage(ctx context.Context, user string) (float64, int64, error) {
	totalBytes, err := d.store.SumCompletedFileSize(ctx, user)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum user storage: %w", err)
	}

	usedGB := bytesize.ByteSize(totalBytes).Gigabytes()
	rows, err := d.store.UpdateAllocationUsage(ctx, d.provider.ID, user, usedGB, d.now().UTC())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update allocation usage: %w", err)
	}
	return usedGB, rows, nil
}

// refreshUsageAfterClaim keeps used_gb current between full reconciliation
// passes: every claim changes the owner's figure, so it is rewritten right
// away. The claim has already succeeded; a failed refresh is only logged and
// corrected by the next pass.
func (d *Daemon) refreshUsageAfterClaim(ctx context.Context, user string) {
	usedGB, rows, err := d.reconcileUserUsage(ctx, user)
	if err != nil {
		logger.Warn("failed to refresh usage after claim",
			logger.KeyUser, user,
			logger.KeyError, err)
		return
	}
	if rows > 0 {
		logger.Debug("usage refreshed after claim",
			logger.KeyUser, user,
			logger.KeyUsedGB, usedGB)
	}
}
