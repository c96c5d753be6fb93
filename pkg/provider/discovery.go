package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/storweave/storweave/internal/logger"
	"github.com/storweave/storweave/internal/telemetry"
	"github.com/storweave/storweave/pkg/market/models"
)

// cycleSeq numbers discovery cycles for log correlation.
var cycleSeq atomic.Uint64

// runDiscovery performs one discovery cycle: list live allocations, find
// their users' completed files that this provider has not yet claimed, and
// claim each one.
//
// The exclusion set is rebuilt from the backend on every cycle, never cached
// across cycles. A failed claim for one file never aborts the cycle.
func (d *Daemon) runDiscovery(ctx context.Context) error {
	cycle := cycleSeq.Add(1)
	start := d.now()

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDiscoveryCycle)
	span.SetAttributes(telemetry.ProviderID(d.provider.ID), telemetry.Cycle(cycle))
	defer span.End()

	allocations, err := d.store.ListActiveAllocations(ctx, d.provider.ID, start.UTC())
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("failed to list allocations: %w", err)
	}
	if len(allocations) == 0 {
		logger.Debug("no live allocations, skipping discovery", logger.KeyCycle, cycle)
		d.recordDiscovery(start, 0)
		return nil
	}

	// Newest allocation wins when a user holds several; the list is already
	// ordered newest first.
	allocByUser := make(map[string]*models.Allocation)
	users := make([]string, 0, len(allocations))
	for _, alloc := range allocations {
		addr := models.NormalizeAddress(alloc.UserAddress)
		if _, seen := allocByUser[addr]; !seen {
			allocByUser[addr] = alloc
			users = append(users, addr)
		}
	}

	claimedIDs, err := d.store.ListClaimedFileIDs(ctx, d.provider.ID)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("failed to list claimed files: %w", err)
	}
	claimed := make(map[string]struct{}, len(claimedIDs))
	for _, id := range claimedIDs {
		claimed[id] = struct{}{}
	}

	files, err := d.store.ListCompleteFilesForUsers(ctx, users)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("failed to list files: %w", err)
	}

	var newClaims int
	for _, file := range files {
		if _, done := claimed[file.ID]; done {
			continue
		}
		alloc := allocByUser[models.NormalizeAddress(file.UserAddress)]
		if alloc == nil {
			logger.Warn("no live allocation for file owner, skipping",
				logger.KeyCycle, cycle,
				logger.KeyFileID, file.ID,
				logger.KeyUser, models.NormalizeAddress(file.UserAddress))
			continue
		}
		if err := d.claimFile(ctx, file, alloc); err != nil {
			logger.Error("failed to claim file",
				logger.KeyCycle, cycle,
				logger.KeyFileID, file.ID,
				logger.KeyFileName, file.FileName,
				logger.KeyError, err)
			d.recordClaim("error")
			continue
		}
		newClaims++
	}

	if newClaims > 0 {
		logger.Info("discovery cycle complete",
			logger.KeyCycle, cycle,
			"files_examined", len(files),
			"new_claims", newClaims,
			logger.KeyDuration, d.now().Sub(start))
	} else {
		logger.Debug("discovery cycle complete, nothing to claim",
			logger.KeyCycle, cycle,
			"files_examined", len(files))
	}

	d.recordDiscovery(start, len(files))
	return nil
}

// claimFile produces one artifact and records the claim. The allocation's
// expiry is re-checked here: it may have lapsed between listing and claiming.
func (d *Daemon) claimFile(ctx context.Context, file *models.StoredFile, alloc *models.Allocation) error {
	now := d.now()
	if alloc.Expired(now.UTC()) {
		logger.Debug("allocation expired before claim, skipping",
			logger.KeyFileID, file.ID,
			logger.KeyAllocation, alloc.ID)
		return nil
	}

	user := models.NormalizeAddress(file.UserAddress)

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanClaimFile)
	span.SetAttributes(
		telemetry.FileID(file.ID),
		telemetry.FileSize(file.FileSize),
		telemetry.AllocationID(alloc.ID),
		telemetry.UserAddress(user),
	)
	defer span.End()

	result, err := d.builder.Build(ctx, file.FileSize, file.MimeType, now)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("failed to build artifact: %w", err)
	}
	span.SetAttributes(telemetry.ArtifactName(result.Name))

	err = d.store.InsertArtifactClaim(ctx, &models.Artifact{
		ProviderID:     d.provider.ID,
		AllocationID:   alloc.ID,
		OriginalFileID: file.ID,
		ArtifactName:   result.Name,
		FileSize:       result.Size,
		LocalPath:      result.Path,
		EncryptionKey:  result.KeyHex,
		ReceivedAt:     now.UTC(),
	})
	if errors.Is(err, models.ErrDuplicateArtifact) {
		// Lost the race to another cycle or process. The file is safely
		// claimed; drop the orphaned blob we just wrote.
		if rmErr := os.Remove(result.Path); rmErr != nil {
			logger.Warn("failed to remove orphaned artifact",
				logger.KeyPath, result.Path,
				logger.KeyError, rmErr)
		}
		logger.Debug("file already claimed",
			logger.KeyFileID, file.ID,
			logger.KeyArtifact, result.Name)
		d.recordClaim("duplicate")
		d.refreshUsageAfterClaim(ctx, user)
		return nil
	}
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("failed to record claim: %w", err)
	}

	logger.Info("claimed file",
		logger.KeyFileID, file.ID,
		logger.KeyFileName, file.FileName,
		logger.KeyUser, user,
		logger.KeyArtifact, result.Name,
		logger.KeySize, result.Size)
	d.recordClaim("claimed")
	d.refreshUsageAfterClaim(ctx, user)
	return nil
}
