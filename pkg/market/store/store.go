package store

import (
	"context"
	"time"

	"github.com/storweave/storweave/pkg/market/models"
)

// Store is the typed facade over the shared marketplace backend. It carries
// no business logic; the reconciliation daemon composes these operations.
//
// GORMStore is the production implementation. The interface exists so the
// daemon and API server depend on operations, not on GORM.
type Store interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	Close() error

	// GetOrCreateProvider returns the provider row for defaults.WalletAddress,
	// inserting it if absent. The bool reports whether a row was created.
	GetOrCreateProvider(ctx context.Context, defaults *models.Provider) (*models.Provider, bool, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)

	// SetProviderStatus updates the active flag and health status, stamping
	// updated_at and last_heartbeat_at with at.
	SetProviderStatus(ctx context.Context, providerID string, active bool, health models.HealthStatus, at time.Time) error

	// TouchProviderHeartbeat refreshes the liveness timestamps only.
	TouchProviderHeartbeat(ctx context.Context, providerID string, at time.Time) error

	// ListActiveAllocations returns this provider's allocations with
	// expires_at >= now.
	ListActiveAllocations(ctx context.Context, providerID string, now time.Time) ([]*models.Allocation, error)

	// UpdateAllocationUsage writes usedGB to every unexpired allocation for
	// the (provider, user) pair and returns the number of rows updated.
	UpdateAllocationUsage(ctx context.Context, providerID, userAddress string, usedGB float64, now time.Time) (int64, error)

	// ListCompleteFilesForUsers returns completed uploads belonging to any
	// of the given users. Address matching is case-insensitive.
	ListCompleteFilesForUsers(ctx context.Context, userAddresses []string) ([]*models.StoredFile, error)

	// SumCompletedFileSize returns the total byte size of a user's
	// completed uploads.
	SumCompletedFileSize(ctx context.Context, userAddress string) (int64, error)

	// ListClaimedFileIDs returns the ids of original files this provider
	// has already claimed.
	ListClaimedFileIDs(ctx context.Context, providerID string) ([]string, error)

	// InsertArtifactClaim records a claim. A unique-constraint conflict on
	// (provider_id, original_file_id) is returned as
	// models.ErrDuplicateArtifact, distinguishable from other errors.
	InsertArtifactClaim(ctx context.Context, artifact *models.Artifact) error

	CountArtifacts(ctx context.Context, providerID string) (int64, error)
}

// compile-time check
var _ Store = (*GORMStore)(nil)
