//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storweave/storweave/pkg/market/models"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *GORMStore {
	t.Helper()
	store, err := New(&Config{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

func TestNew(t *testing.T) {
	t.Run("default config uses sqlite", func(t *testing.T) {
		config := &Config{}
		config.ApplyDefaults()

		if config.Type != DatabaseTypeSQLite {
			t.Errorf("expected SQLite, got %s", config.Type)
		}
	})

	t.Run("invalid config returns error", func(t *testing.T) {
		config := &Config{
			Type: "invalid",
		}
		_, err := New(config)
		if err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("creates in-memory store", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		if err := store.Ping(context.Background()); err != nil {
			t.Errorf("ping failed: %v", err)
		}
	})
}

func TestProviderOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	var providerID string

	t.Run("get or create inserts on first run", func(t *testing.T) {
		provider, created, err := store.GetOrCreateProvider(ctx, &models.Provider{
			WalletAddress: "0xAbCd000000000000000000000000000000000001",
			DisplayName:   "Provider 0xabcd",
			AvailableGB:   100,
			PricePerGB:    0.5,
		})
		if err != nil {
			t.Fatalf("failed to get or create provider: %v", err)
		}
		if !created {
			t.Error("expected provider to be created")
		}
		if provider.ID == "" {
			t.Error("expected non-empty provider ID")
		}
		if provider.WalletAddress != "0xabcd000000000000000000000000000000000001" {
			t.Errorf("expected normalized wallet address, got %q", provider.WalletAddress)
		}
		providerID = provider.ID
	})

	t.Run("get or create is case-insensitive on second run", func(t *testing.T) {
		provider, created, err := store.GetOrCreateProvider(ctx, &models.Provider{
			WalletAddress: "0xABCD000000000000000000000000000000000001",
			DisplayName:   "should not overwrite",
		})
		if err != nil {
			t.Fatalf("failed to get provider: %v", err)
		}
		if created {
			t.Error("expected existing provider, not a new row")
		}
		if provider.ID != providerID {
			t.Errorf("expected provider %s, got %s", providerID, provider.ID)
		}
		if provider.DisplayName != "Provider 0xabcd" {
			t.Errorf("existing row was overwritten: %q", provider.DisplayName)
		}
	})

	t.Run("get provider by id", func(t *testing.T) {
		provider, err := store.GetProvider(ctx, providerID)
		if err != nil {
			t.Fatalf("failed to get provider: %v", err)
		}
		if provider.AvailableGB != 100 {
			t.Errorf("expected 100 available GB, got %f", provider.AvailableGB)
		}
	})

	t.Run("get provider not found", func(t *testing.T) {
		_, err := store.GetProvider(ctx, "missing-id")
		if !errors.Is(err, models.ErrProviderNotFound) {
			t.Errorf("expected ErrProviderNotFound, got %v", err)
		}
	})

	t.Run("set provider status", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		err := store.SetProviderStatus(ctx, providerID, true, models.HealthOnline, now)
		if err != nil {
			t.Fatalf("failed to set provider status: %v", err)
		}

		provider, _ := store.GetProvider(ctx, providerID)
		if !provider.Active {
			t.Error("expected provider to be active")
		}
		if provider.HealthStatus != models.HealthOnline {
			t.Errorf("expected online, got %s", provider.HealthStatus)
		}
		if provider.LastHeartbeatAt == nil || !provider.LastHeartbeatAt.Equal(now) {
			t.Errorf("expected last heartbeat %v, got %v", now, provider.LastHeartbeatAt)
		}
	})

	t.Run("set status on missing provider fails", func(t *testing.T) {
		err := store.SetProviderStatus(ctx, "missing-id", true, models.HealthOnline, time.Now())
		if !errors.Is(err, models.ErrProviderNotFound) {
			t.Errorf("expected ErrProviderNotFound, got %v", err)
		}
	})

	t.Run("touch heartbeat keeps status", func(t *testing.T) {
		later := time.Now().UTC().Add(15 * time.Second).Truncate(time.Second)
		err := store.TouchProviderHeartbeat(ctx, providerID, later)
		if err != nil {
			t.Fatalf("failed to touch heartbeat: %v", err)
		}

		provider, _ := store.GetProvider(ctx, providerID)
		if !provider.Active {
			t.Error("heartbeat must not change the active flag")
		}
		if provider.LastHeartbeatAt == nil || !provider.LastHeartbeatAt.Equal(later) {
			t.Errorf("expected last heartbeat %v, got %v", later, provider.LastHeartbeatAt)
		}
	})
}

func TestAllocationOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	provider, _, err := store.GetOrCreateProvider(ctx, &models.Provider{
		WalletAddress: "0x1111000000000000000000000000000000000001",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	seed := []*models.Allocation{
		{ID: "alloc-active", ProviderID: provider.ID, UserAddress: "0xUserA000000000000000000000000000000000aa",
			AllocatedGB: 10, ExpiresAt: now.Add(24 * time.Hour)},
		{ID: "alloc-expired", ProviderID: provider.ID, UserAddress: "0xuserb000000000000000000000000000000000bb",
			AllocatedGB: 5, ExpiresAt: now.Add(-time.Hour)},
		{ID: "alloc-other", ProviderID: "other-provider", UserAddress: "0xusera000000000000000000000000000000000aa",
			AllocatedGB: 7, ExpiresAt: now.Add(24 * time.Hour)},
	}
	for _, a := range seed {
		if err := store.DB().Create(a).Error; err != nil {
			t.Fatalf("failed to seed allocation: %v", err)
		}
	}

	t.Run("list active excludes expired and foreign", func(t *testing.T) {
		allocations, err := store.ListActiveAllocations(ctx, provider.ID, now)
		if err != nil {
			t.Fatalf("failed to list allocations: %v", err)
		}
		if len(allocations) != 1 {
			t.Fatalf("expected 1 allocation, got %d", len(allocations))
		}
		if allocations[0].ID != "alloc-active" {
			t.Errorf("expected alloc-active, got %s", allocations[0].ID)
		}
	})

	t.Run("update usage is case-insensitive", func(t *testing.T) {
		rows, err := store.UpdateAllocationUsage(ctx, provider.ID, "0xUSERA000000000000000000000000000000000AA", 3.25, now)
		if err != nil {
			t.Fatalf("failed to update usage: %v", err)
		}
		if rows != 1 {
			t.Errorf("expected 1 row updated, got %d", rows)
		}

		allocations, _ := store.ListActiveAllocations(ctx, provider.ID, now)
		if allocations[0].UsedGB != 3.25 {
			t.Errorf("expected 3.25 used GB, got %f", allocations[0].UsedGB)
		}
	})

	t.Run("update usage skips expired allocations", func(t *testing.T) {
		rows, err := store.UpdateAllocationUsage(ctx, provider.ID, "0xuserb000000000000000000000000000000000bb", 1.0, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rows != 0 {
			t.Errorf("expected 0 rows updated, got %d", rows)
		}
	})
}

func TestFileOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	seed := []*models.StoredFile{
		{ID: "file-1", UserAddress: "0xAliceAddr", FileName: "report.pdf", FileSize: 1024,
			MimeType: "application/pdf", UploadStatus: models.UploadComplete},
		{ID: "file-2", UserAddress: "0xaliceaddr", FileName: "notes.txt", FileSize: 2048,
			MimeType: "text/plain", UploadStatus: models.UploadComplete},
		{ID: "file-3", UserAddress: "0xaliceaddr", FileName: "partial.bin", FileSize: 4096,
			UploadStatus: models.UploadPending},
		{ID: "file-4", UserAddress: "0xbobaddr", FileName: "photo.png", FileSize: 512,
			MimeType: "image/png", UploadStatus: models.UploadComplete},
	}
	for _, f := range seed {
		if err := store.DB().Create(f).Error; err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
	}

	t.Run("list complete files for users", func(t *testing.T) {
		files, err := store.ListCompleteFilesForUsers(ctx, []string{"0xALICEADDR"})
		if err != nil {
			t.Fatalf("failed to list files: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected 2 files, got %d", len(files))
		}
		for _, f := range files {
			if f.UploadStatus != models.UploadComplete {
				t.Errorf("expected only complete uploads, got %s for %s", f.UploadStatus, f.ID)
			}
		}
	})

	t.Run("empty user list returns no files", func(t *testing.T) {
		files, err := store.ListCompleteFilesForUsers(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 0 {
			t.Errorf("expected no files, got %d", len(files))
		}
	})

	t.Run("sum completed file size ignores pending", func(t *testing.T) {
		total, err := store.SumCompletedFileSize(ctx, "0xAliceAddr")
		if err != nil {
			t.Fatalf("failed to sum file size: %v", err)
		}
		if total != 3072 {
			t.Errorf("expected 3072 bytes, got %d", total)
		}
	})

	t.Run("sum for unknown user is zero", func(t *testing.T) {
		total, err := store.SumCompletedFileSize(ctx, "0xnobody")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 0 {
			t.Errorf("expected 0 bytes, got %d", total)
		}
	})
}

func TestArtifactOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	claim := &models.Artifact{
		ProviderID:     "provider-1",
		AllocationID:   "alloc-1",
		OriginalFileID: "file-1",
		ArtifactName:   "file_1756000000000.pdf.enc",
		FileSize:       1024,
		LocalPath:      "/var/lib/storweave/artifacts/file_1756000000000.pdf.enc",
		EncryptionKey:  "aabbcc",
		ReceivedAt:     time.Now().UTC(),
	}

	t.Run("insert claim", func(t *testing.T) {
		if err := store.InsertArtifactClaim(ctx, claim); err != nil {
			t.Fatalf("failed to insert claim: %v", err)
		}
		if claim.ID == "" {
			t.Error("expected non-empty artifact ID")
		}
	})

	t.Run("duplicate claim returns ErrDuplicateArtifact", func(t *testing.T) {
		dup := &models.Artifact{
			ProviderID:     "provider-1",
			AllocationID:   "alloc-2",
			OriginalFileID: "file-1",
			ArtifactName:   "file_1756000000001.pdf.enc",
			FileSize:       1024,
		}
		err := store.InsertArtifactClaim(ctx, dup)
		if !errors.Is(err, models.ErrDuplicateArtifact) {
			t.Errorf("expected ErrDuplicateArtifact, got %v", err)
		}
	})

	t.Run("same file claimable by another provider", func(t *testing.T) {
		other := &models.Artifact{
			ProviderID:     "provider-2",
			AllocationID:   "alloc-3",
			OriginalFileID: "file-1",
			ArtifactName:   "file_1756000000002.pdf.enc",
			FileSize:       1024,
		}
		if err := store.InsertArtifactClaim(ctx, other); err != nil {
			t.Errorf("expected claim from another provider to succeed, got %v", err)
		}
	})

	t.Run("list claimed file ids", func(t *testing.T) {
		ids, err := store.ListClaimedFileIDs(ctx, "provider-1")
		if err != nil {
			t.Fatalf("failed to list claimed ids: %v", err)
		}
		if len(ids) != 1 || ids[0] != "file-1" {
			t.Errorf("expected [file-1], got %v", ids)
		}
	})

	t.Run("count artifacts", func(t *testing.T) {
		count, err := store.CountArtifacts(ctx, "provider-1")
		if err != nil {
			t.Fatalf("failed to count artifacts: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 artifact, got %d", count)
		}
	})
}
