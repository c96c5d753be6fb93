package store

import (
	"context"

	"github.com/storweave/storweave/pkg/market/models"
)

// ListClaimedFileIDs returns the ids of the original files this provider has
// already produced an artifact for.
func (s *GORMStore) ListClaimedFileIDs(ctx context.Context, providerID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Artifact{}).
		Where("provider_id = ?", providerID).
		Pluck("original_file_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertArtifactClaim records a claim for one original file. A conflict on
// the (provider_id, original_file_id) unique index is returned as
// models.ErrDuplicateArtifact so callers can treat the lost race as success.
func (s *GORMStore) InsertArtifactClaim(ctx context.Context, artifact *models.Artifact) error {
	_, err := createWithID(s.db, ctx, artifact, func(a *models.Artifact, id string) {
		a.ID = id
	}, artifact.ID, models.ErrDuplicateArtifact)
	return err
}

// CountArtifacts returns how many artifacts this provider holds.
func (s *GORMStore) CountArtifacts(ctx context.Context, providerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Artifact{}).
		Where("provider_id = ?", providerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
