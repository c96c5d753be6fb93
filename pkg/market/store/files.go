package store

import (
	"context"

	"github.com/storweave/storweave/pkg/market/models"
)

// ListCompleteFilesForUsers returns the completed uploads belonging to any of
// the given users, oldest first. Address matching is case-insensitive. An
// empty address list returns no files.
func (s *GORMStore) ListCompleteFilesForUsers(ctx context.Context, userAddresses []string) ([]*models.StoredFile, error) {
	if len(userAddresses) == 0 {
		return nil, nil
	}

	normalized := make([]string, 0, len(userAddresses))
	for _, addr := range userAddresses {
		normalized = append(normalized, models.NormalizeAddress(addr))
	}

	var files []*models.StoredFile
	err := s.db.WithContext(ctx).
		Where("upload_status = ? AND LOWER(user_address) IN ?", models.UploadComplete, normalized).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// SumCompletedFileSize returns the total byte size of a user's completed
// uploads. A user with no completed uploads sums to zero.
func (s *GORMStore) SumCompletedFileSize(ctx context.Context, userAddress string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.StoredFile{}).
		Where("upload_status = ? AND LOWER(user_address) = ?",
			models.UploadComplete, models.NormalizeAddress(userAddress)).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
