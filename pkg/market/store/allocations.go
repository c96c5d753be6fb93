package store

import (
	"context"
	"time"

	"github.com/storweave/storweave/pkg/market/models"
)

// ListActiveAllocations returns the provider's allocations whose expiry has
// not passed, newest first.
func (s *GORMStore) ListActiveAllocations(ctx context.Context, providerID string, now time.Time) ([]*models.Allocation, error) {
	var allocations []*models.Allocation
	err := s.db.WithContext(ctx).
		Where("provider_id = ? AND expires_at >= ?", providerID, now).
		Order("created_at DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// UpdateAllocationUsage writes usedGB to every unexpired allocation the user
// holds with this provider and returns the number of rows updated. Zero rows
// is not an error: the user's allocations may all have expired since the
// caller listed them.
func (s *GORMStore) UpdateAllocationUsage(ctx context.Context, providerID, userAddress string, usedGB float64, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("provider_id = ? AND LOWER(user_address) = ? AND expires_at >= ?",
			providerID, models.NormalizeAddress(userAddress), now).
		Update("used_gb", usedGB)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
