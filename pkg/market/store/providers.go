package store

import (
	"context"
	"time"

	"github.com/storweave/storweave/pkg/market/models"
)

// GetOrCreateProvider returns the provider row matching defaults.WalletAddress,
// inserting defaults as a new row if none exists. Address matching is
// case-insensitive; the stored address is always normalized.
func (s *GORMStore) GetOrCreateProvider(ctx context.Context, defaults *models.Provider) (*models.Provider, bool, error) {
	addr := models.NormalizeAddress(defaults.WalletAddress)

	existing, err := s.getProviderByAddress(ctx, addr)
	if err == nil {
		return existing, false, nil
	}
	if err != models.ErrProviderNotFound {
		return nil, false, err
	}

	defaults.WalletAddress = addr
	if _, err := createWithID(s.db, ctx, defaults, func(p *models.Provider, id string) {
		p.ID = id
	}, defaults.ID, models.ErrProviderExists); err != nil {
		// A concurrent daemon for the same wallet may have raced us.
		if err == models.ErrProviderExists {
			existing, gerr := s.getProviderByAddress(ctx, addr)
			if gerr != nil {
				return nil, false, gerr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return defaults, true, nil
}

func (s *GORMStore) getProviderByAddress(ctx context.Context, addr string) (*models.Provider, error) {
	var provider models.Provider
	err := s.db.WithContext(ctx).
		Where("LOWER(wallet_address) = ?", models.NormalizeAddress(addr)).
		First(&provider).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrProviderNotFound)
	}
	return &provider, nil
}

// GetProvider retrieves a provider by ID.
func (s *GORMStore) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	return getByField[models.Provider](s.db, ctx, "id", id, models.ErrProviderNotFound)
}

// SetProviderStatus updates the active flag and health status of a provider,
// stamping last_heartbeat_at and updated_at with at.
func (s *GORMStore) SetProviderStatus(ctx context.Context, providerID string, active bool, health models.HealthStatus, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"active":            active,
			"health_status":     health,
			"last_heartbeat_at": at,
			"updated_at":        at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProviderNotFound
	}
	return nil
}

// TouchProviderHeartbeat refreshes the liveness timestamps without changing
// the active flag or health status.
func (s *GORMStore) TouchProviderHeartbeat(ctx context.Context, providerID string, at time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"last_heartbeat_at": at,
			"updated_at":        at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProviderNotFound
	}
	return nil
}
