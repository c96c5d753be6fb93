package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/storweave/storweave/internal/logger"
	"github.com/storweave/storweave/pkg/market/models"
	"github.com/storweave/storweave/pkg/market/store"
)

// Registration describes the capacity a provider advertises when its row is
// first created. Existing rows keep their stored values.
type Registration struct {
	DisplayName string
	AvailableGB float64
	PricePerGB  float64
}

// Resolve maps the wallet to its provider row in the marketplace backend,
// creating the row on first run and marking it active and online either way.
func Resolve(ctx context.Context, s store.Store, w *Wallet, reg Registration, now time.Time) (*models.Provider, error) {
	displayName := reg.DisplayName
	if displayName == "" {
		displayName = "Provider " + w.ShortAddress()
	}

	provider, created, err := s.GetOrCreateProvider(ctx, &models.Provider{
		WalletAddress: w.Address(),
		DisplayName:   displayName,
		AvailableGB:   reg.AvailableGB,
		PricePerGB:    reg.PricePerGB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider identity: %w", err)
	}

	if created {
		logger.Info("registered new provider",
			logger.KeyProvider, provider.ID,
			logger.KeyAddress, provider.WalletAddress)
	} else {
		logger.Info("resolved existing provider",
			logger.KeyProvider, provider.ID,
			logger.KeyAddress, provider.WalletAddress)
	}

	if err := s.SetProviderStatus(ctx, provider.ID, true, models.HealthOnline, now); err != nil {
		return nil, fmt.Errorf("failed to activate provider: %w", err)
	}
	provider.Active = true
	provider.HealthStatus = models.HealthOnline
	provider.LastHeartbeatAt = &now

	return provider, nil
}
