package models

import "time"

// HealthStatus is the advertised liveness of a provider.
type HealthStatus string

const (
	// HealthOnline means the provider daemon is running and heartbeating.
	HealthOnline HealthStatus = "online"
	// HealthOffline means the provider shut down cleanly (or was marked
	// stale by a reader).
	HealthOffline HealthStatus = "offline"
)

// Provider is one operator's storage capacity in the marketplace.
//
// A provider row is keyed by the operator's wallet address, which is derived
// deterministically from their secret key. The daemon creates the row on
// first run and reactivates it afterwards; it never deletes it.
//
// Consumers must treat a provider as stale when last_heartbeat_at is older
// than one heartbeat interval, regardless of the stored health_status. The
// daemon never clears the flag asynchronously; the offline transition is
// only written on clean shutdown.
type Provider struct {
	ID              string       `gorm:"primaryKey;size:36" json:"id"`
	WalletAddress   string       `gorm:"uniqueIndex;not null;size:42" json:"wallet_address"`
	DisplayName     string       `gorm:"size:255" json:"display_name"`
	AvailableGB     float64      `gorm:"not null" json:"available_gb"`
	PricePerGB      float64      `gorm:"not null" json:"price_per_gb"`
	Active          bool         `gorm:"default:false" json:"active"`
	HealthStatus    HealthStatus `gorm:"size:16" json:"health_status"`
	LastHeartbeatAt *time.Time   `json:"last_heartbeat_at,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Provider.
func (Provider) TableName() string {
	return "storage_providers"
}

// HeartbeatAge returns how long ago the provider last heartbeated, or a
// negative duration if it never has.
func (p *Provider) HeartbeatAge(now time.Time) time.Duration {
	if p.LastHeartbeatAt == nil {
		return -1
	}
	return now.Sub(*p.LastHeartbeatAt)
}
