package models

import "time"

// Allocation is a paid grant of storage capacity from one user to one
// provider, with a hard expiry.
//
// Allocations are created by the external purchase flow; the daemon only
// reads them and maintains used_gb. used_gb is a cache: it is always
// recomputable as the sum of the user's completed uploads, so the usage
// reconciler may overwrite it at any time.
type Allocation struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ProviderID   string    `gorm:"index;not null;size:36" json:"provider_id"`
	UserAddress  string    `gorm:"index;not null;size:42" json:"user_address"`
	AllocatedGB  float64   `gorm:"not null" json:"allocated_gb"`
	UsedGB       float64   `gorm:"default:0" json:"used_gb"`
	PaidAmount   float64   `json:"paid_amount"`
	PaymentTxRef string    `gorm:"size:128" json:"payment_tx_ref"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
}

// TableName returns the table name for Allocation.
func (Allocation) TableName() string {
	return "storage_allocations"
}

// Expired reports whether the allocation has passed its expiry.
func (a *Allocation) Expired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}
