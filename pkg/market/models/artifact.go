package models

import "time"

// Artifact is a provider's durable claim over one original file: the record
// linking provider, allocation, and original file to exactly one encrypted
// placeholder blob on the provider's disk.
//
// The composite unique index over (provider_id, original_file_id) is the
// system's de-duplication anchor. Discovery-time exclusion is best effort;
// this constraint is the correctness mechanism that makes claiming
// idempotent across overlapping cycles and restarted daemons.
type Artifact struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ProviderID     string    `gorm:"uniqueIndex:idx_artifacts_provider_file;not null;size:36" json:"provider_id"`
	AllocationID   string    `gorm:"index;not null;size:36" json:"allocation_id"`
	OriginalFileID string    `gorm:"uniqueIndex:idx_artifacts_provider_file;not null;size:36" json:"original_file_id"`
	ArtifactName   string    `gorm:"size:255" json:"artifact_name"`
	FileSize       int64     `gorm:"not null" json:"file_size"`
	LocalPath      string    `gorm:"size:1024" json:"local_path"`
	EncryptionKey  string    `gorm:"size:128" json:"-"`
	ReceivedAt     time.Time `json:"received_at"`
}

// TableName returns the table name for Artifact.
func (Artifact) TableName() string {
	return "provider_artifacts"
}
