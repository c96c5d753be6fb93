package models

import "time"

// UploadStatus of a user's logical file.
type UploadStatus string

const (
	// UploadPending means the upload has not finished; the daemon ignores it.
	UploadPending UploadStatus = "pending"
	// UploadComplete means the file is fully uploaded and claimable.
	UploadComplete UploadStatus = "complete"
)

// StoredFile is a user's logical file in the marketplace. The daemon only
// ever reads these rows, and only those with upload_status = complete.
type StoredFile struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	UserAddress  string       `gorm:"index;not null;size:42" json:"user_address"`
	FileName     string       `gorm:"size:512" json:"file_name"`
	FileSize     int64        `gorm:"not null" json:"file_size"`
	MimeType     string       `gorm:"size:255" json:"mime_type"`
	UploadStatus UploadStatus `gorm:"index;size:16" json:"upload_status"`
	ContentRef   string       `gorm:"size:512" json:"content_ref"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for StoredFile.
func (StoredFile) TableName() string {
	return "stored_files"
}
