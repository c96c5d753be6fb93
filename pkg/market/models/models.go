// Package models defines the persistent entities of the storage
// marketplace's shared coordination backend.
package models

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&Provider{},
		&Allocation{},
		&StoredFile{},
		&Artifact{},
	}
}
