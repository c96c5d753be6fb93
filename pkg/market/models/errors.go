package models

import "errors"

// Common errors for marketplace backend operations.
var (
	// Provider errors
	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderExists   = errors.New("provider already registered for this wallet")

	// Artifact errors. ErrDuplicateArtifact signals a unique-constraint
	// conflict on (provider_id, original_file_id): another cycle or process
	// already claimed the file. Callers treat it as success-equivalent.
	ErrDuplicateArtifact = errors.New("artifact already claimed for this file")
)
