package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Vault is the provider's local artifact directory. It is the artifact of
// record; mirrors are best effort.
type Vault struct {
	dir string
}

// NewVault creates the artifact directory if needed. The directory is
// private to the daemon's user.
func NewVault(dir string) (*Vault, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Vault{dir: dir}, nil
}

// Dir returns the vault's root directory.
func (v *Vault) Dir() string {
	return v.dir
}

// Write stores one artifact blob and returns its absolute path.
func (v *Vault) Write(name string, data []byte) (string, error) {
	path := filepath.Join(v.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}
