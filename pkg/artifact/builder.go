package artifact

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/storweave/storweave/internal/logger"
)

// Result describes one produced artifact.
type Result struct {
	// Name is the canonical artifact file name.
	Name string
	// Path is the absolute path in the local vault.
	Path string
	// KeyHex is the hex-encoded per-artifact AES-256 key.
	KeyHex string
	// Size is the declared size of the original file the payload matches.
	Size int64
}

// Builder produces placeholder artifacts: synthesize payload, encrypt,
// write to the vault, optionally mirror.
type Builder struct {
	vault  *Vault
	mirror *Mirror // nil when mirroring is disabled
}

// NewBuilder returns a builder writing into vault. mirror may be nil.
func NewBuilder(vault *Vault, mirror *Mirror) *Builder {
	return &Builder{vault: vault, mirror: mirror}
}

// Build produces one artifact for a file of the given declared size and
// mime type. The blob lands in the vault before Build returns; mirroring
// failures are logged and swallowed.
func (b *Builder) Build(ctx context.Context, fileSize int64, mimeType string, now time.Time) (*Result, error) {
	payload, err := buildPayload(fileSize, mimeType)
	if err != nil {
		return nil, err
	}

	key, err := generateKey()
	if err != nil {
		return nil, err
	}

	blob, err := encrypt(payload, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt artifact: %w", err)
	}

	name := artifactName(mimeType, now)
	path, err := b.vault.Write(name, blob)
	if err != nil {
		return nil, err
	}

	if b.mirror != nil {
		if err := b.mirror.Upload(ctx, name, blob); err != nil {
			logger.Warn("artifact mirror upload failed",
				logger.KeyArtifact, name,
				logger.KeyError, err)
		}
	}

	return &Result{
		Name:   name,
		Path:   path,
		KeyHex: hex.EncodeToString(key),
		Size:   fileSize,
	}, nil
}
