package artifact

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuildPayload(t *testing.T) {
	t.Run("exact size", func(t *testing.T) {
		for _, size := range []int64{0, 1, 63, 64, 65, 4096} {
			payload, err := buildPayload(size, "application/pdf")
			if err != nil {
				t.Fatalf("size %d: unexpected error: %v", size, err)
			}
			if int64(len(payload)) != size {
				t.Errorf("size %d: got %d bytes", size, len(payload))
			}
		}
	})

	t.Run("text payload uses printable alphabet", func(t *testing.T) {
		payload, err := buildPayload(2048, "text/plain; charset=utf-8")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, b := range payload {
			if !strings.ContainsRune(textFillAlphabet, rune(b)) {
				t.Fatalf("byte %d (%q) outside fill alphabet", i, b)
			}
		}
	})

	t.Run("negative size rejected", func(t *testing.T) {
		if _, err := buildPayload(-1, "text/plain"); err == nil {
			t.Error("expected error for negative size")
		}
	})
}

func TestEncryptDecrypt(t *testing.T) {
	key, err := generateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	if len(key) != keyLen {
		t.Fatalf("expected %d-byte key, got %d", keyLen, len(key))
	}

	plaintext := []byte("placeholder payload body")
	blob, err := encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if len(blob) <= nonceLen+len(plaintext) {
		t.Errorf("blob too short to carry nonce and auth tag: %d bytes", len(blob))
	}

	t.Run("round trip", func(t *testing.T) {
		got, err := decrypt(blob, key)
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if string(got) != string(plaintext) {
			t.Errorf("plaintext mismatch: %q", got)
		}
	})

	t.Run("wrong key fails", func(t *testing.T) {
		other, _ := generateKey()
		if _, err := decrypt(blob, other); err == nil {
			t.Error("expected decrypt with wrong key to fail")
		}
	})

	t.Run("distinct blobs for same input", func(t *testing.T) {
		again, err := encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		if string(again) == string(blob) {
			t.Error("expected fresh nonce to produce a distinct blob")
		}
	})
}

func TestArtifactName(t *testing.T) {
	now := time.Now()

	t.Run("shape and extension", func(t *testing.T) {
		name := artifactName("application/pdf", now)
		if !strings.HasPrefix(name, "file_") || !strings.HasSuffix(name, ".pdf.enc") {
			t.Errorf("unexpected name: %s", name)
		}
	})

	t.Run("unknown mime falls back to bin", func(t *testing.T) {
		name := artifactName("application/x-rare-format-nobody-registered", now)
		if !strings.HasSuffix(name, ".bin.enc") {
			t.Errorf("unexpected name: %s", name)
		}
	})

	t.Run("empty mime falls back to bin", func(t *testing.T) {
		name := artifactName("", now)
		if !strings.HasSuffix(name, ".bin.enc") {
			t.Errorf("unexpected name: %s", name)
		}
	})

	t.Run("same instant yields distinct names", func(t *testing.T) {
		a := artifactName("text/plain", now)
		b := artifactName("text/plain", now)
		if a == b {
			t.Errorf("expected distinct names, got %s twice", a)
		}
	})
}

func TestVault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	vault, err := NewVault(dir)
	if err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("vault directory missing: %v", err)
	}
	if info.Mode().Perm() != 0o700 {
		t.Errorf("expected 0700 directory, got %o", info.Mode().Perm())
	}

	path, err := vault.Write("file_1.bin.enc", []byte("blob"))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	finfo, err := os.Stat(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if finfo.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 artifact, got %o", finfo.Mode().Perm())
	}
}

func TestBuilderBuild(t *testing.T) {
	vault, err := NewVault(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}
	builder := NewBuilder(vault, nil)

	result, err := builder.Build(context.Background(), 1024, "text/plain", time.Now())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if result.Size != 1024 {
		t.Errorf("expected declared size 1024, got %d", result.Size)
	}

	key, err := hex.DecodeString(result.KeyHex)
	if err != nil || len(key) != keyLen {
		t.Fatalf("expected hex-encoded %d-byte key, got %q", keyLen, result.KeyHex)
	}

	blob, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("artifact not on disk: %v", err)
	}

	payload, err := decrypt(blob, key)
	if err != nil {
		t.Fatalf("artifact does not decrypt with recorded key: %v", err)
	}
	if len(payload) != 1024 {
		t.Errorf("expected 1024-byte payload, got %d", len(payload))
	}

	t.Run("zero-length file still yields an artifact", func(t *testing.T) {
		result, err := builder.Build(context.Background(), 0, "application/pdf", time.Now())
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		if _, err := os.Stat(result.Path); err != nil {
			t.Errorf("artifact not on disk: %v", err)
		}
	})
}
