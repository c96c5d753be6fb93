// Package artifact produces the encrypted placeholder blobs a provider
// stores in exchange for claimed marketplace files.
//
// An artifact never contains the user's data. The payload is synthesized
// locally to match the original file's declared size, encrypted with a fresh
// per-artifact key, and written to the provider's local vault (optionally
// mirrored to S3-compatible storage).
package artifact

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// textFillAlphabet is the character set used to fill placeholder payloads
// for text-like files.
const textFillAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 "

// buildPayload synthesizes a placeholder payload of exactly size bytes.
// Text-like mime types get printable filler; everything else gets random
// bytes. A zero size yields an empty (but valid) payload.
func buildPayload(size int64, mimeType string) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid payload size %d", size)
	}

	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}

	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate payload: %w", err)
	}

	if isTextMime(mimeType) {
		for i, b := range buf {
			buf[i] = textFillAlphabet[int(b)%len(textFillAlphabet)]
		}
	}
	return buf, nil
}

func isTextMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "text/")
}
