package artifact

import (
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"
)

// Common mime types mapped ahead of the platform mime database, so artifact
// names stay stable across hosts.
var wellKnownExtensions = map[string]string{
	"text/plain":       "txt",
	"text/csv":         "csv",
	"text/html":        "html",
	"application/pdf":  "pdf",
	"application/json": "json",
	"application/zip":  "zip",
	"image/png":        "png",
	"image/jpeg":       "jpg",
	"image/gif":        "gif",
	"video/mp4":        "mp4",
	"audio/mpeg":       "mp3",
}

const fallbackExtension = "bin"

var (
	stampMu   sync.Mutex
	lastStamp int64
)

// nextStamp returns a millisecond timestamp that is strictly greater than
// any stamp previously handed out by this process. Two files claimed within
// the same millisecond must still get distinct artifact names.
func nextStamp(now time.Time) int64 {
	stampMu.Lock()
	defer stampMu.Unlock()

	ms := now.UnixMilli()
	if ms <= lastStamp {
		ms = lastStamp + 1
	}
	lastStamp = ms
	return ms
}

// extensionFor maps a mime type to a filename extension without the dot.
func extensionFor(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if ext, ok := wellKnownExtensions[mt]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return fallbackExtension
}

// artifactName builds the canonical artifact file name,
// e.g. "file_1756454400000.pdf.enc".
func artifactName(mimeType string, now time.Time) string {
	return fmt.Sprintf("file_%d.%s.enc", nextStamp(now), extensionFor(mimeType))
}
