package asset

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"feedstream/pkg/logger"
)

// KeyPrefix is where image assets live in the object store. Asset references
// handed to clients are keys under this prefix.
const KeyPrefix = "images/"

// ObjectStore is the slice of the S3 client the manager needs.
type ObjectStore interface {
	UploadFile(key string, body io.Reader, contentType string) error
	DeleteFile(key string) error
	FileURL(key string) string
}

// Manager owns the binary image lifecycle: collision-resistant storage and
// best-effort reclamation of orphaned assets.
type Manager struct {
	store  ObjectStore
	logger *logger.Logger
}

func NewManager(store ObjectStore, log *logger.Logger) *Manager {
	return &Manager{store: store, logger: log}
}

// Store writes the bytes under a key derived from the original filename plus
// an ingestion-time suffix. The suffix makes a collision under contention
// astronomically unlikely, not provably impossible.
func (m *Manager) Store(body io.Reader, originalName, contentType string) (string, error) {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	if base == "" || base == "." {
		base = "image"
	}

	key := fmt.Sprintf("%s%s-%d%s", KeyPrefix, base, time.Now().UnixNano(), ext)
	if err := m.store.UploadFile(key, body, contentType); err != nil {
		return "", fmt.Errorf("failed to store asset: %w", err)
	}
	return key, nil
}

// Reclaim deletes an asset that no live post references anymore. It is
// fire-and-forget: failures are logged and swallowed, a missing key is a
// no-op, and callers never wait on the outcome.
func (m *Manager) Reclaim(key string) {
	if key == "" {
		return
	}
	if err := m.store.DeleteFile(key); err != nil {
		m.logger.Error("Failed to reclaim asset %s: %v", key, err)
	}
}

// URL renders the public form of an asset reference. An empty key has no
// URL.
func (m *Manager) URL(key string) string {
	if key == "" {
		return ""
	}
	return m.store.FileURL(key)
}
