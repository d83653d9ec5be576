// Package preview serves fetched files from short-lived local URLs.
package preview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice-agent/internal/config"
)

const defaultRevokeDelay = time.Second

// ErrTooLarge is returned for blobs above files.max_preview_blob_mb.
var ErrTooLarge = errors.New("file too large to preview")

// Entry is one registered blob.
type Entry struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	ExpiresAt   time.Time
}

// Registry holds blobs until their revoke delay elapses.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	maxBytes int
	logger   *zap.Logger
}

func NewRegistry(cfg *config.Config, logger *zap.Logger) *Registry {
	return &Registry{
		entries:  make(map[string]*Entry),
		maxBytes: cfg.Files.MaxPreviewBlobMB << 20,
		logger:   logger,
	}
}

// Register stores data and schedules its revocation. A non-positive
// revokeAfter uses the one second default.
func (r *Registry) Register(filename, contentType string, data []byte, revokeAfter time.Duration) (string, error) {
	if r.maxBytes > 0 && len(data) > r.maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if revokeAfter <= 0 {
		revokeAfter = defaultRevokeDelay
	}

	id := uuid.NewString()
	entry := &Entry{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		ExpiresAt:   time.Now().Add(revokeAfter),
	}

	r.mu.Lock()
	r.entries[id] = entry
	r.mu.Unlock()

	time.AfterFunc(revokeAfter, func() { r.Revoke(id) })

	r.logger.Debug("Preview registered",
		zap.String("id", id),
		zap.String("filename", filename),
		zap.Duration("revoke_after", revokeAfter),
	)
	return id, nil
}

func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// Revoke drops the blob; unknown ids are ignored.
func (r *Registry) Revoke(id string) {
	r.mu.Lock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		r.logger.Debug("Preview revoked", zap.String("id", id))
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
