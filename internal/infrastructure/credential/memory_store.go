package credential

import (
	"context"
	"sync"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/domain/repository"
)

type memoryStore struct {
	mu    sync.RWMutex
	creds entity.Credentials
}

// NewMemoryStore keeps credentials for the lifetime of the process.
func NewMemoryStore() repository.CredentialRepository {
	return &memoryStore{}
}

func (s *memoryStore) Load(ctx context.Context) (entity.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

func (s *memoryStore) Save(ctx context.Context, creds entity.Credentials) error {
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.creds = entity.Credentials{}
	s.mu.Unlock()
	return nil
}
