package repository

import (
	"context"

	"backoffice-agent/internal/domain/entity"
)

// CredentialRepository holds the process-wide auth state. Every write replaces
// the whole value.
type CredentialRepository interface {
	Load(ctx context.Context) (entity.Credentials, error)
	Save(ctx context.Context, creds entity.Credentials) error
	Clear(ctx context.Context) error
}
