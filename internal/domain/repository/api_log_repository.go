package repository

import (
	"context"

	"backoffice-agent/internal/domain/entity"
)

type APILogRepository interface {
	Save(ctx context.Context, log *entity.APILog) error
	FindAll(ctx context.Context, limit int) ([]entity.APILog, error)
	FindByEndpoint(ctx context.Context, endpoint string, limit int) ([]entity.APILog, error)
}
