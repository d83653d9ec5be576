package repository

import (
	"go.uber.org/fx"

	"backoffice-agent/internal/domain/repository"
	"backoffice-agent/internal/infrastructure/httpclient"
)

// provideAPILogSaver exposes the API log repository to the HTTP client
func provideAPILogSaver(repo repository.APILogRepository) httpclient.APILogSaver {
	return repo
}

var Module = fx.Module("repository",
	fx.Provide(NewAPILogRepository),
	fx.Provide(provideAPILogSaver),
)
