package credential

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/repository"
	"backoffice-agent/internal/infrastructure/redis"
)

// NewStore picks the credential backend named in config.
func NewStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (repository.CredentialRepository, error) {
	switch cfg.Credential.Backend {
	case config.CredentialBackendRedis:
		client, err := redis.NewRedisClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(client.Close))
		logger.Info("Credential state backed by Redis", zap.String("profile", cfg.Credential.Profile))
		return NewRedisStore(client, cfg.Credential.Profile, logger), nil
	case config.CredentialBackendMemory, "":
		logger.Info("Credential state kept in memory")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.Credential.Backend)
	}
}

var Module = fx.Module("credential",
	fx.Provide(NewStore),
)
