package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/domain/repository"
	"backoffice-agent/internal/infrastructure/redis"
)

const credentialKeyPrefix = "backoffice:credentials:"

type redisStore struct {
	redis  *redis.RedisClient
	key    string
	logger *zap.Logger
}

// NewRedisStore persists credentials under one key per profile so they
// survive restarts of the agent.
func NewRedisStore(client *redis.RedisClient, profile string, logger *zap.Logger) repository.CredentialRepository {
	return &redisStore{
		redis:  client,
		key:    credentialKeyPrefix + profile,
		logger: logger,
	}
}

func (s *redisStore) Load(ctx context.Context) (entity.Credentials, error) {
	raw, err := s.redis.Get(ctx, s.key)
	if errors.Is(err, goredis.Nil) {
		return entity.Credentials{}, nil
	}
	if err != nil {
		return entity.Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	var creds entity.Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		// Unreadable state is treated as absent
		s.logger.Warn("Discarding unreadable credential state", zap.String("key", s.key), zap.Error(err))
		return entity.Credentials{}, nil
	}
	return creds, nil
}

func (s *redisStore) Save(ctx context.Context, creds entity.Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	// Keep the entry only as long as the refresh token can be used
	var ttl time.Duration
	if exp, ok := ExpiresAt(creds.RefreshToken); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}

	if err := s.redis.Set(ctx, s.key, string(payload), ttl); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	s.logger.Debug("Credentials stored in Redis",
		zap.String("key", s.key),
		zap.Duration("ttl", ttl),
	)
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
