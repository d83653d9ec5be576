package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/domain/repository"
	"backoffice-agent/internal/infrastructure/apierror"
	"backoffice-agent/internal/infrastructure/credential"
)

const refreshFlightKey = "refresh"

// TokenService owns the credential state and the refresh handshake.
type TokenService interface {
	// AccessToken returns the bearer to attach. ok is false when no token is
	// held or the held one is malformed, in which case the session is ended.
	AccessToken(ctx context.Context) (token string, ok bool)

	// Refresh exchanges the refresh token for a new pair and returns the new
	// access token. staleToken is the bearer the failed request carried, empty
	// when it went out unauthenticated. A stored valid token other than
	// staleToken is returned without a round-trip. Concurrent callers share
	// one round-trip.
	Refresh(ctx context.Context, staleToken string) (string, error)

	// ForceRefresh always exchanges the refresh token, sharing the round-trip
	// with any refresh already in flight.
	ForceRefresh(ctx context.Context) (string, error)

	// Store replaces both tokens.
	Store(ctx context.Context, pair entity.TokenPair) error

	// Logout clears the state and tells the session listener.
	Logout(ctx context.Context, reason string) error

	Credentials(ctx context.Context) (entity.Credentials, error)
}

type tokenService struct {
	config   *config.Config
	store    repository.CredentialRepository
	listener SessionListener
	logger   *zap.Logger
	client   *http.Client
	flight   singleflight.Group
}

func NewTokenService(cfg *config.Config, store repository.CredentialRepository, listener SessionListener, logger *zap.Logger) TokenService {
	return &tokenService{
		config:   cfg,
		store:    store,
		listener: listener,
		logger:   logger,
		client: &http.Client{
			Timeout: cfg.API.RefreshTimeout,
		},
	}
}

func (s *tokenService) AccessToken(ctx context.Context) (string, bool) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to read credential state, sending unauthenticated", zap.Error(err))
		return "", false
	}

	if !credential.Present(creds.AccessToken) {
		return "", false
	}

	if !credential.ValidShape(creds.AccessToken) {
		s.logger.Warn("Stored access token is malformed, ending session")
		_ = s.Logout(ctx, ErrMalformedToken.Error())
		return "", false
	}

	return creds.AccessToken, true
}

func (s *tokenService) Refresh(ctx context.Context, staleToken string) (string, error) {
	creds, err := s.store.Load(ctx)
	if err == nil && credential.ValidShape(creds.AccessToken) && creds.AccessToken != staleToken {
		s.logger.Debug("Access token already refreshed, skipping refresh")
		return creds.AccessToken, nil
	}
	return s.ForceRefresh(ctx)
}

func (s *tokenService) ForceRefresh(ctx context.Context) (string, error) {
	// The shared refresh must finish even if the caller that started it gives up.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.flight.Do(refreshFlightKey, func() (interface{}, error) {
		return s.refresh(flightCtx)
	})
	if shared {
		s.logger.Debug("Joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *tokenService) refresh(ctx context.Context) (string, error) {
	creds, err := s.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to load credentials: %w", ErrUnauthorized, err)
	}

	if !credential.ValidShape(creds.RefreshToken) {
		s.logger.Warn("No usable refresh token, ending session")
		_ = s.Logout(ctx, ErrNoRefreshToken.Error())
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, ErrNoRefreshToken)
	}

	s.logger.Info("Refreshing access token")

	pair, err := s.requestRefresh(ctx, creds.RefreshToken)
	if err != nil {
		s.logger.Warn("Token refresh failed, ending session", zap.Error(err))
		_ = s.Logout(ctx, "token refresh failed")
		return "", fmt.Errorf("%w: failed to refresh token: %w", ErrUnauthorized, err)
	}

	if err := s.Store(ctx, pair); err != nil {
		return "", fmt.Errorf("failed to store refreshed tokens: %w", err)
	}

	s.logger.Info("Successfully refreshed tokens")
	return pair.AccessToken, nil
}

func (s *tokenService) Store(ctx context.Context, pair entity.TokenPair) error {
	if err := s.store.Save(ctx, entity.Credentials{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}); err != nil {
		return err
	}

	fields := []zap.Field{}
	if exp, ok := credential.ExpiresAt(pair.AccessToken); ok {
		fields = append(fields, zap.Time("access_token_expires_at", exp))
	}
	if exp, ok := credential.ExpiresAt(pair.RefreshToken); ok {
		fields = append(fields, zap.Time("refresh_token_expires_at", exp))
	}
	s.logger.Debug("Tokens stored", fields...)
	return nil
}

func (s *tokenService) Logout(ctx context.Context, reason string) error {
	err := s.store.Clear(ctx)
	if err != nil {
		s.logger.Error("Failed to clear credential state", zap.Error(err))
	}

	s.logger.Info("Session ended", zap.String("reason", reason))
	if s.listener != nil {
		s.listener.SessionEnded(ctx, reason)
	}
	return err
}

func (s *tokenService) Credentials(ctx context.Context) (entity.Credentials, error) {
	return s.store.Load(ctx)
}

// refreshResponse accepts the pair at the top level or under "data".
type refreshResponse struct {
	entity.TokenPair
	Data *entity.TokenPair `json:"data"`
}

func (s *tokenService) requestRefresh(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
	refreshURL := s.config.API.BaseURL + s.config.API.RefreshTokenPath

	jsonBody, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return entity.TokenPair{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, refreshURL, bytes.NewReader(jsonBody))
	if err != nil {
		return entity.TokenPair{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	s.logger.Info(">>> [TOKEN-REFRESH-REQ]", zap.String("url", refreshURL))

	resp, err := s.client.Do(req)
	if err != nil {
		return entity.TokenPair{}, apierror.Network(http.MethodPost, refreshURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.TokenPair{}, apierror.Network(http.MethodPost, refreshURL, err)
	}

	s.logger.Info(">>> [TOKEN-REFRESH-RESPONSE]",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.TokenPair{}, apierror.FromResponse(http.MethodPost, refreshURL, resp.StatusCode, resp.Status, respBody)
	}

	var parsed refreshResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return entity.TokenPair{}, fmt.Errorf("failed to unmarshal refresh response: %w", err)
	}

	pair := parsed.TokenPair
	if !pair.Complete() && parsed.Data != nil {
		pair = *parsed.Data
	}
	if !pair.Complete() {
		return entity.TokenPair{}, ErrIncompleteTokenPair
	}
	return pair, nil
}
