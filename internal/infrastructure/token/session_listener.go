package token

import (
	"context"

	"go.uber.org/zap"

	"backoffice-agent/internal/config"
)

// SessionListener is told when the session ends and the user has to log in
// again.
type SessionListener interface {
	SessionEnded(ctx context.Context, reason string)
}

type loginPrompt struct {
	loginURL string
	logger   *zap.Logger
}

// NewSessionListener points the user at the login route. User-facing
// messages for the failed request come from the error handler.
func NewSessionListener(cfg *config.Config, logger *zap.Logger) SessionListener {
	return &loginPrompt{
		loginURL: cfg.App.BaseURL + cfg.API.LoginPath,
		logger:   logger,
	}
}

func (p *loginPrompt) SessionEnded(ctx context.Context, reason string) {
	p.logger.Warn("Login required", zap.String("reason", reason), zap.String("login", p.loginURL))
}
