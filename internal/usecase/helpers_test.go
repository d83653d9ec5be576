package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/credential"
	"backoffice-agent/internal/infrastructure/httpclient"
	"backoffice-agent/internal/infrastructure/notify"
	"backoffice-agent/internal/infrastructure/token"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(level notify.Level, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type backend struct {
	cfg    *config.Config
	client httpclient.HTTPClient
	tokens token.TokenService
}

// newBackend points a real client at handler and signs in with a well
// formed token pair.
func newBackend(t *testing.T, handler http.HandlerFunc) *backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		App: config.AppConfig{Port: 8088},
		API: config.APIConfig{
			BaseURL:          srv.URL,
			Timeout:          5 * time.Second,
			RefreshTimeout:   5 * time.Second,
			RefreshTokenPath: "/auth/refresh-token",
		},
		Files: config.FilesConfig{
			DownloadDir:      t.TempDir(),
			ViewRevokeDelay:  time.Minute,
			MaxPreviewBlobMB: 1,
		},
	}
	logger := zap.NewNop()
	tokens := token.NewTokenService(cfg, credential.NewMemoryStore(), nil, logger)
	if err := tokens.Store(context.Background(), entity.TokenPair{AccessToken: "a.b.c", RefreshToken: "r.r.r"}); err != nil {
		t.Fatalf("store tokens: %v", err)
	}

	return &backend{
		cfg:    cfg,
		client: httpclient.NewHTTPClient(cfg, tokens, &recordingNotifier{}, nil, logger),
		tokens: tokens,
	}
}
