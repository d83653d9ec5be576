package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/infrastructure/document"
	"backoffice-agent/internal/infrastructure/httpclient"
	"backoffice-agent/internal/infrastructure/preview"
)

// PreviewLink is a temporary URL for a fetched file.
type PreviewLink struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FileUsecase interface {
	// View fetches a stored file and exposes it at a preview URL that is
	// revoked after files.view_revoke_delay, or files.gateway_revoke_delay
	// when no browser is launched
	View(ctx context.Context, filename string) (*PreviewLink, error)

	// ViewFor is View with an explicit revoke delay
	ViewFor(ctx context.Context, filename string, revokeAfter time.Duration) (*PreviewLink, error)

	// Download saves a stored file into the download folder as displayName,
	// or under the server's name when displayName is empty
	Download(ctx context.Context, filename, displayName string) (string, error)
}

type fileUsecase struct {
	config    *config.Config
	client    httpclient.HTTPClient
	documents document.DocumentService
	previews  *preview.Registry
	opener    preview.Opener
	logger    *zap.Logger
}

func NewFileUsecase(
	cfg *config.Config,
	client httpclient.HTTPClient,
	documents document.DocumentService,
	previews *preview.Registry,
	opener preview.Opener,
	logger *zap.Logger,
) FileUsecase {
	return &fileUsecase{
		config:    cfg,
		client:    client,
		documents: documents,
		previews:  previews,
		opener:    opener,
		logger:    logger,
	}
}

func (u *fileUsecase) View(ctx context.Context, filename string) (*PreviewLink, error) {
	return u.ViewFor(ctx, filename, u.revokeDelay())
}

func (u *fileUsecase) revokeDelay() time.Duration {
	delay := u.config.Files.ViewRevokeDelay
	if !u.opener.Launches() {
		delay = max(delay, u.config.Files.GatewayRevokeDelay)
	}
	return delay
}

func (u *fileUsecase) ViewFor(ctx context.Context, filename string, revokeAfter time.Duration) (*PreviewLink, error) {
	if err := requireID("filename", filename); err != nil {
		return nil, err
	}

	payload, err := u.client.Fetch(ctx, "/files/view/"+url.PathEscape(filename))
	if err != nil {
		u.logger.Error("Failed to fetch file for viewing", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	id, err := u.previews.Register(payload.Filename, payload.ContentType, payload.Data, revokeAfter)
	if err != nil {
		u.logger.Error("Failed to register preview", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	entry, ok := u.previews.Get(id)
	if !ok {
		return nil, fmt.Errorf("preview %s revoked before use", id)
	}

	link := &PreviewLink{
		ID:        id,
		URL:       u.publicURL() + "/preview/" + id,
		Filename:  payload.Filename,
		ExpiresAt: entry.ExpiresAt,
	}

	if err := u.opener.Open(link.URL); err != nil {
		u.logger.Warn("Failed to open preview", zap.String("url", link.URL), zap.Error(err))
	}
	return link, nil
}

func (u *fileUsecase) Download(ctx context.Context, filename, displayName string) (string, error) {
	if err := requireID("filename", filename); err != nil {
		return "", err
	}

	payload, err := u.client.Fetch(ctx, "/files/download/"+url.PathEscape(filename))
	if err != nil {
		u.logger.Error("Failed to fetch file for download", zap.String("filename", filename), zap.Error(err))
		return "", err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = filename
	}

	path, err := u.documents.SaveDownload(name, payload.Data)
	if err != nil {
		u.logger.Error("Failed to save download", zap.String("filename", name), zap.Error(err))
		return "", err
	}
	return path, nil
}

// publicURL is where the gateway can be reached by the user's browser.
func (u *fileUsecase) publicURL() string {
	if base := strings.TrimRight(u.config.App.BaseURL, "/"); base != "" {
		return base
	}
	return fmt.Sprintf("http://localhost:%d", u.config.App.Port)
}
