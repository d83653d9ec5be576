package preview

import (
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"backoffice-agent/internal/config"
)

// Opener shows a URL to the user.
type Opener interface {
	Open(url string) error
	// Launches reports whether Open puts the URL in front of the user
	// right away.
	Launches() bool
}

type browserOpener struct{}

func (browserOpener) Open(url string) error {
	return browser.OpenURL(url)
}

func (browserOpener) Launches() bool { return true }

type logOpener struct {
	logger *zap.Logger
}

func (o logOpener) Open(url string) error {
	o.logger.Info("Preview ready", zap.String("url", url))
	return nil
}

func (logOpener) Launches() bool { return false }

// NewOpener launches the system browser when files.open_in_browser is set
// and only logs the URL otherwise.
func NewOpener(cfg *config.Config, logger *zap.Logger) Opener {
	if cfg.Files.OpenInBrowser {
		return browserOpener{}
	}
	return logOpener{logger: logger}
}
