package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"backoffice-agent/internal/config"
	deliveryhttp "backoffice-agent/internal/delivery/http"
	"backoffice-agent/internal/infrastructure/credential"
	"backoffice-agent/internal/infrastructure/database"
	"backoffice-agent/internal/infrastructure/document"
	"backoffice-agent/internal/infrastructure/httpclient"
	"backoffice-agent/internal/infrastructure/logger"
	"backoffice-agent/internal/infrastructure/notify"
	"backoffice-agent/internal/infrastructure/preview"
	"backoffice-agent/internal/infrastructure/repository"
	"backoffice-agent/internal/infrastructure/token"
	"backoffice-agent/internal/server"
	"backoffice-agent/internal/usecase"
)

// Modules is the full agent: configuration, infrastructure, usecases and the
// local gateway.
func Modules() fx.Option {
	return fx.Options(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		notify.Module,
		database.Module,
		repository.Module,
		credential.Module,
		token.Module,
		httpclient.Module,
		document.Module,
		preview.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	)
}

// Application wraps the fx.App for service management
type Application struct {
	app      *fx.App
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
	err      error
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:      ctx,
		cancel:   cancel,
		doneChan: make(chan struct{}),
	}
}

// Run starts the application and blocks until a shutdown signal or Shutdown.
func (a *Application) Run() {
	defer close(a.doneChan)

	a.app = fx.New(Modules())

	if err := a.app.Start(a.ctx); err != nil {
		a.err = err
		return
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		a.Shutdown()
	case <-a.ctx.Done():
		// Context was cancelled
	}
}

// Shutdown gracefully shuts down the application
func (a *Application) Shutdown() {
	a.cancel()
	if a.app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		_ = a.app.Stop(ctx)
	}
}

// Done is closed once Run returns.
func (a *Application) Done() <-chan struct{} {
	return a.doneChan
}

// Err reports why the application failed to start, if it did.
func (a *Application) Err() error {
	return a.err
}

// Wait blocks until the application exits
func (a *Application) Wait() {
	<-a.doneChan
}
