package http

import (
	"go.uber.org/fx"

	"backoffice-agent/internal/delivery/http/handler"
	"backoffice-agent/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewHealthHandler,
		handler.NewSessionHandler,
		handler.NewMasterHandler,
		handler.NewFileHandler,
		handler.NewDashboardHandler,
		handler.NewLogHandler,
		handler.NewPreviewHandler,
		handler.NewNotificationHandler,
		router.NewRouter,
	),
)
