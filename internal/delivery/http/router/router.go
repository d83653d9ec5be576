package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/delivery/http/handler"
	"backoffice-agent/internal/domain/entity"
)

// maxBodySize allows multipart uploads of several documents through the gateway.
const maxBodySize = 64 << 20

type Router struct {
	app                 *fiber.App
	config              *config.Config
	healthHandler       *handler.HealthHandler
	sessionHandler      *handler.SessionHandler
	masterHandler       *handler.MasterHandler
	fileHandler         *handler.FileHandler
	dashboardHandler    *handler.DashboardHandler
	logHandler          *handler.LogHandler
	previewHandler      *handler.PreviewHandler
	notificationHandler *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	sessionHandler *handler.SessionHandler,
	masterHandler *handler.MasterHandler,
	fileHandler *handler.FileHandler,
	dashboardHandler *handler.DashboardHandler,
	logHandler *handler.LogHandler,
	previewHandler *handler.PreviewHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ErrorHandler:          customErrorHandler,
		BodyLimit:             maxBodySize,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	return &Router{
		app:                 app,
		config:              cfg,
		healthHandler:       healthHandler,
		sessionHandler:      sessionHandler,
		masterHandler:       masterHandler,
		fileHandler:         fileHandler,
		dashboardHandler:    dashboardHandler,
		logHandler:          logHandler,
		previewHandler:      previewHandler,
		notificationHandler: notificationHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// Log viewer route (HTML page)
	r.app.Get("/logs", r.logHandler.LogViewer)

	// Short-lived file previews opened in the browser
	r.app.Get("/preview/:id", r.previewHandler.Serve)

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		session := api.Group("/session")
		{
			session.Get("", r.sessionHandler.Status)
			session.Post("/login", r.sessionHandler.Login)
			session.Post("/logout", r.sessionHandler.Logout)
			session.Post("/refresh", r.sessionHandler.Refresh)
			session.Get("/profile", r.sessionHandler.Profile)
			session.Post("/password", r.sessionHandler.ChangePassword)
		}

		master := api.Group("/master")
		{
			master.Get("", r.masterHandler.Resources)
			master.Get("/:resource", r.masterHandler.List)
		}

		files := api.Group("/files")
		{
			files.Get("/view/:filename", r.fileHandler.View)
			files.Post("/download/:filename", r.fileHandler.Download)
		}

		api.Get("/dashboard", r.dashboardHandler.Overview)
		api.Get("/notifications", r.notificationHandler.Recent)

		// Log routes
		logs := api.Group("/logs")
		{
			logs.Get("", r.logHandler.GetLogs)
			logs.Get("/search", r.logHandler.SearchLogs)
		}
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(
		entity.NewErrorResponse("unknown", err.Error()).WithStatus(code),
	)
}
