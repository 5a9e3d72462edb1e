package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/publicpulse/publicpulse-api/internal/config"
	"github.com/publicpulse/publicpulse-api/internal/handler"
	"github.com/publicpulse/publicpulse-api/internal/middleware"
	"github.com/publicpulse/publicpulse-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	IssueHandler     *handler.IssueHandler
	ContactHandler   *handler.ContactHandler
	AdminHandler     *handler.AdminHandler
	ReportLogHandler *handler.ReportLogHandler
	SessionGate      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.IssueHandler != nil {
		deps.IssueHandler.Register(api)
	}
	if deps.ContactHandler != nil {
		deps.ContactHandler.Register(api)
	}

	admin := api.Group("/admin")
	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(admin)
	}

	sessionGate := deps.SessionGate
	if sessionGate == nil {
		sessionGate = middleware.SessionProtected(cfg.SessionSecret)
	}

	guarded := admin.Group("", sessionGate)
	if deps.IssueHandler != nil {
		deps.IssueHandler.RegisterAdmin(guarded)
	}
	if deps.ContactHandler != nil {
		deps.ContactHandler.RegisterAdmin(guarded)
	}
	if deps.ReportLogHandler != nil {
		deps.ReportLogHandler.RegisterAdmin(guarded)
	}
}
