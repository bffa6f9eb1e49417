package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/centuryrain1980/Autograding/internal/config"
	"github.com/centuryrain1980/Autograding/internal/handler"
	"github.com/centuryrain1980/Autograding/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DocumentHandler *handler.DocumentHandler
	GradingHandler  *handler.GradingHandler
	SettingsHandler *handler.SettingsHandler
	ExportHandler   *handler.ExportHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(api.Group("/documents"))
	}
	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(api.Group("/grading"))
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.Register(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.Register(api)
	}
}
