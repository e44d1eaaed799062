package server

import (
	"finance-import/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the stub import server: the wire contract the client talks to,
// backed by an in-memory job store. It carries no queue and no persistence;
// jobs live for the lifetime of the process.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   cfg.AppName,
		BodyLimit: cfg.UploadMaxSize,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	store := NewJobStore(cfg.JobRowDelay)
	handler := NewImportHandler(store)

	api := app.Group("/api")
	api.Post("/import", handler.SubmitImport)
	api.Get("/import/:id/status", handler.GetJobStatus)

	return app
}
