package routers

import (
	"social-publisher/internal/delivery/http/handlers"
	consts "social-publisher/pkg/constants"

	"github.com/gofiber/fiber/v2"
)

func SetupPublishRoutes(app *fiber.App, publishHandler *handlers.PublishHandler) {
	api := app.Group("/api/v1")
	api.Post("/publish", publishHandler.Publish)
	api.Post("/publish/jobs", publishHandler.EnqueuePublish)
	api.Get("/publish/jobs/:id", publishHandler.JobStatus)
}

func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": consts.StatusOK})
	})
}

// SetupStaticRoutes serves locally stored normalized images under urlPrefix.
func SetupStaticRoutes(app *fiber.App, urlPrefix, dir string) {
	if dir == "" {
		return
	}
	app.Static(urlPrefix, dir)
}
