package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cyberquiz_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain. Recovery comes first so it
// also covers the other middlewares.
func SetupMiddlewares(app *fiber.App, corsOrigins string, requestTimeout time.Duration) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(requestTimeout))
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware(corsOrigins))
}
