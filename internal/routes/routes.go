package routes

import (
	"cinematch-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

// Setup mounts the relay under basePath ("" mounts at the root).
func Setup(app *fiber.App, basePath string, relayHandler *handlers.RelayHandler) {
	relay := app.Group(basePath)

	suggest := relay.Group("/suggest")
	{
		suggest.Post("/", relayHandler.Suggest)
		suggest.Get("/logs", relayHandler.SuggestLogs)
	}

	relay.Get("/search", relayHandler.Search)
	relay.Post("/details", relayHandler.Details)
}
