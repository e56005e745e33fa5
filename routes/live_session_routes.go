package routes

import (
	"github.com/avelini/course_academy/handlers"
	"github.com/avelini/course_academy/middleware"
	"github.com/gofiber/fiber/v2"
)

func LiveSessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/live-sessions", handlers.ListLiveSessions)
	api.Get("/live-sessions/:sessionId", handlers.GetLiveSession)
	api.Get("/live-sessions/:sessionId/join", middleware.Protected(), middleware.PaidRequired(), handlers.JoinLiveSession)

	// websocket auth happens in the handler via a token query parameter
	app.Get("/ws/live-sessions/:sessionId", handlers.LiveSessionChat())
}
