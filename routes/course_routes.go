package routes

import (
	"github.com/avelini/course_academy/handlers"
	"github.com/avelini/course_academy/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// outline is public; episode media is gated in the handler
	api.Get("/chapters", handlers.ListChapters)

	episodes := api.Group("/episodes", middleware.Protected())
	episodes.Get("/:episodeId", handlers.GetEpisode)
	episodes.Post("/:episodeId/complete", handlers.CompleteEpisode)
}
