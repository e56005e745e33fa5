package routes

import (
	"github.com/avelini/course_academy/handlers"
	"github.com/avelini/course_academy/middleware"
	"github.com/gofiber/fiber/v2"
)

func AffiliateRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// code validation happens pre-purchase, so it stays public
	api.Post("/affiliates/validate", handlers.ValidateAffiliateCode)

	affiliates := api.Group("/affiliates", middleware.Protected())
	affiliates.Post("/create", handlers.CreateAffiliateCode)
	affiliates.Get("/stats", handlers.GetAffiliateStats)
	affiliates.Post("/request-payout", handlers.RequestPayout)
	affiliates.Get("/payouts", handlers.GetMyPayouts)
}
