package routes

import (
	"github.com/avelini/course_academy/handlers"
	"github.com/avelini/course_academy/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Stripe calls this; authentication is the signature header
	api.Post("/payments/webhook", handlers.HandleStripeWebhook)

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("/checkout", handlers.CreateCheckoutSession)
}
