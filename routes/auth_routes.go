package routes

import (
	"github.com/avelini/course_academy/handlers"
	"github.com/avelini/course_academy/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)

	me := api.Group("/me", middleware.Protected())
	me.Get("", handlers.GetMyProfile)
	me.Put("", handlers.UpdateMyProfile)
	me.Get("/payments", handlers.GetMyPayments)
	me.Get("/progress", handlers.GetMyProgress)
	me.Get("/certificate", handlers.GetMyCertificate)
}
