package routes

import (
	"github.com/avelini/course_academy/handlers"
	"github.com/avelini/course_academy/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)

	admin.Get("/payments", handlers.AdminGetPayments)
	admin.Get("/affiliates", handlers.AdminListAffiliates)

	payouts := admin.Group("/payouts")
	payouts.Get("", handlers.ListPayouts)
	payouts.Post("/:payoutId/approve", handlers.ApprovePayout)
	payouts.Post("/:payoutId/complete", handlers.CompletePayout)
	payouts.Post("/:payoutId/reject", handlers.RejectPayout)

	chapters := admin.Group("/chapters")
	chapters.Post("", handlers.AdminCreateChapter)
	chapters.Put("/:chapterId", handlers.AdminUpdateChapter)
	chapters.Delete("/:chapterId", handlers.AdminDeleteChapter)

	episodes := admin.Group("/episodes")
	episodes.Post("", handlers.AdminCreateEpisode)
	episodes.Put("/:episodeId", handlers.AdminUpdateEpisode)
	episodes.Delete("/:episodeId", handlers.AdminDeleteEpisode)

	attachments := admin.Group("/attachments")
	attachments.Post("", handlers.AdminCreateAttachment)
	attachments.Delete("/:attachmentId", handlers.AdminDeleteAttachment)

	sessions := admin.Group("/live-sessions")
	sessions.Post("", handlers.AdminCreateLiveSession)
	sessions.Put("/:sessionId", handlers.AdminUpdateLiveSession)
	sessions.Delete("/:sessionId", handlers.AdminDeleteLiveSession)

	admin.Post("/uploads/presign", handlers.GeneratePresignedUpload)
}
