package handlers

import (
	"errors"
	"time"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/middleware"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/services"
	"github.com/avelini/course_academy/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListChapters returns the course outline. Locked content is listed with
// metadata only; media URLs never appear here.
func ListChapters(c *fiber.Ctx) error {
	var chapters []models.Chapter
	err := database.DB.
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episodes.position asc")
		}).
		Order("position asc").
		Find(&chapters).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(chapters)
}

// GetEpisode returns one episode; video/thumbnail/attachment URLs are only
// included when the caller may watch it.
func GetEpisode(c *fiber.Ctx) error {
	episodeID := c.Params("episodeId")

	var episode models.Episode
	if err := database.DB.Preload("Chapter").Preload("Attachments").Where("id = ?", episodeID).First(&episode).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	if !canWatchEpisode(&user, &episode) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: Course purchase required"})
	}

	response := fiber.Map{"episode": episode}
	if storage.Store != nil {
		if episode.VideoKey != nil {
			response["video_url"] = storage.Store.ObjectURL(*episode.VideoKey)
		}
		if episode.ThumbnailKey != nil {
			response["thumbnail_url"] = storage.Store.ObjectURL(*episode.ThumbnailKey)
		}
		attachmentURLs := make(map[string]string, len(episode.Attachments))
		for _, a := range episode.Attachments {
			attachmentURLs[a.ID.String()] = storage.Store.ObjectURL(a.FileKey)
		}
		response["attachment_urls"] = attachmentURLs
	}

	return c.JSON(response)
}

// canWatchEpisode: paying users and admins see everything; everyone else
// only unlocked free previews in unlocked chapters.
func canWatchEpisode(user *models.User, episode *models.Episode) bool {
	if user.CanWatch() {
		return true
	}
	if episode.Chapter.IsLocked || episode.IsLocked {
		return false
	}
	return episode.IsFreePreview
}

// CompleteEpisode records viewing progress. Completing the final episode
// triggers certificate generation in the background.
func CompleteEpisode(c *fiber.Ctx) error {
	episodeID, err := uuid.Parse(c.Params("episodeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid episode ID format"})
	}

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	var episode models.Episode
	if err := database.DB.Preload("Chapter").Where("id = ?", episodeID).First(&episode).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}

	if !canWatchEpisode(&user, &episode) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: Course purchase required"})
	}

	var existing models.EpisodeProgress
	err = database.DB.Where("user_id = ? AND episode_id = ?", userID, episodeID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress := models.EpisodeProgress{
			UserID:      userID,
			EpisodeID:   episodeID,
			CompletedAt: time.Now(),
		}
		if err := database.DB.Create(&progress).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save progress"})
		}
	}

	go services.CheckAndGenerateCertificate(database.DB, user)

	return c.JSON(fiber.Map{"message": "Episode marked as completed"})
}

func GetMyProgress(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var progress []models.EpisodeProgress
	database.DB.Where("user_id = ?", userID).Order("completed_at desc").Find(&progress)

	var totalEpisodes int64
	database.DB.Model(&models.Episode{}).Count(&totalEpisodes)

	return c.JSON(fiber.Map{
		"completed":      progress,
		"total_episodes": totalEpisodes,
	})
}

func GetMyCertificate(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var certificate models.Certificate
	if err := database.DB.Where("user_id = ?", userID).First(&certificate).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not yet issued"})
	}
	return c.JSON(certificate)
}
