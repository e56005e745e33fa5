package handlers

import (
	"errors"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterRequest struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
	IsLocked    *bool   `json:"is_locked"`
}

func AdminCreateChapter(c *fiber.Ctx) error {
	var req ChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	chapter := models.Chapter{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		IsLocked:    true,
	}
	if req.IsLocked != nil {
		chapter.IsLocked = *req.IsLocked
	}
	if err := database.DB.Create(&chapter).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create chapter"})
	}

	return c.Status(fiber.StatusCreated).JSON(chapter)
}

func AdminUpdateChapter(c *fiber.Ctx) error {
	chapterID := c.Params("chapterId")

	var chapter models.Chapter
	if err := database.DB.Where("id = ?", chapterID).First(&chapter).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chapter not found"})
	}

	var req ChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	chapter.Title = req.Title
	chapter.Description = req.Description
	chapter.Position = req.Position
	if req.IsLocked != nil {
		chapter.IsLocked = *req.IsLocked
	}
	database.DB.Save(&chapter)

	return c.JSON(chapter)
}

// AdminDeleteChapter removes a chapter with its episodes and their
// attachments in one transaction.
func AdminDeleteChapter(c *fiber.Ctx) error {
	chapterID := c.Params("chapterId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Chapter{}, "id = ?", chapterID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		episodeIDs := tx.Model(&models.Episode{}).Select("id").Where("chapter_id = ?", chapterID)
		if err := tx.Delete(&models.Attachment{}, "episode_id IN (?)", episodeIDs).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Episode{}, "chapter_id = ?", chapterID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chapter not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete chapter"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type EpisodeRequest struct {
	ChapterID       string  `json:"chapter_id" validate:"required,uuid4"`
	Title           string  `json:"title" validate:"required,min=2"`
	Description     *string `json:"description"`
	Position        int     `json:"position"`
	VideoKey        *string `json:"video_key"`
	ThumbnailKey    *string `json:"thumbnail_key"`
	DurationSeconds int     `json:"duration_seconds"`
	IsFreePreview   bool    `json:"is_free_preview"`
	IsLocked        *bool   `json:"is_locked"`
}

func AdminCreateEpisode(c *fiber.Ctx) error {
	var req EpisodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	chapterID, _ := uuid.Parse(req.ChapterID)
	var chapter models.Chapter
	if err := database.DB.Where("id = ?", chapterID).First(&chapter).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chapter not found"})
	}

	episode := models.Episode{
		ChapterID:       chapterID,
		Title:           req.Title,
		Description:     req.Description,
		Position:        req.Position,
		VideoKey:        req.VideoKey,
		ThumbnailKey:    req.ThumbnailKey,
		DurationSeconds: req.DurationSeconds,
		IsFreePreview:   req.IsFreePreview,
		IsLocked:        true,
	}
	if req.IsLocked != nil {
		episode.IsLocked = *req.IsLocked
	}
	if err := database.DB.Create(&episode).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create episode"})
	}

	return c.Status(fiber.StatusCreated).JSON(episode)
}

func AdminUpdateEpisode(c *fiber.Ctx) error {
	episodeID := c.Params("episodeId")

	var episode models.Episode
	if err := database.DB.Where("id = ?", episodeID).First(&episode).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}

	var req EpisodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	episode.Title = req.Title
	episode.Description = req.Description
	episode.Position = req.Position
	episode.VideoKey = req.VideoKey
	episode.ThumbnailKey = req.ThumbnailKey
	episode.DurationSeconds = req.DurationSeconds
	episode.IsFreePreview = req.IsFreePreview
	if req.IsLocked != nil {
		episode.IsLocked = *req.IsLocked
	}
	database.DB.Save(&episode)

	return c.JSON(episode)
}

func AdminDeleteEpisode(c *fiber.Ctx) error {
	episodeID := c.Params("episodeId")

	result := database.DB.Delete(&models.Episode{}, "id = ?", episodeID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete episode"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}

	database.DB.Delete(&models.Attachment{}, "episode_id = ?", episodeID)

	return c.SendStatus(fiber.StatusNoContent)
}

func AdminCreateAttachment(c *fiber.Ctx) error {
	type AttachmentRequest struct {
		EpisodeID string `json:"episode_id" validate:"required,uuid4"`
		Title     string `json:"title" validate:"required"`
		FileKey   string `json:"file_key" validate:"required"`
	}
	var req AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	episodeID, _ := uuid.Parse(req.EpisodeID)
	var episode models.Episode
	if err := database.DB.Where("id = ?", episodeID).First(&episode).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Episode not found"})
	}

	attachment := models.Attachment{
		EpisodeID: episodeID,
		Title:     req.Title,
		FileKey:   req.FileKey,
	}
	if err := database.DB.Create(&attachment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create attachment"})
	}

	return c.Status(fiber.StatusCreated).JSON(attachment)
}

func AdminDeleteAttachment(c *fiber.Ctx) error {
	attachmentID := c.Params("attachmentId")

	result := database.DB.Delete(&models.Attachment{}, "id = ?", attachmentID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete attachment"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attachment not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
