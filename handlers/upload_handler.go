package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avelini/course_academy/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var uploadPrefixes = map[string]string{
	"video":      "videos",
	"thumbnail":  "thumbnails",
	"attachment": "attachments",
}

// GeneratePresignedUpload hands the admin frontend a presigned PUT URL for
// a direct browser upload, plus the object key and its public read URL.
func GeneratePresignedUpload(c *fiber.Ctx) error {
	type PresignRequest struct {
		Kind        string `json:"kind" validate:"required,oneof=video thumbnail attachment"`
		Filename    string `json:"filename" validate:"required"`
		ContentType string `json:"content_type" validate:"required"`
	}
	var req PresignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if storage.Store == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Object storage is not configured"})
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	key := fmt.Sprintf("%s/%s%s", uploadPrefixes[req.Kind], uuid.New(), ext)

	uploadURL, err := storage.Store.PresignUpload(c.Context(), key, req.ContentType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to presign upload"})
	}

	return c.JSON(fiber.Map{
		"upload_url": uploadURL,
		"key":        key,
		"public_url": storage.Store.ObjectURL(key),
	})
}
