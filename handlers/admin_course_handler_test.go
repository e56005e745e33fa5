package handlers_test

import (
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func adminBearer(t *testing.T, admin *models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id":    admin.ID.String(),
		"role":       admin.Role,
		"has_access": admin.HasAccess,
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + signed
}

func createChapterWithAttachment(t *testing.T, title string) (*models.Chapter, *models.Episode, *models.Attachment) {
	t.Helper()

	chapter := models.Chapter{Title: title}
	if err := database.DB.Create(&chapter).Error; err != nil {
		t.Fatalf("failed to create chapter: %v", err)
	}
	episode := models.Episode{ChapterID: chapter.ID, Title: title + " Episode"}
	if err := database.DB.Create(&episode).Error; err != nil {
		t.Fatalf("failed to create episode: %v", err)
	}
	attachment := models.Attachment{EpisodeID: episode.ID, Title: "Slides", FileKey: "attachments/slides.pdf"}
	if err := database.DB.Create(&attachment).Error; err != nil {
		t.Fatalf("failed to create attachment: %v", err)
	}
	return &chapter, &episode, &attachment
}

// Deleting a chapter must take its episodes and their attachments with it,
// and leave other chapters alone.
func TestDeleteChapterCascadesToAttachments(t *testing.T) {
	app := setupTestApp(t)

	admin := models.User{FullName: "Admin", Email: "admin@example.com", Password: "x", Role: "admin", HasAccess: true}
	if err := database.DB.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	doomed, doomedEpisode, _ := createChapterWithAttachment(t, "Doomed")
	survivor, survivorEpisode, _ := createChapterWithAttachment(t, "Survivor")

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/v1/admin/chapters/%s", doomed.ID), nil)
	req.Header.Set("Authorization", adminBearer(t, &admin))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	var chapterCount, episodeCount, attachmentCount int64
	database.DB.Model(&models.Chapter{}).Where("id = ?", doomed.ID).Count(&chapterCount)
	database.DB.Model(&models.Episode{}).Where("chapter_id = ?", doomed.ID).Count(&episodeCount)
	database.DB.Model(&models.Attachment{}).Where("episode_id = ?", doomedEpisode.ID).Count(&attachmentCount)
	if chapterCount != 0 || episodeCount != 0 || attachmentCount != 0 {
		t.Errorf("expected full cascade, left chapters=%d episodes=%d attachments=%d",
			chapterCount, episodeCount, attachmentCount)
	}

	database.DB.Model(&models.Chapter{}).Where("id = ?", survivor.ID).Count(&chapterCount)
	database.DB.Model(&models.Attachment{}).Where("episode_id = ?", survivorEpisode.ID).Count(&attachmentCount)
	if chapterCount != 1 || attachmentCount != 1 {
		t.Errorf("other chapters must survive, got chapters=%d attachments=%d", chapterCount, attachmentCount)
	}
}

func TestDeleteChapterUnknownID(t *testing.T) {
	app := setupTestApp(t)

	admin := models.User{FullName: "Admin", Email: "admin@example.com", Password: "x", Role: "admin", HasAccess: true}
	if err := database.DB.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/api/v1/admin/chapters/00000000-0000-0000-0000-000000000000", nil)
	req.Header.Set("Authorization", adminBearer(t, &admin))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
