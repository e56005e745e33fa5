package handlers

import (
	"log"
	"strings"
	"time"

	config "github.com/avelini/course_academy/configs"
	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	ws "github.com/avelini/course_academy/websocket"
	fiberws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ListLiveSessions is public; meeting links are only exposed to users with
// course access, so the public payload strips them.
func ListLiveSessions(c *fiber.Ctx) error {
	var sessions []models.LiveSession
	err := database.DB.Where("status IN ?", []string{"scheduled", "live"}).
		Order("starts_at asc").Find(&sessions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	for i := range sessions {
		sessions[i].MeetingLink = nil
	}
	return c.JSON(sessions)
}

func GetLiveSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.LiveSession
	if err := database.DB.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Live session not found"})
	}

	session.MeetingLink = nil

	parsedID, _ := uuid.Parse(sessionID)
	return c.JSON(fiber.Map{
		"session": session,
		"viewers": ws.ViewerCount(parsedID),
	})
}

// JoinLiveSession hands out the meeting link. Sits behind the paid gate.
func JoinLiveSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.LiveSession
	if err := database.DB.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Live session not found"})
	}

	if session.Status != "scheduled" && session.Status != "live" {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "This live session is no longer available"})
	}
	if session.MeetingLink == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No meeting link has been set yet"})
	}

	return c.JSON(fiber.Map{
		"session_id":   session.ID,
		"meeting_link": *session.MeetingLink,
	})
}

type LiveSessionRequest struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Description *string `json:"description"`
	StartsAt    string  `json:"starts_at" validate:"required"`
	MeetingLink *string `json:"meeting_link"`
	Status      *string `json:"status"`
}

func AdminCreateLiveSession(c *fiber.Ctx) error {
	var req LiveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "starts_at must be RFC3339"})
	}

	session := models.LiveSession{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    startsAt,
		MeetingLink: req.MeetingLink,
		Status:      "scheduled",
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create live session"})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func AdminUpdateLiveSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.LiveSession
	if err := database.DB.Where("id = ?", sessionID).First(&session).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Live session not found"})
	}

	var req LiveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "starts_at must be RFC3339"})
	}

	session.Title = req.Title
	session.Description = req.Description
	session.StartsAt = startsAt
	session.MeetingLink = req.MeetingLink
	if req.Status != nil {
		session.Status = *req.Status
	}
	database.DB.Save(&session)

	return c.JSON(session)
}

func AdminDeleteLiveSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	result := database.DB.Delete(&models.LiveSession{}, "id = ?", sessionID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete live session"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Live session not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LiveSessionChat upgrades to a websocket and joins the session's room.
// The JWT travels as a query parameter since browsers cannot set headers
// on websocket connects.
func LiveSessionChat() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		sessionID, err := uuid.Parse(conn.Params("sessionId"))
		if err != nil {
			conn.Close()
			return
		}

		userID, userName, ok := authenticateSocket(conn.Query("token"))
		if !ok {
			conn.Close()
			return
		}

		client := &ws.Client{
			UserID:    userID,
			UserName:  userName,
			SessionID: sessionID,
			Conn:      conn,
		}
		ws.Register <- client
		defer func() { ws.Unregister <- client }()

		for {
			var incoming struct {
				Content string `json:"content"`
			}
			if err := conn.ReadJSON(&incoming); err != nil {
				return
			}
			content := strings.TrimSpace(incoming.Content)
			if content == "" {
				continue
			}

			ws.Broadcast <- &ws.ChatMessage{
				SessionID: sessionID,
				UserID:    userID,
				UserName:  userName,
				Content:   content,
				SentAt:    time.Now(),
			}
		}
	})
}

func authenticateSocket(tokenString string) (uuid.UUID, string, bool) {
	if tokenString == "" {
		return uuid.Nil, "", false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		log.Printf("Rejected websocket connection: %v", err)
		return uuid.Nil, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", false
	}
	raw, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", false
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return uuid.Nil, "", false
	}
	if !user.CanWatch() {
		return uuid.Nil, "", false
	}

	return user.ID, user.FullName, true
}
