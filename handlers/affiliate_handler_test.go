package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/routes"
	"github.com/avelini/course_academy/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handlerTestCounter int

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	handlerTestCounter++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", handlerTestCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Affiliate{},
		&models.AffiliateReferral{},
		&models.Payout{},
		&models.Payment{},
		&models.Chapter{},
		&models.Episode{},
		&models.Attachment{},
		&models.LiveSession{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	t.Setenv("JWT_SECRET", "handler-test-secret")

	app := fiber.New()
	routes.AffiliateRoutes(app)
	routes.PaymentRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestValidateEndpointRejectsMalformedCode(t *testing.T) {
	app := setupTestApp(t)

	status, body := postJSON(t, app, "/api/v1/affiliates/validate", `{"code":"not-a-code"}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if valid, _ := body["valid"].(bool); valid {
		t.Error("expected valid=false")
	}
	if body["error"] == nil {
		t.Error("expected an error message")
	}
}

func TestValidateEndpointAcceptsActiveCode(t *testing.T) {
	app := setupTestApp(t)

	user := models.User{FullName: "Owner", Email: "owner@example.com", Password: "x"}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	affiliate, err := services.GetOrCreateAffiliate(database.DB, user.ID)
	if err != nil {
		t.Fatalf("failed to create affiliate: %v", err)
	}

	// lowercase input must be normalized before lookup
	status, body := postJSON(t, app, "/api/v1/affiliates/validate",
		fmt.Sprintf(`{"code":%q}`, strings.ToLower(affiliate.Code)))
	if status != fiber.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
	if valid, _ := body["valid"].(bool); !valid {
		t.Errorf("expected valid=true, body: %v", body)
	}
	if body["affiliate_id"] != affiliate.ID.String() {
		t.Errorf("expected affiliate_id %s, got %v", affiliate.ID, body["affiliate_id"])
	}
}

func TestValidateEndpointRequiresCode(t *testing.T) {
	app := setupTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/affiliates/validate", `{}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
}
