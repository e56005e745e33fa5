package services

import (
	"fmt"
	"testing"

	"github.com/avelini/course_academy/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Payment{},
		&models.Affiliate{},
		&models.AffiliateReferral{},
		&models.Payout{},
		&models.Episode{},
		&models.Chapter{},
		&models.EpisodeProgress{},
		&models.Certificate{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		FullName: "Test User",
		Email:    email,
		Password: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func reloadAffiliate(t *testing.T, db *gorm.DB, affiliate *models.Affiliate) *models.Affiliate {
	t.Helper()

	var fresh models.Affiliate
	if err := db.Where("id = ?", affiliate.ID).First(&fresh).Error; err != nil {
		t.Fatalf("failed to reload affiliate: %v", err)
	}
	return &fresh
}
