package jobs

import (
	"fmt"
	"testing"
	"time"

	"github.com/avelini/course_academy/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var jobTestCounter int

func newJobTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	jobTestCounter++
	dsn := fmt.Sprintf("file:jobs_test_%d?mode=memory&cache=shared", jobTestCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.LiveSession{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createSession(t *testing.T, db *gorm.DB, title, status string, startsAt time.Time) {
	t.Helper()

	session := models.LiveSession{Title: title, Status: status, StartsAt: startsAt}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("failed to create live session: %v", err)
	}
}

// A session starting exactly on a tick boundary must be picked up by exactly
// one of two consecutive runs.
func TestReminderWindowIsHalfOpen(t *testing.T) {
	db := newJobTestDB(t)
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	createSession(t, db, "At lower bound", "scheduled", now.Add(60*time.Minute))
	createSession(t, db, "Inside window", "scheduled", now.Add(62*time.Minute))
	createSession(t, db, "At upper bound", "scheduled", now.Add(65*time.Minute))
	createSession(t, db, "Cancelled", "cancelled", now.Add(62*time.Minute))

	firstRun, err := sessionsNeedingReminder(db, now)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(firstRun) != 2 {
		t.Fatalf("expected 2 sessions in first run, got %d", len(firstRun))
	}

	secondRun, err := sessionsNeedingReminder(db, now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(secondRun) != 1 {
		t.Fatalf("expected 1 session in second run, got %d", len(secondRun))
	}
	if secondRun[0].Title != "At upper bound" {
		t.Errorf("expected the boundary session in the second run, got %q", secondRun[0].Title)
	}

	seen := map[string]int{}
	for _, s := range append(firstRun, secondRun...) {
		seen[s.Title]++
	}
	for title, count := range seen {
		if count != 1 {
			t.Errorf("session %q reminded %d times across consecutive runs", title, count)
		}
	}
}
