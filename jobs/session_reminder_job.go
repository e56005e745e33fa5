package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/notifications"
	"gorm.io/gorm"
)

// sessionsNeedingReminder returns scheduled sessions starting in the
// [now+60m, now+65m) window. Half-open, so a session sitting exactly on a
// tick boundary belongs to one run only.
func sessionsNeedingReminder(db *gorm.DB, now time.Time) ([]models.LiveSession, error) {
	var sessions []models.LiveSession
	err := db.
		Where("status = ? AND starts_at >= ? AND starts_at < ?",
			"scheduled", now.Add(60*time.Minute), now.Add(65*time.Minute)).
		Find(&sessions).Error
	return sessions, err
}

// SendSessionReminders emails everyone with course access one hour before a
// scheduled live session starts. Runs every 5 minutes.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	upcomingSessions, err := sessionsNeedingReminder(database.DB, time.Now())
	if err != nil {
		log.Printf("Error checking for upcoming live sessions: %v", err)
		return
	}

	if len(upcomingSessions) == 0 {
		return
	}

	var students []models.User
	if err := database.DB.Where("has_access = ? AND is_active = ?", true, true).Find(&students).Error; err != nil {
		log.Printf("Error loading students for session reminders: %v", err)
		return
	}

	for _, session := range upcomingSessions {
		log.Printf("Sending reminders for live session: %s", session.ID)

		link := ""
		if session.MeetingLink != nil {
			link = fmt.Sprintf("<p><b>Join here:</b> <a href='%s'>%s</a></p>", *session.MeetingLink, session.Title)
		}
		emailSubject := fmt.Sprintf("Reminder: %q starts in 1 hour!", session.Title)
		emailBody := fmt.Sprintf(
			"<h1>Live Session Reminder</h1><p>Hi there,</p><p>The live session <b>%s</b> starts in one hour at %s.</p>%s",
			session.Title,
			session.StartsAt.Format(time.Kitchen),
			link,
		)

		for _, student := range students {
			go notifications.SendEmail(student.FullName, student.Email, emailSubject, emailBody)
		}
	}
}
