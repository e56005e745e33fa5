package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiveSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	StartsAt    time.Time `gorm:"not null" json:"starts_at"`
	MeetingLink *string   `gorm:"size:512" json:"meeting_link,omitempty"`
	Status      string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *LiveSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
