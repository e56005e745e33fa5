package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	IsLocked    bool      `gorm:"default:true" json:"is_locked"`

	Episodes []Episode `gorm:"foreignkey:ChapterID" json:"episodes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ch *Chapter) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return nil
}

type Episode struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ChapterID       uuid.UUID `gorm:"type:uuid;not null" json:"chapter_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     *string   `gorm:"type:text" json:"description"`
	Position        int       `gorm:"not null;default:0" json:"position"`
	VideoKey        *string   `gorm:"size:512" json:"-"`
	ThumbnailKey    *string   `gorm:"size:512" json:"-"`
	DurationSeconds int       `gorm:"default:0" json:"duration_seconds"`
	IsFreePreview   bool      `gorm:"default:false" json:"is_free_preview"`
	IsLocked        bool      `gorm:"default:true" json:"is_locked"`

	Chapter     Chapter      `gorm:"foreignkey:ChapterID" json:"-"`
	Attachments []Attachment `gorm:"foreignkey:EpisodeID" json:"attachments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Attachment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EpisodeID uuid.UUID `gorm:"type:uuid;not null" json:"episode_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	FileKey   string    `gorm:"size:512;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type EpisodeProgress struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_episode" json:"user_id"`
	EpisodeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_episode" json:"episode_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`

	Episode Episode `gorm:"foreignkey:EpisodeID" json:"-"`
}

func (p *EpisodeProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`
	CertificateURL string    `gorm:"size:512;not null" json:"certificate_url"`
	IssuedAt       time.Time `gorm:"not null" json:"issued_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
