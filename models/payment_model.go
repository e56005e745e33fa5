package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	AmountCents       int64     `gorm:"not null" json:"amount_cents"`
	Currency          string    `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	Provider          string    `gorm:"size:50;not null;default:'stripe'" json:"provider"`
	ProviderSessionID *string   `gorm:"size:255;unique" json:"-"`
	ProviderTxnID     *string   `gorm:"size:255;unique" json:"-"`
	Status            string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	ReferralCode      *string   `gorm:"size:12" json:"referral_code"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
