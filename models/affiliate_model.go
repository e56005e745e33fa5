package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// All earnings fields are integer minor units (euro cents).
// Intended invariant: PendingEarnings + PaidEarnings <= TotalEarnings.
type Affiliate struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`
	Code            string    `gorm:"size:12;not null;unique" json:"code"`
	TotalEarnings   int64     `gorm:"not null;default:0" json:"total_earnings"`
	TotalReferrals  int64     `gorm:"not null;default:0" json:"total_referrals"`
	PendingEarnings int64     `gorm:"not null;default:0" json:"pending_earnings"`
	PaidEarnings    int64     `gorm:"not null;default:0" json:"paid_earnings"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Affiliate) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
