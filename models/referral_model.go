package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AffiliateReferral records one sale attributed to an affiliate code.
// Created by the Stripe webhook; only Status/PaidAt change afterwards.
type AffiliateReferral struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AffiliateID uuid.UUID  `gorm:"type:uuid;not null" json:"affiliate_id"`
	PaymentID   uuid.UUID  `gorm:"type:uuid;not null;unique" json:"payment_id"`
	Earnings    int64      `gorm:"not null" json:"earnings"`
	Status      string     `gorm:"size:20;not null;default:'completed'" json:"status"`
	PaidAt      *time.Time `json:"paid_at"`

	Affiliate Affiliate `gorm:"foreignkey:AffiliateID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *AffiliateReferral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
