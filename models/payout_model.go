package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PayoutStatusRequested = "requested"
	PayoutStatusApproved  = "approved"
	PayoutStatusCompleted = "completed"
	PayoutStatusRejected  = "rejected"
)

// Payout is a withdrawal request against an affiliate's earnings.
// Amount is in minor units. Immutable once completed or rejected.
type Payout struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AffiliateID     uuid.UUID  `gorm:"type:uuid;not null" json:"affiliate_id"`
	RequestedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"requested_by"`
	Amount          int64      `gorm:"not null" json:"amount"`
	Status          string     `gorm:"size:20;not null;default:'requested'" json:"status"`
	PaymentDetails  string     `gorm:"type:text;not null" json:"payment_details"`
	PaymentMethod   *string    `gorm:"size:50" json:"payment_method"`
	AdminNotes      *string    `gorm:"type:text" json:"admin_notes"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`
	ReferralID      *uuid.UUID `gorm:"type:uuid" json:"referral_id"`
	RequestedAt     time.Time  `gorm:"not null" json:"requested_at"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CompletedAt     *time.Time `json:"completed_at"`

	Affiliate Affiliate `gorm:"foreignkey:AffiliateID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
