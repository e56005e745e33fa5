package services

import (
	"errors"
	"log"

	"github.com/avelini/course_academy/models"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrBuyerNotFound   = errors.New("buyer not found")
)

// FulfillCheckout marks a payment as succeeded and unlocks course access in
// one transaction, then credits a linked referral. Safe to call more than
// once per payment: deliveries after the first report alreadyProcessed and
// change nothing.
func FulfillCheckout(db *gorm.DB, paymentID string, providerTxnID *string) (payment *models.Payment, buyer *models.User, alreadyProcessed bool, err error) {
	var p models.Payment
	if err := db.Where("id = ?", paymentID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, ErrPaymentNotFound
		}
		return nil, nil, false, err
	}

	var u models.User
	if err := db.Where("id = ?", p.UserID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, false, ErrBuyerNotFound
		}
		return nil, nil, false, err
	}

	if p.Status == "succeeded" {
		return &p, &u, true, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		p.Status = "succeeded"
		if providerTxnID != nil {
			p.ProviderTxnID = providerTxnID
		}
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", u.ID).
			Update("has_access", true).Error
	})
	if err != nil {
		return nil, nil, false, err
	}
	u.HasAccess = true

	if p.ReferralCode != nil {
		if err := CreditReferral(db, *p.ReferralCode, &p); err != nil {
			log.Printf("🔥 Failed to credit referral for payment %s: %v", p.ID, err)
		}
	}

	return &p, &u, false, nil
}
