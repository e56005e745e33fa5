package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/notifications"
	"github.com/avelini/course_academy/utils"
	"gorm.io/gorm"
)

// CreditReferral attributes a succeeded payment to the given affiliate code
// and credits the commission. Referral row creation and the earnings
// increments are one transaction; the counters are server-side deltas.
// Self-referrals are skipped silently.
func CreditReferral(db *gorm.DB, code string, payment *models.Payment) error {
	affiliate, err := ValidateAffiliateCode(db, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCodeFormat) || errors.Is(err, ErrCodeNotFound) {
			log.Printf("Skipping referral credit for payment %s: %v", payment.ID, err)
			return nil
		}
		return err
	}

	if affiliate.UserID == payment.UserID {
		log.Printf("Skipping self-referral for payment %s", payment.ID)
		return nil
	}

	commission := payment.AmountCents * CommissionPercent / 100

	err = db.Transaction(func(tx *gorm.DB) error {
		referral := models.AffiliateReferral{
			AffiliateID: affiliate.ID,
			PaymentID:   payment.ID,
			Earnings:    commission,
			Status:      "completed",
		}
		if err := tx.Create(&referral).Error; err != nil {
			return err
		}

		return tx.Model(&models.Affiliate{}).Where("id = ?", affiliate.ID).
			Updates(map[string]interface{}{
				"total_earnings":  gorm.Expr("total_earnings + ?", commission),
				"total_referrals": gorm.Expr("total_referrals + ?", 1),
			}).Error
	})
	if err != nil {
		return err
	}

	var owner models.User
	if err := db.Where("id = ?", affiliate.UserID).First(&owner).Error; err == nil {
		go notifications.SendEmail(
			owner.FullName,
			owner.Email,
			"You've Earned a Referral Commission!",
			fmt.Sprintf("<h1>Congratulations!</h1><p>Someone used your code <b>%s</b> to buy the course. A commission of %s has been added to your earnings.</p>", affiliate.Code, utils.FormatCents(commission)),
		)
	}

	return nil
}
