package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/notifications"
	"github.com/avelini/course_academy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount          = errors.New("payout amount must be greater than zero")
	ErrMissingPaymentDetails  = errors.New("payment details are required")
	ErrMissingRejectionReason = errors.New("rejection reason is required")
	ErrAmountExceedsEarnings  = errors.New("amount exceeds available earnings")
	ErrPayoutNotFound         = errors.New("payout not found")
	ErrReferralNotFound       = errors.New("referral not found")
	ErrReferralNotOwned       = errors.New("referral does not belong to this affiliate")
	ErrReferralPayoutExists   = errors.New("payout already requested for this referral")
	ErrInvalidStateTransition = errors.New("invalid payout state transition")
)

// RequestPayout reserves part of the affiliate's earnings and creates a
// payout in state "requested". The status insert and the pending-earnings
// reservation run in one transaction, and the ledger delta is applied
// server-side so concurrent requests cannot overwrite each other.
func RequestPayout(db *gorm.DB, userID uuid.UUID, amountEuro float64, paymentDetails string, referralID *uuid.UUID) (*models.Payout, error) {
	if amountEuro <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(paymentDetails) == "" {
		return nil, ErrMissingPaymentDetails
	}

	var affiliate models.Affiliate
	if err := db.Where("user_id = ?", userID).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}

	amountCents := utils.EuroToCents(amountEuro)
	if amountCents > AvailableEarnings(&affiliate) {
		return nil, ErrAmountExceedsEarnings
	}

	payout := models.Payout{
		AffiliateID:    affiliate.ID,
		RequestedBy:    userID,
		Amount:         amountCents,
		Status:         models.PayoutStatusRequested,
		PaymentDetails: paymentDetails,
		ReferralID:     referralID,
		RequestedAt:    time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if referralID != nil {
			var referral models.AffiliateReferral
			if err := tx.Where("id = ?", *referralID).First(&referral).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReferralNotFound
				}
				return err
			}
			if referral.AffiliateID != affiliate.ID {
				return ErrReferralNotOwned
			}

			var existing int64
			if err := tx.Model(&models.Payout{}).Where("referral_id = ?", *referralID).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return ErrReferralPayoutExists
			}
		}

		if err := tx.Create(&payout).Error; err != nil {
			return err
		}

		return tx.Model(&models.Affiliate{}).Where("id = ?", affiliate.ID).
			Update("pending_earnings", gorm.Expr("pending_earnings + ?", amountCents)).Error
	})
	if err != nil {
		return nil, err
	}

	return &payout, nil
}

// ApprovePayout moves requested -> approved. The reserved amount stays in
// pending_earnings until the payout is completed.
func ApprovePayout(db *gorm.DB, payoutID uuid.UUID, paymentMethod string, adminNotes *string) (*models.Payout, error) {
	payout, err := loadPayout(db, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != models.PayoutStatusRequested {
		return nil, fmt.Errorf("%w: cannot approve a %s payout", ErrInvalidStateTransition, payout.Status)
	}

	now := time.Now()
	res := db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", payout.ID, models.PayoutStatusRequested).
		Updates(map[string]interface{}{
			"status":         models.PayoutStatusApproved,
			"payment_method": paymentMethod,
			"admin_notes":    adminNotes,
			"approved_at":    now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: payout was modified concurrently", ErrInvalidStateTransition)
	}

	payout.Status = models.PayoutStatusApproved
	payout.PaymentMethod = &paymentMethod
	payout.AdminNotes = adminNotes
	payout.ApprovedAt = &now
	return payout, nil
}

// CompletePayout moves approved -> completed and shifts the payout amount
// from pending_earnings to paid_earnings in the same transaction. A linked
// referral is marked paid.
func CompletePayout(db *gorm.DB, payoutID uuid.UUID) (*models.Payout, error) {
	payout, err := loadPayout(db, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != models.PayoutStatusApproved {
		return nil, fmt.Errorf("%w: cannot complete a %s payout", ErrInvalidStateTransition, payout.Status)
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		// status guard inside the update, so a concurrent completion loses
		// and cannot release the ledger a second time
		res := tx.Model(&models.Payout{}).
			Where("id = ? AND status = ?", payout.ID, models.PayoutStatusApproved).
			Updates(map[string]interface{}{
				"status":       models.PayoutStatusCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payout was modified concurrently", ErrInvalidStateTransition)
		}

		if err := applyLedgerRelease(tx, payout.AffiliateID, payout.Amount, true); err != nil {
			return err
		}

		if payout.ReferralID != nil {
			if err := tx.Model(&models.AffiliateReferral{}).Where("id = ?", *payout.ReferralID).
				Updates(map[string]interface{}{"status": "paid", "paid_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	payout.Status = models.PayoutStatusCompleted
	payout.CompletedAt = &now

	go notifyPayoutProcessed(db, payout, true)

	return payout, nil
}

// RejectPayout moves requested -> rejected and releases the reserved amount
// back to available earnings.
func RejectPayout(db *gorm.DB, payoutID uuid.UUID, reason string) (*models.Payout, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingRejectionReason
	}

	payout, err := loadPayout(db, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != models.PayoutStatusRequested {
		return nil, fmt.Errorf("%w: cannot reject a %s payout", ErrInvalidStateTransition, payout.Status)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payout{}).
			Where("id = ? AND status = ?", payout.ID, models.PayoutStatusRequested).
			Updates(map[string]interface{}{
				"status":           models.PayoutStatusRejected,
				"rejection_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payout was modified concurrently", ErrInvalidStateTransition)
		}
		return applyLedgerRelease(tx, payout.AffiliateID, payout.Amount, false)
	})
	if err != nil {
		return nil, err
	}
	payout.Status = models.PayoutStatusRejected
	payout.RejectionReason = &reason

	go notifyPayoutProcessed(db, payout, false)

	return payout, nil
}

func loadPayout(db *gorm.DB, payoutID uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	if err := db.Where("id = ?", payoutID).First(&payout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

// applyLedgerRelease removes amount from pending_earnings, floored at zero,
// and optionally credits paid_earnings. Both are server-side deltas.
func applyLedgerRelease(tx *gorm.DB, affiliateID uuid.UUID, amount int64, credit bool) error {
	updates := map[string]interface{}{
		"pending_earnings": gorm.Expr("CASE WHEN pending_earnings >= ? THEN pending_earnings - ? ELSE 0 END", amount, amount),
	}
	if credit {
		updates["paid_earnings"] = gorm.Expr("paid_earnings + ?", amount)
	}
	return tx.Model(&models.Affiliate{}).Where("id = ?", affiliateID).Updates(updates).Error
}

func notifyPayoutProcessed(db *gorm.DB, payout *models.Payout, completed bool) {
	var affiliate models.Affiliate
	if err := db.Preload("User").Where("id = ?", payout.AffiliateID).First(&affiliate).Error; err != nil {
		return
	}
	user := affiliate.User

	if completed {
		notifications.SendEmail(
			user.FullName,
			user.Email,
			"Your Payout Has Been Sent",
			fmt.Sprintf("<h1>Payout Sent</h1><p>Hello %s,</p><p>Your payout of %s has been processed and sent by our team.</p>", user.FullName, utils.FormatCents(payout.Amount)),
		)
		return
	}

	reason := ""
	if payout.RejectionReason != nil {
		reason = *payout.RejectionReason
	}
	notifications.SendEmail(
		user.FullName,
		user.Email,
		"Update on Your Payout Request",
		fmt.Sprintf("<h1>Payout Request Update</h1><p>Hello %s,</p><p>Your payout request of %s was rejected. The amount is available again for a new request.</p><p><b>Reason:</b> %s</p>", user.FullName, utils.FormatCents(payout.Amount), reason),
	)
}
