package services

import (
	"errors"
	"testing"

	"github.com/avelini/course_academy/models"
	"gorm.io/gorm"
)

func createPendingPayment(t *testing.T, db *gorm.DB, buyer *models.User, referralCode *string) *models.Payment {
	t.Helper()

	payment := models.Payment{
		UserID:       buyer.ID,
		AmountCents:  9900,
		Currency:     "EUR",
		Provider:     "stripe",
		Status:       "pending",
		ReferralCode: referralCode,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	return &payment
}

func TestFulfillCheckoutUnlocksAccessAndCreditsReferral(t *testing.T) {
	db := newTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	affiliate, err := GetOrCreateAffiliate(db, owner.ID)
	if err != nil {
		t.Fatalf("failed to create affiliate: %v", err)
	}

	buyer := createTestUser(t, db, "buyer@example.com")
	payment := createPendingPayment(t, db, buyer, &affiliate.Code)

	txnID := "pi_test_123"
	fulfilled, fulfilledBuyer, alreadyProcessed, err := FulfillCheckout(db, payment.ID.String(), &txnID)
	if err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if alreadyProcessed {
		t.Error("first delivery must not report already processed")
	}
	if fulfilled.Status != "succeeded" {
		t.Errorf("expected status succeeded, got %s", fulfilled.Status)
	}
	if fulfilled.ProviderTxnID == nil || *fulfilled.ProviderTxnID != txnID {
		t.Error("expected provider transaction id to be stored")
	}
	if !fulfilledBuyer.HasAccess {
		t.Error("expected buyer to gain course access")
	}

	var freshBuyer models.User
	if err := db.Where("id = ?", buyer.ID).First(&freshBuyer).Error; err != nil {
		t.Fatalf("failed to reload buyer: %v", err)
	}
	if !freshBuyer.HasAccess {
		t.Error("course access must be persisted")
	}

	affiliate = reloadAffiliate(t, db, affiliate)
	if affiliate.TotalEarnings != 9900*CommissionPercent/100 {
		t.Errorf("expected commission %d, got %d", 9900*CommissionPercent/100, affiliate.TotalEarnings)
	}
	if affiliate.TotalReferrals != 1 {
		t.Errorf("expected 1 referral, got %d", affiliate.TotalReferrals)
	}
}

// A retried delivery must be a no-op: the payment stays succeeded, no second
// referral row appears and the earnings counters do not move again.
func TestFulfillCheckoutIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	affiliate, err := GetOrCreateAffiliate(db, owner.ID)
	if err != nil {
		t.Fatalf("failed to create affiliate: %v", err)
	}

	buyer := createTestUser(t, db, "buyer@example.com")
	payment := createPendingPayment(t, db, buyer, &affiliate.Code)

	txnID := "pi_test_456"
	if _, _, _, err := FulfillCheckout(db, payment.ID.String(), &txnID); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}

	fulfilled, fulfilledBuyer, alreadyProcessed, err := FulfillCheckout(db, payment.ID.String(), &txnID)
	if err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}
	if !alreadyProcessed {
		t.Error("second delivery must report already processed")
	}
	if fulfilled.Status != "succeeded" {
		t.Errorf("expected status succeeded, got %s", fulfilled.Status)
	}
	if !fulfilledBuyer.HasAccess {
		t.Error("buyer keeps course access")
	}

	var referralCount int64
	db.Model(&models.AffiliateReferral{}).Where("affiliate_id = ?", affiliate.ID).Count(&referralCount)
	if referralCount != 1 {
		t.Errorf("expected exactly 1 referral row, got %d", referralCount)
	}

	affiliate = reloadAffiliate(t, db, affiliate)
	if affiliate.TotalEarnings != 9900*CommissionPercent/100 {
		t.Errorf("retried delivery must not credit again, total = %d", affiliate.TotalEarnings)
	}
	if affiliate.TotalReferrals != 1 {
		t.Errorf("expected referral counter to stay at 1, got %d", affiliate.TotalReferrals)
	}
}

func TestFulfillCheckoutUnknownPayment(t *testing.T) {
	db := newTestDB(t)

	_, _, _, err := FulfillCheckout(db, "00000000-0000-0000-0000-000000000000", nil)
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}
