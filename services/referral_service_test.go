package services

import (
	"testing"

	"github.com/avelini/course_academy/models"
)

func TestCreditReferral(t *testing.T) {
	db := newTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	affiliate, err := GetOrCreateAffiliate(db, owner.ID)
	if err != nil {
		t.Fatalf("failed to create affiliate: %v", err)
	}

	buyer := createTestUser(t, db, "buyer@example.com")
	payment := models.Payment{UserID: buyer.ID, AmountCents: 9900, Currency: "EUR", Provider: "stripe", Status: "succeeded"}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	if err := CreditReferral(db, affiliate.Code, &payment); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	affiliate = reloadAffiliate(t, db, affiliate)
	wantCommission := int64(9900 * CommissionPercent / 100)
	if affiliate.TotalEarnings != wantCommission {
		t.Errorf("expected total earnings %d, got %d", wantCommission, affiliate.TotalEarnings)
	}
	if affiliate.TotalReferrals != 1 {
		t.Errorf("expected 1 referral, got %d", affiliate.TotalReferrals)
	}

	var referral models.AffiliateReferral
	if err := db.Where("payment_id = ?", payment.ID).First(&referral).Error; err != nil {
		t.Fatalf("expected referral record: %v", err)
	}
	if referral.Earnings != wantCommission {
		t.Errorf("expected referral earnings %d, got %d", wantCommission, referral.Earnings)
	}
}

func TestCreditReferralSkipsSelfReferral(t *testing.T) {
	db := newTestDB(t)

	owner := createTestUser(t, db, "self@example.com")
	affiliate, err := GetOrCreateAffiliate(db, owner.ID)
	if err != nil {
		t.Fatalf("failed to create affiliate: %v", err)
	}

	payment := models.Payment{UserID: owner.ID, AmountCents: 9900, Currency: "EUR", Provider: "stripe", Status: "succeeded"}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	if err := CreditReferral(db, affiliate.Code, &payment); err != nil {
		t.Fatalf("self-referral should be skipped, not fail: %v", err)
	}

	affiliate = reloadAffiliate(t, db, affiliate)
	if affiliate.TotalEarnings != 0 || affiliate.TotalReferrals != 0 {
		t.Errorf("self-referral must not credit earnings, got %+v", affiliate)
	}
}

func TestCreditReferralUnknownCodeIsNoop(t *testing.T) {
	db := newTestDB(t)

	buyer := createTestUser(t, db, "buyer2@example.com")
	payment := models.Payment{UserID: buyer.ID, AmountCents: 9900, Currency: "EUR", Provider: "stripe", Status: "succeeded"}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	if err := CreditReferral(db, "REF-NOPE99", &payment); err != nil {
		t.Fatalf("unknown code should be a logged no-op, got %v", err)
	}

	var count int64
	db.Model(&models.AffiliateReferral{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no referral records, got %d", count)
	}
}
