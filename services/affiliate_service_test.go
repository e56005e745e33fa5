package services

import (
	"errors"
	"regexp"
	"testing"

	"github.com/avelini/course_academy/models"
)

func TestGetOrCreateAffiliateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "affiliate@example.com")

	first, err := GetOrCreateAffiliate(db, user.ID)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second, err := GetOrCreateAffiliate(db, user.ID)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected the same affiliate record, got %s and %s", first.ID, second.ID)
	}
	if first.Code != second.Code {
		t.Errorf("expected the same code twice, got %q and %q", first.Code, second.Code)
	}

	var count int64
	db.Model(&models.Affiliate{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one affiliate record, got %d", count)
	}
}

func TestNewAffiliateStartsAtZero(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "zero@example.com")

	affiliate, err := GetOrCreateAffiliate(db, user.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if affiliate.TotalEarnings != 0 || affiliate.PendingEarnings != 0 || affiliate.PaidEarnings != 0 || affiliate.TotalReferrals != 0 {
		t.Errorf("expected zeroed counters, got %+v", affiliate)
	}
	if !affiliate.IsActive {
		t.Error("expected new affiliate to be active")
	}
}

func TestAffiliateCodeFormat(t *testing.T) {
	db := newTestDB(t)
	pattern := regexp.MustCompile(`^REF-[A-Z0-9]{6}$`)

	for i := 0; i < 5; i++ {
		user := createTestUser(t, db, string(rune('a'+i))+"@example.com")
		affiliate, err := GetOrCreateAffiliate(db, user.ID)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if !pattern.MatchString(affiliate.Code) {
			t.Errorf("code %q does not match REF-XXXXXX", affiliate.Code)
		}
	}
}

func TestValidateCodeRejectsBadFormatWithoutLookup(t *testing.T) {
	// nil db: any store access would panic, proving the fail-fast path.
	badCodes := []string{"", "REF-", "REF-ABC", "REF-ABCDEFG", "ABC-123456", "REF-abc12", "REF-ABC12!"}
	for _, code := range badCodes {
		if _, err := ValidateAffiliateCode(nil, code); !errors.Is(err, ErrInvalidCodeFormat) {
			t.Errorf("code %q: expected ErrInvalidCodeFormat, got %v", code, err)
		}
	}
}

func TestValidateCodeNormalizesCase(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "casing@example.com")

	affiliate, err := GetOrCreateAffiliate(db, user.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	lower := "  " + affiliate.Code + "  "
	found, err := ValidateAffiliateCode(db, lower)
	if err != nil {
		t.Fatalf("expected trimmed code to validate, got %v", err)
	}
	if found.ID != affiliate.ID {
		t.Errorf("validated wrong affiliate: %s != %s", found.ID, affiliate.ID)
	}
}

func TestValidateCodeRejectsInactiveAffiliate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "inactive@example.com")

	affiliate, err := GetOrCreateAffiliate(db, user.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	db.Model(&models.Affiliate{}).Where("id = ?", affiliate.ID).Update("is_active", false)

	if _, err := ValidateAffiliateCode(db, affiliate.Code); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("expected ErrCodeNotFound for inactive affiliate, got %v", err)
	}
}

func TestValidateCodeUnknown(t *testing.T) {
	db := newTestDB(t)

	if _, err := ValidateAffiliateCode(db, "REF-ZZZZZZ"); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestAvailableEarnings(t *testing.T) {
	cases := []struct {
		total, pending, paid, want int64
	}{
		{10000, 0, 0, 10000},
		{10000, 5000, 0, 5000},
		{10000, 5000, 5000, 0},
		{10000, 8000, 5000, 0}, // drifted ledger floors at zero
		{0, 0, 0, 0},
	}
	for _, tc := range cases {
		a := &models.Affiliate{TotalEarnings: tc.total, PendingEarnings: tc.pending, PaidEarnings: tc.paid}
		if got := AvailableEarnings(a); got != tc.want {
			t.Errorf("AvailableEarnings(%d,%d,%d) = %d, want %d", tc.total, tc.pending, tc.paid, got, tc.want)
		}
	}
}
