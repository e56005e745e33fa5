package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AffiliateCodePrefix = "REF-"
	affiliateCodeLength = 6
	maxCodeAttempts     = 10

	// CommissionPercent of each attributed sale is credited to the affiliate.
	CommissionPercent = 20
)

var affiliateCodePattern = regexp.MustCompile(`^REF-[A-Z0-9]{6}$`)

var (
	ErrInvalidCodeFormat       = errors.New("invalid affiliate code format")
	ErrCodeNotFound            = errors.New("affiliate code not found or inactive")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique affiliate code")
	ErrAffiliateNotFound       = errors.New("affiliate record not found")
)

// GetOrCreateAffiliate returns the user's affiliate record, creating it on
// first request. Calling it twice for the same user returns the same code.
func GetOrCreateAffiliate(db *gorm.DB, userID uuid.UUID) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := db.Where("user_id = ?", userID).First(&affiliate).Error
	if err == nil {
		return &affiliate, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	code, err := generateUniqueCode(db)
	if err != nil {
		return nil, err
	}

	affiliate = models.Affiliate{
		UserID:   userID,
		Code:     code,
		IsActive: true,
	}
	if err := db.Create(&affiliate).Error; err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func generateUniqueCode(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := AffiliateCodePrefix + utils.RandomCode(affiliateCodeLength)

		var existing models.Affiliate
		err := db.Where("code = ?", code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrCodeGenerationExhausted
}

// NormalizeCode uppercases and trims an affiliate code as typed by a user.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCodeFormat checks the REF-XXXXXX shape without touching the store.
func IsValidCodeFormat(code string) bool {
	return affiliateCodePattern.MatchString(code)
}

// ValidateAffiliateCode checks format first, so malformed codes fail fast
// without a database round trip, then looks up an active affiliate.
func ValidateAffiliateCode(db *gorm.DB, code string) (*models.Affiliate, error) {
	normalized := NormalizeCode(code)
	if !IsValidCodeFormat(normalized) {
		return nil, ErrInvalidCodeFormat
	}

	var affiliate models.Affiliate
	err := db.Where("code = ? AND is_active = ?", normalized, true).First(&affiliate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

// AvailableEarnings is what the affiliate can still request a payout for.
func AvailableEarnings(a *models.Affiliate) int64 {
	available := a.TotalEarnings - a.PendingEarnings - a.PaidEarnings
	if available < 0 {
		return 0
	}
	return available
}
