package handlers

import (
	"errors"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/middleware"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateAffiliateCode creates (or returns) the caller's affiliate record.
func CreateAffiliateCode(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	affiliate, err := services.GetOrCreateAffiliate(database.DB, userID)
	if err != nil {
		if errors.Is(err, services.ErrCodeGenerationExhausted) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create affiliate record"})
	}

	return c.JSON(affiliate)
}

// ValidateAffiliateCode is public: visitors check referral codes before
// checkout.
func ValidateAffiliateCode(c *fiber.Ctx) error {
	type ValidateRequest struct {
		Code string `json:"code" validate:"required"`
	}
	var req ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	affiliate, err := services.ValidateAffiliateCode(database.DB, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCodeFormat) || errors.Is(err, services.ErrCodeNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"valid": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"valid":        true,
		"affiliate_id": affiliate.ID,
		"user_id":      affiliate.UserID,
	})
}

func GetAffiliateStats(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var affiliate models.Affiliate
	if err := database.DB.Where("user_id = ?", userID).First(&affiliate).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Affiliate record not found"})
	}

	var referrals []models.AffiliateReferral
	database.DB.Where("affiliate_id = ?", affiliate.ID).Order("created_at desc").Limit(50).Find(&referrals)

	var payouts []models.Payout
	database.DB.Where("affiliate_id = ?", affiliate.ID).Order("requested_at desc").Limit(50).Find(&payouts)

	return c.JSON(fiber.Map{
		"affiliate":          affiliate,
		"available_earnings": services.AvailableEarnings(&affiliate),
		"referrals":          referrals,
		"payouts":            payouts,
	})
}

func RequestPayout(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	type PayoutRequest struct {
		Amount         float64 `json:"amount" validate:"required,gt=0"`
		PaymentDetails string  `json:"payment_details" validate:"required"`
		ReferralID     *string `json:"referral_id"`
	}
	var req PayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var referralID *uuid.UUID
	if req.ReferralID != nil && *req.ReferralID != "" {
		parsed, err := uuid.Parse(*req.ReferralID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid referral ID format"})
		}
		referralID = &parsed
	}

	payout, err := services.RequestPayout(database.DB, userID, req.Amount, req.PaymentDetails, referralID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrMissingPaymentDetails),
			errors.Is(err, services.ErrAmountExceedsEarnings),
			errors.Is(err, services.ErrReferralNotOwned),
			errors.Is(err, services.ErrReferralPayoutExists):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrAffiliateNotFound), errors.Is(err, services.ErrReferralNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request payout"})
	}

	return c.Status(fiber.StatusCreated).JSON(payout)
}

func GetMyPayouts(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var payouts []models.Payout
	database.DB.Where("requested_by = ?", userID).Order("requested_at desc").Find(&payouts)

	return c.JSON(payouts)
}
