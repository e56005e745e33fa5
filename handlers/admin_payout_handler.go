package handlers

import (
	"errors"

	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ListPayouts(c *fiber.Ctx) error {
	status := c.Query("status")

	query := database.DB.Preload("Affiliate").Preload("Affiliate.User").Order("requested_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var payouts []models.Payout
	if err := query.Find(&payouts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payouts)
}

func ApprovePayout(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("payoutId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout ID format"})
	}

	type ApproveRequest struct {
		PaymentMethod string  `json:"payment_method" validate:"required"`
		AdminNotes    *string `json:"admin_notes"`
	}
	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payout, err := services.ApprovePayout(database.DB, payoutID, req.PaymentMethod, req.AdminNotes)
	if err != nil {
		return payoutServiceError(c, err, "Failed to approve payout")
	}
	return c.JSON(payout)
}

func CompletePayout(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("payoutId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout ID format"})
	}

	payout, err := services.CompletePayout(database.DB, payoutID)
	if err != nil {
		return payoutServiceError(c, err, "Failed to complete payout")
	}
	return c.JSON(payout)
}

func RejectPayout(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("payoutId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payout ID format"})
	}

	type RejectRequest struct {
		RejectionReason string `json:"rejection_reason" validate:"required"`
	}
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payout, err := services.RejectPayout(database.DB, payoutID, req.RejectionReason)
	if err != nil {
		return payoutServiceError(c, err, "Failed to reject payout")
	}
	return c.JSON(payout)
}

func payoutServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrPayoutNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidStateTransition), errors.Is(err, services.ErrMissingRejectionReason):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}
