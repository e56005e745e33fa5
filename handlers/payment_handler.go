package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	config "github.com/avelini/course_academy/configs"
	"github.com/avelini/course_academy/database"
	"github.com/avelini/course_academy/middleware"
	"github.com/avelini/course_academy/models"
	"github.com/avelini/course_academy/notifications"
	"github.com/avelini/course_academy/payments"
	"github.com/avelini/course_academy/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
)

// CreateCheckoutSession starts a Stripe Checkout for the course. An optional
// referral code is validated here; invalid codes are dropped rather than
// failing the purchase.
func CreateCheckoutSession(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	type CheckoutRequest struct {
		ReferralCode *string `json:"referral_code"`
	}
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.HasAccess {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You already own the course"})
	}

	priceCents, err := strconv.ParseInt(config.ConfigOr("COURSE_PRICE_CENTS", "9900"), 10, 64)
	if err != nil || priceCents <= 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Course price is misconfigured"})
	}

	var referralCode *string
	if req.ReferralCode != nil && *req.ReferralCode != "" {
		affiliate, err := services.ValidateAffiliateCode(database.DB, *req.ReferralCode)
		if err != nil {
			log.Printf("Invalid referral code used at checkout: %s", *req.ReferralCode)
		} else {
			referralCode = &affiliate.Code
		}
	}

	payment := models.Payment{
		UserID:       user.ID,
		AmountCents:  priceCents,
		Currency:     "EUR",
		Provider:     "stripe",
		Status:       "pending",
		ReferralCode: referralCode,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment record"})
	}

	session, err := payments.CreateCheckoutSession(&payment, user.Email)
	if err != nil {
		log.Printf("🔥 Stripe checkout session creation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	payment.ProviderSessionID = &session.ID
	if err := database.DB.Save(&payment).Error; err != nil {
		log.Printf("🔥 Failed to save checkout session id: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment record"})
	}

	return c.JSON(fiber.Map{"checkout_url": session.URL})
}

// HandleStripeWebhook finishes the purchase on checkout.session.completed:
// payment succeeded + course access in one transaction, then referral credit
// and the confirmation email.
func HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := payments.ParseWebhookEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("⚠️ Stripe webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	if string(event.Type) != "checkout.session.completed" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Event ignored"})
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	paymentID := session.Metadata["payment_id"]
	log.Printf("Received checkout.session.completed for payment %s", paymentID)

	var providerTxnID *string
	if session.PaymentIntent != nil {
		providerTxnID = &session.PaymentIntent.ID
	}

	_, buyer, alreadyProcessed, err := services.FulfillCheckout(database.DB, paymentID, providerTxnID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
		case errors.Is(err, services.ErrBuyerNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Buyer not found"})
		default:
			log.Printf("🔥 CRITICAL: Error processing successful webhook for payment %s: %v", paymentID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}
	}
	if alreadyProcessed {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	go notifications.SendEmail(
		buyer.FullName,
		buyer.Email,
		"Your Course Purchase is Confirmed!",
		"<h1>Welcome aboard!</h1><p>Your payment was successful. All chapters and episodes are now unlocked for you.</p>",
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}

func GetMyPayments(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	var userPayments []models.Payment
	database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&userPayments)

	return c.JSON(userPayments)
}
