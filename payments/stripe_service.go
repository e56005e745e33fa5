package payments

import (
	"fmt"
	"log"

	config "github.com/avelini/course_academy/configs"
	"github.com/avelini/course_academy/models"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

func InitStripe() {
	stripe.Key = config.Config("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY not set. Checkout is disabled.")
		return
	}
	log.Println("✅ Stripe initialized successfully.")
}

// CreateCheckoutSession starts a Stripe Checkout payment for the course.
// The payment id and attributed referral code travel in session metadata so
// the webhook can finish the flow.
func CreateCheckoutSession(payment *models.Payment, customerEmail string) (*stripe.CheckoutSession, error) {
	frontendURL := config.ConfigOr("FRONTEND_URL", "http://localhost:3000")

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(payment.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(config.ConfigOr("COURSE_NAME", "Course Academy")),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(fmt.Sprintf("%s/checkout/success?session_id={CHECKOUT_SESSION_ID}", frontendURL)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/checkout/cancelled", frontendURL)),
		CustomerEmail:     stripe.String(customerEmail),
		ClientReferenceID: stripe.String(payment.UserID.String()),
	}
	params.AddMetadata("payment_id", payment.ID.String())
	params.AddMetadata("user_id", payment.UserID.String())
	if payment.ReferralCode != nil {
		params.AddMetadata("referral_code", *payment.ReferralCode)
	}

	return session.New(params)
}

// ParseWebhookEvent verifies the Stripe-Signature header and decodes the
// event payload.
func ParseWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	secret := config.Config("STRIPE_WEBHOOK_SECRET")
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
