package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Deliveries without a valid Stripe-Signature header never reach the
// fulfillment path.
func TestStripeWebhookRejectsUnsignedPayload(t *testing.T) {
	app := setupTestApp(t)

	status, body := postJSON(t, app, "/api/v1/payments/webhook",
		`{"type":"checkout.session.completed","data":{"object":{}}}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if body["error"] == nil {
		t.Error("expected an error message")
	}
}
