package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/sujit-baniya/flash"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/internal/pkg/billing"
	"github.com/clocko-app/clocko/internal/pkg/env"
	"github.com/clocko-app/clocko/internal/pkg/usercontext"
)

func HandleBillingPage(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	user, err := currentUser(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	status := billing.ResolveStatus(user, time.Now())

	return c.Render("billing", fiber.Map{
		"Title":       "Billing",
		"Name":        userCtx.Name,
		"Status":      status,
		"HasCustomer": user.StripeCustomerID != nil && *user.StripeCustomerID != "",
		"Flash":       flash.Get(c),
	})
}

func HandleCheckout(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	// Already paying: nothing to check out.
	if user.SubscriptionStatus == models.SubscriptionStatusActive {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	base := appBaseURL()
	url, err := billingSvc.StartCheckout(ctx, user, base+"/dashboard?session_id={CHECKOUT_SESSION_ID}", base+"/billing")
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Checkout could not be started: " + err.Error()}).Redirect("/billing")
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

func HandleBillingPortal(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	url, err := billingSvc.OpenPortal(ctx, user, appBaseURL()+"/billing")
	if err != nil {
		if errors.Is(err, billing.ErrNoCustomer) {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "Start a subscription first to manage billing"}).Redirect("/billing")
		}
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Billing portal could not be opened: " + err.Error()}).Redirect("/billing")
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandleStripeWebhook is the reconciliation entry point. Signature failures
// and malformed payloads are terminal (400); store failures return 500 so
// Stripe retries; duplicates of successfully processed events are acknowledged
// without reprocessing.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	if signature == "" || secret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no_signature"})
	}

	event, err := webhook.ConstructEvent(rawBody, signature, secret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := billingSvc.RecordWebhookEvent(ctx, event.ID, string(event.Type), string(rawBody))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	// Only a successfully processed event counts as a duplicate. A stored row
	// whose last attempt failed must run again on the retry delivery.
	if !created && stored.Processed() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}

	if err := billingSvc.HandleEvent(ctx, event); err != nil {
		_ = billingSvc.MarkWebhookProcessed(ctx, stored.ID, err)
		if errors.Is(err, billing.ErrMalformedPayload) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_handler_failed"})
	}

	_ = billingSvc.MarkWebhookProcessed(ctx, stored.ID, nil)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
