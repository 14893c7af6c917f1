package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"

	"github.com/clocko-app/clocko/app/models"
)

// ErrMalformedPayload marks webhook payloads that cannot be parsed. These are
// terminal: the provider must not retry them.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// ErrNoCustomer is returned when a portal session is requested before the user
// ever went through checkout.
var ErrNoCustomer = errors.New("user has no billing customer reference")

// Service owns checkout bootstrap and webhook reconciliation. Outside of the
// checkout path writing the customer reference, it is the only writer of the
// user billing fields.
type Service struct {
	repo    Repository
	gateway PaymentGateway
}

// NewService creates a billing service from an injected repository and gateway.
func NewService(repo Repository, gateway PaymentGateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway PaymentGateway) *Service {
	return NewService(NewRepository(db), gateway)
}

// EnsureCustomer returns the user's Stripe customer id, creating and
// persisting one on first use.
func (s *Service) EnsureCustomer(ctx context.Context, user *models.User) (string, error) {
	_ = ctx
	if user == nil {
		return "", errors.New("user is required")
	}
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(user.Email, user.ID)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetCustomerID(user.ID, customerID); err != nil {
		return "", err
	}
	user.StripeCustomerID = &customerID
	return customerID, nil
}

// StartCheckout creates a subscription checkout session and returns the URL
// the user should be redirected to.
func (s *Service) StartCheckout(ctx context.Context, user *models.User, successURL, cancelURL string) (string, error) {
	customerID, err := s.EnsureCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	return s.gateway.NewCheckoutSession(customerID, successURL, cancelURL)
}

// OpenPortal creates a billing portal session for an existing customer.
func (s *Service) OpenPortal(ctx context.Context, user *models.User, returnURL string) (string, error) {
	_ = ctx
	if user == nil || user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return "", ErrNoCustomer
	}
	return s.gateway.NewPortalSession(*user.StripeCustomerID, returnURL)
}

// RecordWebhookEvent persists webhook payloads idempotently. The second return
// reports whether the event was seen for the first time.
func (s *Service) RecordWebhookEvent(ctx context.Context, eventID, eventType, payload string) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	id := strings.TrimSpace(eventID)
	if id == "" {
		sum := sha256.Sum256([]byte(payload))
		id = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		ProviderEventID: id,
		EventType:       strings.TrimSpace(eventType),
		PayloadJSON:     payload,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// HandleEvent reconciles a verified Stripe event into the stored subscription
// state. All writes match on the customer reference and are idempotent, so
// at-least-once delivery is safe. Unknown event kinds are accepted and ignored.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) error {
	_ = ctx
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		sub, err := parseSubscription(event.Data.Raw)
		if err != nil {
			return err
		}
		var trialEnd *time.Time
		if sub.TrialEnd > 0 {
			t := time.Unix(sub.TrialEnd, 0)
			trialEnd = &t
		}
		var subscriptionID *string
		if sub.ID != "" {
			id := sub.ID
			subscriptionID = &id
		}
		return s.repo.ApplySubscriptionState(customerRef(sub.Customer), string(sub.Status), subscriptionID, trialEnd)

	case "customer.subscription.deleted":
		sub, err := parseSubscription(event.Data.Raw)
		if err != nil {
			return err
		}
		return s.repo.ClearSubscription(customerRef(sub.Customer))

	case "invoice.payment_failed":
		inv, err := parseInvoice(event.Data.Raw)
		if err != nil {
			return err
		}
		return s.repo.SetStatusByCustomer(customerRef(inv.Customer), models.SubscriptionStatusPastDue)

	case "invoice.payment_succeeded":
		inv, err := parseInvoice(event.Data.Raw)
		if err != nil {
			return err
		}
		// Trial-to-active transitions can arrive only via invoice events, so
		// the current status has to come from the subscription itself.
		if inv.Subscription == nil || inv.Subscription.ID == "" {
			return nil
		}
		sub, err := s.gateway.GetSubscription(inv.Subscription.ID)
		if err != nil {
			return err
		}
		return s.repo.SetStatusByCustomer(customerRef(inv.Customer), string(sub.Status))

	default:
		return nil
	}
}

func parseSubscription(raw json.RawMessage) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &sub, nil
}

func parseInvoice(raw json.RawMessage) (*stripe.Invoice, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &inv, nil
}

func customerRef(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}
