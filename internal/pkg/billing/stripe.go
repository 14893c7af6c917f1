package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/clocko-app/clocko/internal/pkg/env"
)

// PaymentGateway is the slice of the Stripe API the app needs. Keeping it
// behind an interface lets tests run against a fake instead of the network.
type PaymentGateway interface {
	CreateCustomer(email string, userID uint) (string, error)
	NewCheckoutSession(customerID, successURL, cancelURL string) (string, error)
	NewPortalSession(customerID, returnURL string) (string, error)
	GetSubscription(id string) (*stripe.Subscription, error)
}

type stripeGateway struct {
	api *client.API
}

// NewStripeGateway builds a gateway from STRIPE_SECRET_KEY. It panics when the
// key is missing so misconfiguration surfaces at startup, not mid-checkout.
func NewStripeGateway() PaymentGateway {
	api := &client.API{}
	api.Init(env.MustGetEnv("STRIPE_SECRET_KEY"), nil)
	return &stripeGateway{api: api}
}

func (g *stripeGateway) CreateCustomer(email string, userID uint) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata("clocko_user_id", fmt.Sprintf("%d", userID))

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (g *stripeGateway) NewCheckoutSession(customerID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Clocko Pro"),
						Description: stripe.String("Time tracking for freelancers"),
					},
					UnitAmount: stripe.Int64(800),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String("month"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(7),
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *stripeGateway) NewPortalSession(customerID, returnURL string) (string, error) {
	sess, err := g.api.BillingPortalSessions.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *stripeGateway) GetSubscription(id string) (*stripe.Subscription, error) {
	return g.api.Subscriptions.Get(id, nil)
}
