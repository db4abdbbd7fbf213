package payments

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
)

// PaymentIntentInput describes a payment intent to create. Amount is in
// major currency units.
type PaymentIntentInput struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Metadata    map[string]string
}

// CreatePaymentIntent creates a payment intent with automatic payment
// methods enabled. The returned intent carries the client secret that the
// browser-side checkout widget needs to confirm the payment; this code never
// touches payment instrument data. Status transitions
// (requires_payment_method -> requires_confirmation -> processing ->
// succeeded | requires_action | canceled) happen provider-side and are only
// observed here via GetPaymentIntent.
func (c *Client) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(in.Amount, in.Currency)),
		Currency: stripe.String(in.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = newIdempotencyKey()
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	params.Metadata = in.Metadata

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapErr("create payment intent", err)
	}
	return intent, nil
}

// GetPaymentIntent retrieves a payment intent, reflecting whatever status
// the provider has moved it to.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, wrapErr("get payment intent", err)
	}
	return intent, nil
}
