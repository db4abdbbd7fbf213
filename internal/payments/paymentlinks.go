package payments

import (
	"context"

	"github.com/stripe/stripe-go/v81"
)

// LineItem pairs a price with a quantity on a payment link.
type LineItem struct {
	PriceID  string
	Quantity int64
}

// PaymentLinkInput describes a payment link to create. The provider caps
// LineItems at 20 entries and rejects longer lists with a validation error;
// the client submits the list as given and surfaces that error unchanged.
type PaymentLinkInput struct {
	LineItems []LineItem
	// PaymentMethodTypes restricts accepted payment methods; empty means
	// the provider's defaults.
	PaymentMethodTypes []string
	// BillingAddressCollection is "auto" or "required".
	BillingAddressCollection string
	// AllowedShippingCountries enables shipping address collection for the
	// given two-letter country codes.
	AllowedShippingCountries []string
}

// PaymentLinkPatch is a partial update; nil fields are left unchanged.
type PaymentLinkPatch struct {
	Active *bool
}

// PaymentLinkFilter narrows payment link listings.
type PaymentLinkFilter struct {
	Active *bool
}

// CreatePaymentLink creates a shareable payment link from an ordered list of
// line items.
func (c *Client) CreatePaymentLink(ctx context.Context, in PaymentLinkInput) (*stripe.PaymentLink, error) {
	items := make([]*stripe.PaymentLinkLineItemParams, len(in.LineItems))
	for i, item := range in.LineItems {
		items[i] = &stripe.PaymentLinkLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
		}
	}

	params := &stripe.PaymentLinkParams{LineItems: items}
	params.Context = ctx
	params.IdempotencyKey = newIdempotencyKey()
	if len(in.PaymentMethodTypes) > 0 {
		params.PaymentMethodTypes = stripe.StringSlice(in.PaymentMethodTypes)
	}
	if in.BillingAddressCollection != "" {
		params.BillingAddressCollection = stripe.String(in.BillingAddressCollection)
	}
	if len(in.AllowedShippingCountries) > 0 {
		params.ShippingAddressCollection = &stripe.PaymentLinkShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(in.AllowedShippingCountries),
		}
	}

	link, err := c.api.PaymentLinks.New(params)
	if err != nil {
		return nil, wrapErr("create payment link", err)
	}
	return link, nil
}

// GetPaymentLink retrieves a payment link by id.
func (c *Client) GetPaymentLink(ctx context.Context, id string) (*stripe.PaymentLink, error) {
	params := &stripe.PaymentLinkParams{}
	params.Context = ctx

	link, err := c.api.PaymentLinks.Get(id, params)
	if err != nil {
		return nil, wrapErr("get payment link", err)
	}
	return link, nil
}

// UpdatePaymentLink applies a partial update to a payment link.
func (c *Client) UpdatePaymentLink(ctx context.Context, id string, patch PaymentLinkPatch) (*stripe.PaymentLink, error) {
	params := &stripe.PaymentLinkParams{
		Active: patch.Active,
	}
	params.Context = ctx

	link, err := c.api.PaymentLinks.Update(id, params)
	if err != nil {
		return nil, wrapErr("update payment link", err)
	}
	return link, nil
}

// ListPaymentLinks returns one page of at most limit payment links starting
// after cursor.
func (c *Client) ListPaymentLinks(ctx context.Context, f PaymentLinkFilter, limit int64, cursor string) (Page[*stripe.PaymentLink], error) {
	params := &stripe.PaymentLinkListParams{
		ListParams: listParams(ctx, limit, cursor),
		Active:     f.Active,
	}

	iter := c.api.PaymentLinks.List(params)
	var page Page[*stripe.PaymentLink]
	for iter.Next() {
		page.Items = append(page.Items, iter.PaymentLink())
	}
	if err := iter.Err(); err != nil {
		return Page[*stripe.PaymentLink]{}, wrapErr("list payment links", err)
	}

	page.HasMore = iter.List().GetListMeta().HasMore
	if n := len(page.Items); n > 0 {
		page.NextCursor = page.Items[n-1].ID
	}
	return page, nil
}

// AllPaymentLinks lazily walks every payment link matching f.
func (c *Client) AllPaymentLinks(ctx context.Context, f PaymentLinkFilter) *Seq[*stripe.PaymentLink] {
	return newSeq(func(cursor string) (Page[*stripe.PaymentLink], error) {
		return c.ListPaymentLinks(ctx, f, listAllPageSize, cursor)
	})
}
