package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
)

// PriceInput describes a price to create. Amount is in major currency units
// and is scaled to minor units exactly once, by MinorUnits. Exactly one of
// ProductID and Product must be set: ProductID attaches the price to an
// existing product, Product embeds partial product data so the provider
// creates both entities in one atomic call. Never emulate the embedded form
// with two calls; a failure after the first would orphan the product.
type PriceInput struct {
	Currency  string
	Amount    decimal.Decimal
	ProductID string
	Product   *ProductInput
	LookupKey string
}

// PriceFilter narrows price listings.
type PriceFilter struct {
	ProductID  string
	LookupKeys []string
	Active     *bool
}

// CreatePrice creates a price, and with it the embedded product when
// in.Product is set.
func (c *Client) CreatePrice(ctx context.Context, in PriceInput) (*stripe.Price, error) {
	if (in.ProductID == "") == (in.Product == nil) {
		return nil, &Error{
			Kind:    KindValidation,
			Op:      "create price",
			Message: "exactly one of ProductID and Product must be set",
			Err:     fmt.Errorf("invalid price input"),
		}
	}

	params := &stripe.PriceParams{
		Currency:   stripe.String(in.Currency),
		UnitAmount: stripe.Int64(MinorUnits(in.Amount, in.Currency)),
	}
	params.Context = ctx
	params.IdempotencyKey = newIdempotencyKey()
	if in.Product != nil {
		params.ProductData = &stripe.PriceProductDataParams{
			Name:     stripe.String(in.Product.Name),
			Metadata: in.Product.Metadata,
		}
	} else {
		params.Product = stripe.String(in.ProductID)
	}
	if in.LookupKey != "" {
		params.LookupKey = stripe.String(in.LookupKey)
	}

	price, err := c.api.Prices.New(params)
	if err != nil {
		return nil, wrapErr("create price", err)
	}
	return price, nil
}

// GetPrice retrieves a price by id.
func (c *Client) GetPrice(ctx context.Context, id string) (*stripe.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	price, err := c.api.Prices.Get(id, params)
	if err != nil {
		return nil, wrapErr("get price", err)
	}
	return price, nil
}

// ListPrices returns one page of at most limit prices starting after cursor.
func (c *Client) ListPrices(ctx context.Context, f PriceFilter, limit int64, cursor string) (Page[*stripe.Price], error) {
	params := &stripe.PriceListParams{
		ListParams: listParams(ctx, limit, cursor),
		Active:     f.Active,
	}
	if f.ProductID != "" {
		params.Product = stripe.String(f.ProductID)
	}
	if len(f.LookupKeys) > 0 {
		params.LookupKeys = stripe.StringSlice(f.LookupKeys)
	}

	iter := c.api.Prices.List(params)
	var page Page[*stripe.Price]
	for iter.Next() {
		page.Items = append(page.Items, iter.Price())
	}
	if err := iter.Err(); err != nil {
		return Page[*stripe.Price]{}, wrapErr("list prices", err)
	}

	page.HasMore = iter.List().GetListMeta().HasMore
	if n := len(page.Items); n > 0 {
		page.NextCursor = page.Items[n-1].ID
	}
	return page, nil
}

// AllPrices lazily walks every price matching f.
func (c *Client) AllPrices(ctx context.Context, f PriceFilter) *Seq[*stripe.Price] {
	return newSeq(func(cursor string) (Page[*stripe.Price], error) {
		return c.ListPrices(ctx, f, listAllPageSize, cursor)
	})
}
