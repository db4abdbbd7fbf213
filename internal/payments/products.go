package payments

import (
	"context"

	"github.com/stripe/stripe-go/v81"
)

// ProductInput describes a product to create. The provider assigns the id.
type ProductInput struct {
	Name        string
	Description string
	Images      []string
	Metadata    map[string]string
}

// ProductPatch is a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Active      *bool
	Images      []string
	Metadata    map[string]string
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Active *bool
}

// CreateProduct creates a product and returns it with its provider-assigned
// id.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*stripe.Product, error) {
	params := &stripe.ProductParams{
		Name: stripe.String(in.Name),
	}
	params.Context = ctx
	params.IdempotencyKey = newIdempotencyKey()
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	if len(in.Images) > 0 {
		params.Images = stripe.StringSlice(in.Images)
	}
	params.Metadata = in.Metadata

	product, err := c.api.Products.New(params)
	if err != nil {
		return nil, wrapErr("create product", err)
	}
	return product, nil
}

// GetProduct retrieves a product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*stripe.Product, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx

	product, err := c.api.Products.Get(id, params)
	if err != nil {
		return nil, wrapErr("get product", err)
	}
	return product, nil
}

// UpdateProduct applies a partial update to a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*stripe.Product, error) {
	params := &stripe.ProductParams{
		Name:        patch.Name,
		Description: patch.Description,
		Active:      patch.Active,
	}
	params.Context = ctx
	params.Metadata = patch.Metadata
	if len(patch.Images) > 0 {
		params.Images = stripe.StringSlice(patch.Images)
	}

	product, err := c.api.Products.Update(id, params)
	if err != nil {
		return nil, wrapErr("update product", err)
	}
	return product, nil
}

// ListProducts returns one page of at most limit products starting after
// cursor.
func (c *Client) ListProducts(ctx context.Context, f ProductFilter, limit int64, cursor string) (Page[*stripe.Product], error) {
	params := &stripe.ProductListParams{
		ListParams: listParams(ctx, limit, cursor),
		Active:     f.Active,
	}

	iter := c.api.Products.List(params)
	var page Page[*stripe.Product]
	for iter.Next() {
		page.Items = append(page.Items, iter.Product())
	}
	if err := iter.Err(); err != nil {
		return Page[*stripe.Product]{}, wrapErr("list products", err)
	}

	page.HasMore = iter.List().GetListMeta().HasMore
	if n := len(page.Items); n > 0 {
		page.NextCursor = page.Items[n-1].ID
	}
	return page, nil
}

// AllProducts lazily walks every product matching f, following cursors until
// the provider reports no more pages.
func (c *Client) AllProducts(ctx context.Context, f ProductFilter) *Seq[*stripe.Product] {
	return newSeq(func(cursor string) (Page[*stripe.Product], error) {
		return c.ListProducts(ctx, f, listAllPageSize, cursor)
	})
}
