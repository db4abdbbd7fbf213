package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"

	"stripe-integration-demo/internal/dto"
	"stripe-integration-demo/internal/fixture"
	"stripe-integration-demo/internal/payments"
)

const defaultLinkItems = 10

type CheckoutService interface {
	CreateCatalogItem(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CatalogItem, error)
	GetProduct(ctx context.Context, id string) (*dto.Product, error)
	UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.Product, error)
	ListProducts(ctx context.Context, limit int64, cursor string) (*dto.ProductPage, error)
	FullCatalog(ctx context.Context) ([]dto.Product, error)
	PriceByLookupKey(ctx context.Context, lookupKey string) (*dto.Price, error)
	SeedCatalog(ctx context.Context, req *dto.SeedCatalogRequest) ([]dto.CatalogItem, error)
	ComposePaymentLink(ctx context.Context, req *dto.ComposePaymentLinkRequest) (*dto.PaymentLink, error)
	GetPaymentLink(ctx context.Context, id string) (*dto.PaymentLink, error)
	BeginCheckout(ctx context.Context, req *dto.BeginCheckoutRequest) (*dto.CheckoutResponse, error)
	PaymentIntentStatus(ctx context.Context, id string) (*dto.PaymentIntentStatus, error)
}

type checkoutServiceImpl struct {
	client *payments.Client
}

func NewCheckoutService(client *payments.Client) CheckoutService {
	return &checkoutServiceImpl{
		client: client,
	}
}

// CreateCatalogItem creates a product and its price in one provider call by
// embedding the product data in the price creation, keeping the pair atomic.
func (s *checkoutServiceImpl) CreateCatalogItem(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CatalogItem, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	price, err := s.client.CreatePrice(ctx, payments.PriceInput{
		Currency: req.Currency,
		Amount:   amount,
		Product: &payments.ProductInput{
			Name:     req.Name,
			Metadata: req.Metadata,
		},
		LookupKey: req.LookupKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog item: %w", err)
	}

	// The price's product reference is not expanded on create; fetch the
	// full product so descriptive fields can be filled in afterwards.
	product, err := s.client.GetProduct(ctx, price.Product.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch created product: %w", err)
	}

	if req.Description != "" || len(req.Images) > 0 {
		patch := payments.ProductPatch{Images: req.Images}
		if req.Description != "" {
			patch.Description = &req.Description
		}
		product, err = s.client.UpdateProduct(ctx, product.ID, patch)
		if err != nil {
			return nil, fmt.Errorf("describe created product: %w", err)
		}
	}

	item := &dto.CatalogItem{
		Product: productDTO(product),
		Price:   priceDTO(price),
	}
	return item, nil
}

func (s *checkoutServiceImpl) GetProduct(ctx context.Context, id string) (*dto.Product, error) {
	product, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p := productDTO(product)
	return &p, nil
}

func (s *checkoutServiceImpl) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.Product, error) {
	product, err := s.client.UpdateProduct(ctx, id, payments.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return nil, err
	}
	p := productDTO(product)
	return &p, nil
}

func (s *checkoutServiceImpl) ListProducts(ctx context.Context, limit int64, cursor string) (*dto.ProductPage, error) {
	page, err := s.client.ListProducts(ctx, payments.ProductFilter{}, limit, cursor)
	if err != nil {
		return nil, err
	}

	result := &dto.ProductPage{
		Products:   make([]dto.Product, len(page.Items)),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
	for i, p := range page.Items {
		result.Products[i] = productDTO(p)
	}
	return result, nil
}

func (s *checkoutServiceImpl) FullCatalog(ctx context.Context) ([]dto.Product, error) {
	all, err := payments.Collect(s.client.AllProducts(ctx, payments.ProductFilter{}))
	if err != nil {
		return nil, fmt.Errorf("walk catalog: %w", err)
	}

	products := make([]dto.Product, len(all))
	for i, p := range all {
		products[i] = productDTO(p)
	}
	return products, nil
}

// PriceByLookupKey resolves a lookup key to its single price. Lookup keys
// are unique per account, so anything other than exactly one match is an
// error.
func (s *checkoutServiceImpl) PriceByLookupKey(ctx context.Context, lookupKey string) (*dto.Price, error) {
	page, err := s.client.ListPrices(ctx, payments.PriceFilter{LookupKeys: []string{lookupKey}}, 2, "")
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, &payments.Error{
			Kind:    payments.KindNotFound,
			Op:      "price by lookup key",
			Message: fmt.Sprintf("no price with lookup key %q", lookupKey),
			Err:     fmt.Errorf("lookup key not found"),
		}
	}
	if len(page.Items) > 1 {
		return nil, fmt.Errorf("lookup key %q matched %d prices, want 1", lookupKey, len(page.Items))
	}

	p := priceDTO(page.Items[0])
	return &p, nil
}

// SeedCatalog creates a deterministic demo catalog. Equal seeds produce the
// same products, which keeps demo runs and tests reproducible.
func (s *checkoutServiceImpl) SeedCatalog(ctx context.Context, req *dto.SeedCatalogRequest) ([]dto.CatalogItem, error) {
	count := req.Count
	if count <= 0 {
		count = 5
	}

	items := make([]dto.CatalogItem, 0, count)
	for _, p := range fixture.Catalog(req.Seed, count) {
		item, err := s.CreateCatalogItem(ctx, &dto.CreateCatalogItemRequest{
			Name:        p.Name,
			Description: p.Description,
			Metadata:    p.Metadata,
			Amount:      p.Amount.String(),
			Currency:    p.Currency,
			LookupKey:   p.LookupKey,
		})
		if err != nil {
			return nil, fmt.Errorf("seed catalog item %q: %w", p.Name, err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// ComposePaymentLink lists up to MaxItems prices, projects each to a line
// item with quantity 1, and submits the ordered list. The provider enforces
// the 20-item ceiling; its validation error passes through untouched.
func (s *checkoutServiceImpl) ComposePaymentLink(ctx context.Context, req *dto.ComposePaymentLinkRequest) (*dto.PaymentLink, error) {
	limit := req.MaxItems
	if limit <= 0 {
		limit = defaultLinkItems
	}

	page, err := s.client.ListPrices(ctx, payments.PriceFilter{}, limit, "")
	if err != nil {
		return nil, fmt.Errorf("list prices for link: %w", err)
	}

	items := make([]payments.LineItem, len(page.Items))
	for i, price := range page.Items {
		items[i] = payments.LineItem{PriceID: price.ID, Quantity: 1}
	}

	link, err := s.client.CreatePaymentLink(ctx, payments.PaymentLinkInput{LineItems: items})
	if err != nil {
		return nil, err
	}
	return paymentLinkDTO(link), nil
}

func (s *checkoutServiceImpl) GetPaymentLink(ctx context.Context, id string) (*dto.PaymentLink, error) {
	link, err := s.client.GetPaymentLink(ctx, id)
	if err != nil {
		return nil, err
	}
	return paymentLinkDTO(link), nil
}

// BeginCheckout creates a payment intent and returns its client secret for
// the browser-side widget. All later status transitions happen provider-side.
func (s *checkoutServiceImpl) BeginCheckout(ctx context.Context, req *dto.BeginCheckoutRequest) (*dto.CheckoutResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	intent, err := s.client.CreatePaymentIntent(ctx, payments.PaymentIntentInput{
		Amount:      amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}

	return &dto.CheckoutResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          intent.Amount,
		Currency:        string(intent.Currency),
		Status:          string(intent.Status),
	}, nil
}

func (s *checkoutServiceImpl) PaymentIntentStatus(ctx context.Context, id string) (*dto.PaymentIntentStatus, error) {
	intent, err := s.client.GetPaymentIntent(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentIntentStatus{
		ID:       intent.ID,
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
		Status:   string(intent.Status),
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, &payments.Error{
			Kind:    payments.KindValidation,
			Op:      "parse amount",
			Message: fmt.Sprintf("invalid amount %q", s),
			Err:     fmt.Errorf("amount must be a non-negative decimal"),
		}
	}
	return amount, nil
}

func productDTO(p *stripe.Product) dto.Product {
	return dto.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		Images:      p.Images,
		Metadata:    p.Metadata,
	}
}

func priceDTO(p *stripe.Price) dto.Price {
	price := dto.Price{
		ID:         p.ID,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		LookupKey:  p.LookupKey,
	}
	if p.Product != nil {
		price.ProductID = p.Product.ID
	}
	return price
}

func paymentLinkDTO(l *stripe.PaymentLink) *dto.PaymentLink {
	return &dto.PaymentLink{
		ID:     l.ID,
		URL:    l.URL,
		Active: l.Active,
	}
}
