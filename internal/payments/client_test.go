package payments_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stripe-integration-demo/internal/payments"
	"stripe-integration-demo/internal/stripetest"
)

const testKey = "sk_test_fake"

func newTestClient(t *testing.T) (*payments.Client, *stripetest.Server) {
	t.Helper()

	srv := stripetest.New(t, testKey)
	client, err := payments.New(payments.Config{
		SecretKey: testKey,
		APIBase:   srv.URL,
	})
	require.NoError(t, err)
	return client, srv
}

func TestNewRequiresSecretKey(t *testing.T) {
	_, err := payments.New(payments.Config{})
	require.Error(t, err)
}

func TestCreateProductRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, payments.ProductInput{
		Name:        "Aged Lamp",
		Description: "A lamp with history",
		Images:      []string{"https://example.com/lamp.png"},
		Metadata:    map[string]string{"demo": "true"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := client.GetProduct(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Aged Lamp", fetched.Name)
	assert.Equal(t, "A lamp with history", fetched.Description)
	assert.Equal(t, []string{"https://example.com/lamp.png"}, fetched.Images)
	assert.Equal(t, map[string]string{"demo": "true"}, fetched.Metadata)
	assert.True(t, fetched.Active)
}

func TestUpdateProductPartial(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, payments.ProductInput{
		Name:        "Bright Mug",
		Description: "original",
		Metadata:    map[string]string{"demo": "true"},
	})
	require.NoError(t, err)

	newDescription := "updated description"
	_, err = client.UpdateProduct(ctx, created.ID, payments.ProductPatch{
		Description: &newDescription,
	})
	require.NoError(t, err)

	fetched, err := client.GetProduct(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "updated description", fetched.Description)
	assert.Equal(t, "Bright Mug", fetched.Name, "name must survive a description-only update")
	assert.Equal(t, map[string]string{"demo": "true"}, fetched.Metadata, "metadata must survive a description-only update")
}

func TestListProductsPagination(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	var created []string
	for i := 0; i < 10; i++ {
		p, err := client.CreateProduct(ctx, payments.ProductInput{
			Name: fmt.Sprintf("Product %02d", i),
		})
		require.NoError(t, err)
		created = append(created, p.ID)
	}

	// Walk the pages manually with page size 3: 3+3+3+1.
	var got []string
	cursor := ""
	pages := 0
	for {
		page, err := client.ListProducts(ctx, payments.ProductFilter{}, 3, cursor)
		require.NoError(t, err)
		pages++
		for _, p := range page.Items {
			got = append(got, p.ID)
		}
		if !page.HasMore {
			break
		}
		require.NotEmpty(t, page.NextCursor)
		cursor = page.NextCursor
	}

	assert.Equal(t, 4, pages)
	assert.Equal(t, created, got, "pagination must yield every product exactly once, in creation order")
}

func TestAllProductsFollowsCursors(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	all, err := payments.Collect(client.AllProducts(ctx, payments.ProductFilter{}))
	require.NoError(t, err)
	assert.Empty(t, all)

	var created []string
	for i := 0; i < 7; i++ {
		p, err := client.CreateProduct(ctx, payments.ProductInput{
			Name: fmt.Sprintf("Product %02d", i),
		})
		require.NoError(t, err)
		created = append(created, p.ID)
	}

	all, err = payments.Collect(client.AllProducts(ctx, payments.ProductFilter{}))
	require.NoError(t, err)

	var got []string
	for _, p := range all {
		got = append(got, p.ID)
	}
	assert.Equal(t, created, got)
}

func TestCreatePriceWithEmbeddedProduct(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	before := srv.ProductCount()
	price, err := client.CreatePrice(ctx, payments.PriceInput{
		Currency: "usd",
		Amount:   decimal.RequireFromString("19.99"),
		Product: &payments.ProductInput{
			Name:     "Coastal Kettle",
			Metadata: map[string]string{"demo": "true"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1999), price.UnitAmount)
	require.NotNil(t, price.Product)
	assert.Equal(t, before+1, srv.ProductCount(), "embedded product data must create exactly one product")

	product, err := client.GetProduct(ctx, price.Product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coastal Kettle", product.Name)
}

func TestCreatePriceInputExclusivity(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.CreatePrice(ctx, payments.PriceInput{
		Currency: "usd",
		Amount:   decimal.RequireFromString("1.00"),
	})
	assert.True(t, payments.IsValidation(err), "neither product reference set: %v", err)

	_, err = client.CreatePrice(ctx, payments.PriceInput{
		Currency:  "usd",
		Amount:    decimal.RequireFromString("1.00"),
		ProductID: "prod_x",
		Product:   &payments.ProductInput{Name: "x"},
	})
	assert.True(t, payments.IsValidation(err), "both product references set: %v", err)
}

func TestPriceLookupKeyUniqueness(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.CreatePrice(ctx, payments.PriceInput{
		Currency:  "usd",
		Amount:    decimal.RequireFromString("5.00"),
		Product:   &payments.ProductInput{Name: "Keyed"},
		LookupKey: "fakeProductKey",
	})
	require.NoError(t, err)

	_, err = client.CreatePrice(ctx, payments.PriceInput{
		Currency: "usd",
		Amount:   decimal.RequireFromString("6.00"),
		Product:  &payments.ProductInput{Name: "Unkeyed"},
	})
	require.NoError(t, err)

	page, err := client.ListPrices(ctx, payments.PriceFilter{
		LookupKeys: []string{"fakeProductKey"},
	}, 10, "")
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "fakeProductKey", page.Items[0].LookupKey)
	assert.Equal(t, int64(500), page.Items[0].UnitAmount)
}

func TestPaymentLinkLineItemCeiling(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	items := func(n int) []payments.LineItem {
		out := make([]payments.LineItem, n)
		for i := range out {
			out[i] = payments.LineItem{PriceID: fmt.Sprintf("price_%d", i), Quantity: 1}
		}
		return out
	}

	_, err := client.CreatePaymentLink(ctx, payments.PaymentLinkInput{LineItems: items(21)})
	assert.True(t, payments.IsValidation(err), "21 line items must be rejected by the provider: %v", err)

	link, err := client.CreatePaymentLink(ctx, payments.PaymentLinkInput{LineItems: items(20)})
	require.NoError(t, err)
	assert.NotEmpty(t, link.URL)
	assert.True(t, link.Active)
}

func TestPaymentLinkLifecycle(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreatePaymentLink(ctx, payments.PaymentLinkInput{
		LineItems: []payments.LineItem{{PriceID: "price_1", Quantity: 1}},
	})
	require.NoError(t, err)

	fetched, err := client.GetPaymentLink(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.URL, fetched.URL)

	updated, err := client.UpdatePaymentLink(ctx, created.ID, payments.PaymentLinkPatch{
		Active: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	page, err := client.ListPaymentLinks(ctx, payments.PaymentLinkFilter{Active: boolPtr(true)}, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items, "deactivated link must not appear in active listings")
}

func TestPaymentIntentFlow(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	intent, err := client.CreatePaymentIntent(ctx, payments.PaymentIntentInput{
		Amount:   decimal.RequireFromString("19.99"),
		Currency: "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1999), intent.Amount, "19.99 major units must be submitted as 1999 minor units")
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, "requires_payment_method", string(intent.Status))

	// The widget and provider move the intent; this client only observes.
	srv.AdvanceIntent(intent.ID, "succeeded")

	fetched, err := client.GetPaymentIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", string(fetched.Status))
}

func TestErrorClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		client, _ := newTestClient(t)
		_, err := client.GetProduct(ctx, "prod_missing")
		assert.True(t, payments.IsNotFound(err), "got %v", err)
		assert.False(t, payments.IsRetryable(err))
	})

	t.Run("bad key", func(t *testing.T) {
		srv := stripetest.New(t, testKey)
		client, err := payments.New(payments.Config{
			SecretKey: "sk_test_wrong",
			APIBase:   srv.URL,
		})
		require.NoError(t, err)

		_, err = client.GetProduct(ctx, "prod_x")
		assert.True(t, payments.IsAuth(err), "got %v", err)
		assert.False(t, payments.IsRetryable(err))
	})

	t.Run("provider 5xx is retryable", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "api_error", "message": "internal"},
			})
		}))
		t.Cleanup(broken.Close)

		client, err := payments.New(payments.Config{SecretKey: testKey, APIBase: broken.URL})
		require.NoError(t, err)

		_, err = client.GetProduct(ctx, "prod_x")
		assert.True(t, payments.IsRetryable(err), "got %v", err)
	})

	t.Run("transport failure is retryable", func(t *testing.T) {
		dead := httptest.NewServer(http.NewServeMux())
		dead.Close()

		client, err := payments.New(payments.Config{SecretKey: testKey, APIBase: dead.URL})
		require.NoError(t, err)

		_, err = client.GetProduct(ctx, "prod_x")
		assert.True(t, payments.IsRetryable(err), "got %v", err)
	})

	t.Run("validation message preserved", func(t *testing.T) {
		client, _ := newTestClient(t)
		_, err := client.CreatePaymentLink(ctx, payments.PaymentLinkInput{})
		require.Error(t, err)
		assert.True(t, payments.IsValidation(err))
		assert.Contains(t, err.Error(), "line_items", "provider message must be preserved")
	})
}

func boolPtr(b bool) *bool { return &b }
