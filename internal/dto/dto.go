package dto

// Amounts cross the API as major-unit decimal strings ("19.99"); the
// payments layer owns the conversion to minor units.

type CreateCatalogItemRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	LookupKey   string            `json:"lookup_key"`
}

type UpdateProductRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Active      *bool             `json:"active"`
	Metadata    map[string]string `json:"metadata"`
}

type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Active      bool              `json:"active"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
}

type Price struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	LookupKey  string `json:"lookup_key,omitempty"`
}

type CatalogItem struct {
	Product Product `json:"product"`
	Price   Price   `json:"price"`
}

type ProductPage struct {
	Products   []Product `json:"products"`
	HasMore    bool      `json:"has_more"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type SeedCatalogRequest struct {
	Seed  int64 `json:"seed"`
	Count int   `json:"count"`
}

type ComposePaymentLinkRequest struct {
	// MaxItems bounds how many listed prices become line items. The
	// provider rejects more than 20.
	MaxItems int64 `json:"max_items"`
}

type PaymentLink struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

type BeginCheckoutRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type CheckoutResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

type PaymentIntentStatus struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type WidgetConfig struct {
	PublishableKey string `json:"publishable_key"`
}
