// Package payments wraps the Stripe API behind a small resource-client
// layer: uniform create/get/update/list access per resource with cursor
// pagination hidden behind lazy sequences, amounts converted to minor
// currency units in one place, and failures classified into stable kinds.
package payments

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// Page size used when lazily walking a whole collection.
const listAllPageSize = 100

// Config carries everything a Client needs. Passing it explicitly keeps the
// process free of global API-key state, so clients for different accounts
// can coexist (and tests can point at a mock server).
type Config struct {
	// SecretKey is the bearer secret attached to every request.
	SecretKey string
	// APIBase overrides the API base URL; empty means the live API.
	APIBase string
	// Timeout bounds each remote call. Zero means 30s. A timed-out call
	// surfaces as a retryable remote error.
	Timeout time.Duration
}

// Client issues calls against the Stripe resource collections. All methods
// are safe for concurrent use; the remote account is the only shared state.
type Client struct {
	api *client.API
}

// New builds a Client with its own backend and key.
func New(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("payments: secret key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:    &http.Client{Timeout: cfg.Timeout},
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
		// No transport-level retries: failures surface immediately and
		// callers decide what is worth retrying via IsRetryable.
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIBase != "" {
		backendCfg.URL = stripe.String(cfg.APIBase)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &Client{api: api}, nil
}

// newIdempotencyKey tags a create request so an interrupted call can be
// replayed without creating the resource twice.
func newIdempotencyKey() *string {
	return stripe.String(uuid.NewString())
}

// listParams assembles the shared cursor/limit parameters for a single-page
// list call.
func listParams(ctx context.Context, limit int64, cursor string) stripe.ListParams {
	lp := stripe.ListParams{Context: ctx, Single: true}
	if limit > 0 {
		lp.Limit = stripe.Int64(limit)
	}
	if cursor != "" {
		lp.StartingAfter = stripe.String(cursor)
	}
	return lp
}
