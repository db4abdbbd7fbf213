// Package stripetest runs an in-memory double of the Stripe API endpoints
// this project uses. It speaks the real wire shapes (form-encoded requests,
// JSON responses, {"error": ...} failures) so the stripe-go client can be
// pointed at it unchanged, preserves insertion order in listings, and
// enforces the provider's documented limits (starting-after cursors, the
// 20-entry payment link ceiling).
package stripetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const defaultPageLimit = 10

// Server is the fake provider. All fields are guarded by mu.
type Server struct {
	*httptest.Server

	secretKey string

	mu       sync.Mutex
	products []*product
	prices   []*price
	links    []*paymentLink
	intents  []*paymentIntent
	seq      int
}

type product struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	Active      bool              `json:"active"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata"`
}

type price struct {
	ID         string `json:"id"`
	Object     string `json:"object"`
	Active     bool   `json:"active"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
	Product    string `json:"product"`
	LookupKey  string `json:"lookup_key,omitempty"`
}

type lineItem struct {
	Price    string
	Quantity int64
}

type paymentLink struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	Active bool   `json:"active"`
	URL    string `json:"url"`

	items []lineItem
}

type paymentIntent struct {
	ID           string `json:"id"`
	Object       string `json:"object"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

// New starts the fake provider accepting the given secret key and shuts it
// down with the test.
func New(t *testing.T, secretKey string) *Server {
	t.Helper()

	s := &Server{secretKey: secretKey}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/products", s.createProduct)
	mux.HandleFunc("GET /v1/products", s.listProducts)
	mux.HandleFunc("GET /v1/products/{id}", s.getProduct)
	mux.HandleFunc("POST /v1/products/{id}", s.updateProduct)
	mux.HandleFunc("POST /v1/prices", s.createPrice)
	mux.HandleFunc("GET /v1/prices", s.listPrices)
	mux.HandleFunc("GET /v1/prices/{id}", s.getPrice)
	mux.HandleFunc("POST /v1/payment_links", s.createPaymentLink)
	mux.HandleFunc("GET /v1/payment_links", s.listPaymentLinks)
	mux.HandleFunc("GET /v1/payment_links/{id}", s.getPaymentLink)
	mux.HandleFunc("POST /v1/payment_links/{id}", s.updatePaymentLink)
	mux.HandleFunc("POST /v1/payment_intents", s.createPaymentIntent)
	mux.HandleFunc("GET /v1/payment_intents/{id}", s.getPaymentIntent)

	s.Server = httptest.NewServer(s.withAuth(mux))
	t.Cleanup(s.Close)
	return s
}

// ProductCount reports how many products exist, for asserting atomicity of
// combined price+product creation.
func (s *Server) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// AdvanceIntent force-moves a payment intent's status, standing in for the
// provider-side transitions driven by the checkout widget.
func (s *Server) AdvanceIntent(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, intent := range s.intents {
		if intent.ID == id {
			intent.Status = status
		}
	}
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.secretKey {
			writeErr(w, http.StatusUnauthorized, "invalid_request_error", "",
				"Invalid API Key provided")
			return
		}
		if err := r.ParseForm(); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid_request_error", "",
				"could not parse request body")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeErr(w http.ResponseWriter, status int, errType, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{
		"type":    errType,
		"message": message,
	}
	if code != "" {
		body["code"] = code
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"error": body})
}

func writeMissing(w http.ResponseWriter, kind, id string) {
	writeErr(w, http.StatusNotFound, "invalid_request_error", "resource_missing",
		fmt.Sprintf("No such %s: '%s'", kind, id))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeList[T any](w http.ResponseWriter, url string, items []T, hasMore bool) {
	writeJSON(w, map[string]any{
		"object":   "list",
		"url":      url,
		"has_more": hasMore,
		"data":     items,
	})
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%06d", prefix, s.seq)
}

// page applies limit/starting_after cursor semantics over an insertion-order
// slice. match selects items, id extracts the cursor id.
func page[T any](form map[string][]string, all []T, match func(T) bool, id func(T) string) (items []T, hasMore bool) {
	limit := defaultPageLimit
	if raw := first(form, "limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	after := first(form, "starting_after")
	skipping := after != ""

	for _, item := range all {
		if !match(item) {
			continue
		}
		if skipping {
			if id(item) == after {
				skipping = false
			}
			continue
		}
		if len(items) == limit {
			return items, true
		}
		items = append(items, item)
	}
	return items, false
}

func first(form map[string][]string, key string) string {
	if vs := form[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// collectMap gathers form keys of the shape prefix[k]=v.
func collectMap(form map[string][]string, prefix string) map[string]string {
	var m map[string]string
	for key, vs := range form {
		if !strings.HasPrefix(key, prefix+"[") || !strings.HasSuffix(key, "]") || len(vs) == 0 {
			continue
		}
		if m == nil {
			m = map[string]string{}
		}
		m[key[len(prefix)+1:len(key)-1]] = vs[0]
	}
	return m
}

// collectIndexed gathers form keys of the shape prefix[0]=v, prefix[1]=v...
func collectIndexed(form map[string][]string, prefix string) []string {
	var out []string
	for i := 0; ; i++ {
		v := first(form, fmt.Sprintf("%s[%d]", prefix, i))
		if v == "" {
			return out
		}
		out = append(out, v)
	}
}

// -------- products --------

func (s *Server) newProduct(name, description string, images []string, metadata map[string]string) *product {
	p := &product{
		ID:          s.nextID("prod"),
		Object:      "product",
		Active:      true,
		Name:        name,
		Description: description,
		Images:      images,
		Metadata:    metadata,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
	s.products = append(s.products, p)
	return p
}

func (s *Server) findProduct(id string) *product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := first(r.Form, "name")
	if name == "" {
		writeErr(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing",
			"Missing required param: name.")
		return
	}

	p := s.newProduct(name, first(r.Form, "description"),
		collectIndexed(r.Form, "images"), collectMap(r.Form, "metadata"))
	writeJSON(w, p)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(r.PathValue("id"))
	if p == nil {
		writeMissing(w, "product", r.PathValue("id"))
		return
	}
	writeJSON(w, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(r.PathValue("id"))
	if p == nil {
		writeMissing(w, "product", r.PathValue("id"))
		return
	}

	// Partial update: absent fields stay as they are.
	if v := first(r.Form, "name"); v != "" {
		p.Name = v
	}
	if v := first(r.Form, "description"); v != "" {
		p.Description = v
	}
	if v := first(r.Form, "active"); v != "" {
		p.Active = v == "true"
	}
	if imgs := collectIndexed(r.Form, "images"); len(imgs) > 0 {
		p.Images = imgs
	}
	if m := collectMap(r.Form, "metadata"); m != nil {
		p.Metadata = m
	}
	writeJSON(w, p)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := first(r.Form, "active")
	items, hasMore := page(r.Form, s.products,
		func(p *product) bool {
			return active == "" || strconv.FormatBool(p.Active) == active
		},
		func(p *product) string { return p.ID })
	writeList(w, "/v1/products", items, hasMore)
}

// -------- prices --------

func (s *Server) createPrice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	productID := first(r.Form, "product")
	if name := first(r.Form, "product_data[name]"); name != "" {
		// Embedded product data: both entities come from this one call.
		productID = s.newProduct(name, "", nil, collectMap(r.Form, "product_data[metadata]")).ID
	} else if s.findProduct(productID) == nil {
		writeMissing(w, "product", productID)
		return
	}

	unitAmount, err := strconv.ParseInt(first(r.Form, "unit_amount"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing",
			"Missing required param: unit_amount.")
		return
	}

	p := &price{
		ID:         s.nextID("price"),
		Object:     "price",
		Active:     true,
		Currency:   first(r.Form, "currency"),
		UnitAmount: unitAmount,
		Product:    productID,
		LookupKey:  first(r.Form, "lookup_key"),
	}
	s.prices = append(s.prices, p)
	writeJSON(w, p)
}

func (s *Server) getPrice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prices {
		if p.ID == r.PathValue("id") {
			writeJSON(w, p)
			return
		}
	}
	writeMissing(w, "price", r.PathValue("id"))
}

func (s *Server) listPrices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	productID := first(r.Form, "product")
	lookupKeys := collectIndexed(r.Form, "lookup_keys")
	active := first(r.Form, "active")

	items, hasMore := page(r.Form, s.prices,
		func(p *price) bool {
			if productID != "" && p.Product != productID {
				return false
			}
			if active != "" && strconv.FormatBool(p.Active) != active {
				return false
			}
			if len(lookupKeys) > 0 {
				found := false
				for _, key := range lookupKeys {
					if p.LookupKey == key {
						found = true
					}
				}
				return found
			}
			return true
		},
		func(p *price) string { return p.ID })
	writeList(w, "/v1/prices", items, hasMore)
}

// -------- payment links --------

func (s *Server) createPaymentLink(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []lineItem
	for i := 0; ; i++ {
		priceID := first(r.Form, fmt.Sprintf("line_items[%d][price]", i))
		if priceID == "" {
			break
		}
		quantity, _ := strconv.ParseInt(first(r.Form, fmt.Sprintf("line_items[%d][quantity]", i)), 10, 64)
		items = append(items, lineItem{Price: priceID, Quantity: quantity})
	}

	if len(items) == 0 {
		writeErr(w, http.StatusBadRequest, "invalid_request_error", "parameter_missing",
			"Missing required param: line_items.")
		return
	}
	if len(items) > 20 {
		writeErr(w, http.StatusBadRequest, "invalid_request_error", "",
			"You can only have up to 20 line items.")
		return
	}

	link := &paymentLink{
		ID:     s.nextID("plink"),
		Object: "payment_link",
		Active: true,
		items:  items,
	}
	link.URL = "https://buy.stripe.test/" + link.ID
	s.links = append(s.links, link)
	writeJSON(w, link)
}

func (s *Server) findLink(id string) *paymentLink {
	for _, l := range s.links {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *Server) getPaymentLink(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := s.findLink(r.PathValue("id"))
	if link == nil {
		writeMissing(w, "payment_link", r.PathValue("id"))
		return
	}
	writeJSON(w, link)
}

func (s *Server) updatePaymentLink(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := s.findLink(r.PathValue("id"))
	if link == nil {
		writeMissing(w, "payment_link", r.PathValue("id"))
		return
	}
	if v := first(r.Form, "active"); v != "" {
		link.Active = v == "true"
	}
	writeJSON(w, link)
}

func (s *Server) listPaymentLinks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := first(r.Form, "active")
	items, hasMore := page(r.Form, s.links,
		func(l *paymentLink) bool {
			return active == "" || strconv.FormatBool(l.Active) == active
		},
		func(l *paymentLink) string { return l.ID })
	writeList(w, "/v1/payment_links", items, hasMore)
}

// -------- payment intents --------

func (s *Server) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := strconv.ParseInt(first(r.Form, "amount"), 10, 64)
	if err != nil || amount <= 0 {
		writeErr(w, http.StatusBadRequest, "invalid_request_error", "parameter_invalid_integer",
			"Invalid positive integer: amount.")
		return
	}

	intent := &paymentIntent{
		ID:       s.nextID("pi"),
		Object:   "payment_intent",
		Amount:   amount,
		Currency: first(r.Form, "currency"),
		Status:   "requires_payment_method",
	}
	intent.ClientSecret = intent.ID + "_secret_" + s.nextID("cs")
	s.intents = append(s.intents, intent)
	writeJSON(w, intent)
}

func (s *Server) getPaymentIntent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, intent := range s.intents {
		if intent.ID == r.PathValue("id") {
			writeJSON(w, intent)
			return
		}
	}
	writeMissing(w, "payment_intent", r.PathValue("id"))
}
