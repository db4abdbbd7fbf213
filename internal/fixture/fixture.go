// Package fixture generates deterministic sample catalog data. Output is a
// pure function of the seed, so tests and demo seeding are reproducible
// without a faking library.
package fixture

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
)

var adjectives = []string{
	"Aged", "Bright", "Coastal", "Dapper", "Electric", "Fabled",
	"Gilded", "Handy", "Iron", "Jolly", "Keen", "Lunar",
}

var nouns = []string{
	"Lamp", "Mug", "Notebook", "Satchel", "Kettle", "Poster",
	"Compass", "Blanket", "Speaker", "Planter", "Clock", "Tumbler",
}

// Product is one generated catalog entry. Amount is in major currency units.
type Product struct {
	Name        string
	Description string
	LookupKey   string
	Amount      decimal.Decimal
	Currency    string
	Metadata    map[string]string
}

// Catalog returns n generated products. Equal seeds yield identical
// catalogs; lookup keys are unique within one catalog.
func Catalog(seed int64, n int) []Product {
	r := rand.New(rand.NewSource(seed))

	products := make([]Product, n)
	for i := range products {
		adj := adjectives[r.Intn(len(adjectives))]
		noun := nouns[r.Intn(len(nouns))]
		// 1.00 .. 99.99 in whole cents
		cents := int64(r.Intn(9900) + 100)

		products[i] = Product{
			Name:        fmt.Sprintf("%s %s", adj, noun),
			Description: fmt.Sprintf("A %s %s from the demo catalog.", adj, noun),
			LookupKey:   fmt.Sprintf("%s-%s-%03d", adj, noun, i),
			Amount:      decimal.New(cents, -2),
			Currency:    "usd",
			Metadata: map[string]string{
				"demo": "true",
			},
		}
	}
	return products
}
