package payments

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies whose minor unit equals the major unit. Stripe expects these
// amounts unscaled: ¥500 is 500, not 50000.
// https://docs.stripe.com/currencies#zero-decimal
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {},
	"krw": {}, "mga": {}, "pyg": {}, "rwf": {}, "ugx": {}, "vnd": {},
	"vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// MinorUnits converts a major-unit amount to the provider's minor units:
// 19.99 USD becomes 1999, 500 JPY stays 500. Sub-minor-unit remainders round
// half away from zero, so equal inputs always yield equal outputs. This is
// the only place amounts are scaled.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	exp := int32(2)
	if _, ok := zeroDecimalCurrencies[strings.ToLower(currency)]; ok {
		exp = 0
	}
	return amount.Shift(exp).Round(0).IntPart()
}
