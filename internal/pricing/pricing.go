// Package pricing implements the price adjustment engine and currency
// display formatting for the catalog. All arithmetic is fixed-point
// decimal; no binary floating point touches a price.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"tienda/internal/models"
)

// Display symbols per supported currency.
const (
	SymbolMXN = "$"
	SymbolUSD = "USD"
	SymbolEUR = "€"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Adjust computes the new price for a change request against the current
// price. AMOUNT changes add or subtract the value directly. PERCENTAGE
// changes interpret the value as a fraction: a value above 1 is taken as
// a literal percentage and divided by 100 (half-up, two places) first,
// so 0.10 and 10 both mean ten percent.
//
// Post-condition: the result is never negative. A change that would push
// the price below zero is clamped to zero, not reported as an error.
// Currency equality between product and request is the caller's job;
// Adjust performs no conversion.
func Adjust(current decimal.Decimal, change models.PriceChange) decimal.Decimal {
	price := current
	switch change.ValueType {
	case models.ValueAmount:
		if change.Type == models.PriceIncrease {
			price = current.Add(change.Amount)
		} else {
			price = current.Sub(change.Amount)
		}
	case models.ValuePercentage:
		fraction := normalizeFraction(change.Amount)
		if change.Type == models.PriceIncrease {
			price = current.Mul(fraction.Add(one))
		} else {
			price = current.Sub(current.Mul(fraction))
		}
	}
	return clampToZero(price)
}

// normalizeFraction converts a percentage value to a fraction. Values
// above 1 are literal percentages (15 means 15%).
func normalizeFraction(value decimal.Decimal) decimal.Decimal {
	if value.GreaterThan(one) {
		return value.DivRound(hundred, 2)
	}
	return value
}

// clampToZero replaces a negative price with zero.
func clampToZero(price decimal.Decimal) decimal.Decimal {
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// Symbol returns the display symbol for a currency code. Unknown codes
// render without a symbol.
func Symbol(currency models.Currency) string {
	switch models.Currency(strings.ToUpper(string(currency))) {
	case models.CurrencyMXN:
		return SymbolMXN
	case models.CurrencyUSD:
		return SymbolUSD
	case models.CurrencyEUR:
		return SymbolEUR
	default:
		return ""
	}
}

// FormattedPrice renders an amount for display as symbol + amount +
// " (CODE)", e.g. "$90.00 (MXN)".
func FormattedPrice(currency models.Currency, amount decimal.Decimal) string {
	return Symbol(currency) + amount.StringFixed(2) + " (" + string(currency) + ")"
}
