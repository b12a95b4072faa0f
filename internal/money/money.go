// Package money centralizes the 2-decimal rounding used across the ledger,
// invoices and reports, so every component rounds the same way.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// MulRound2 multiplies two values and rounds the product to 2 decimals, in
// decimal space so float artifacts never reach the result.
func MulRound2(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// PercentRound2 applies rate (a percentage) to base and rounds to 2 decimals.
func PercentRound2(base, rate float64) float64 {
	return decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// Sum adds already-rounded values exactly. Document totals are the sum of
// rounded line amounts, never a re-rounded sum of raw products.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
