package services

import "github.com/shopspring/decimal"

// minAmountChange is the smallest amount difference that counts as a
// real edit: one cent.
var minAmountChange = decimal.New(1, -2)

// hasCentPrecision reports whether d is exactly representable with two
// decimal places.
func hasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
