package util

import "github.com/shopspring/decimal"

// Round rounds x half away from zero to places decimals using exact decimal
// arithmetic, so 0.12345 becomes 0.1235.
func Round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}
