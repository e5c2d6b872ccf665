package entity

import "math"

// Round2 rounds an amount to two decimal places. Order totals and item
// subtotals are stored rounded; cart totals are rounded per response.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
