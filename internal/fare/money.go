package fare

import "github.com/shopspring/decimal"

// roundCents rounds to two decimals, halves away from zero. The value goes
// through its shortest decimal representation so 2.675 rounds to 2.68.
func roundCents(v float64) float64 {
	if !validAmount(v) {
		return 0
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return rounded
}
