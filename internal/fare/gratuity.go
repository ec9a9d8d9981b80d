package fare

import "math"

// ApplyGratuity derives the gratuity amount from the clamped subtotal.
// Cash tips are informational and never charged. Unknown types count as none.
func ApplyGratuity(subtotal float64, info GratuityInfo) GratuityInfo {
	out := info
	out.Amount = 0

	switch info.Type {
	case GratuityPercentage:
		if info.Percentage != nil && validAmount(*info.Percentage) && *info.Percentage > 0 {
			out.Amount = roundCents(subtotal * *info.Percentage / 100)
		}
	case GratuityCustom:
		amount := float64(info.CustomAmount)
		if validAmount(amount) && amount > 0 {
			out.Amount = roundCents(amount)
		}
	case GratuityCash:
	default:
		out.Type = GratuityNone
	}

	return out
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
