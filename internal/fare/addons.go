package fare

// StopFees charges every stop its own price when set, otherwise the configured stop price
func StopFees(stops []Stop, s PricingSettings) float64 {
	var total float64
	for _, stop := range stops {
		if stop.Price != nil {
			total += *stop.Price
			continue
		}
		total += s.StopPrice
	}
	return total
}

// SeatFees charges child seats per unit. Negative counts contribute nothing.
func SeatFees(carSeats, boosterSeats int, s PricingSettings) float64 {
	return float64(nonNegative(carSeats))*s.CarSeatPrice + float64(nonNegative(boosterSeats))*s.BoosterSeatPrice
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
