// Package fare computes limousine booking fares from booking inputs and
// the admin pricing settings. Everything in this package is pure: the
// same inputs and settings always produce the same breakdown.
package fare

import "math"

// Compute runs the fare pipeline:
// base price, distance tier fee, per-mile overage, time surcharge,
// add-ons, fee rules, min then max clamp, rounding to cents, gratuity.
func Compute(in BookingInputs, s PricingSettings) *PriceBreakdown {
	hours := normalizeHours(in.Hours)
	miles := milesFromMeters(in.DistanceMeters)

	b := &PriceBreakdown{
		Hours:         hours,
		DistanceMiles: miles,
	}

	// Stage 1: base price
	b.BasePrice = basePrice(in, hours)

	// Stage 2: distance
	if s.DistanceFeeEnabled {
		b.DistanceFee = TierFee(miles, s.DistanceTiers)
		b.PerMileFee = PerMileOverage(miles, s)
	}

	// Stage 3: time of day
	if w, ok := ResolveSurcharge(in.PickupTime, s.TimeSurcharges); ok {
		b.Surcharge = w.Surcharge
		b.SurchargeWindow = windowLabel(w)
	}

	// Stage 4: add-ons
	b.StopFees = StopFees(in.Stops, s)
	b.SeatFees = SeatFees(in.CarSeats, in.BoosterSeats, s)

	// Stage 5: fee rules
	rules := EvaluateRules(s.FeeRules, RuleEnv(in, s))
	b.RuleFees = rules.Total
	b.AppliedRules = rules.Applied
	b.SkippedRules = rules.Skipped

	total := b.BasePrice + b.DistanceFee + b.PerMileFee + b.Surcharge + b.StopFees + b.SeatFees + b.RuleFees

	// Stage 6: clamp, min first so a max below min wins
	total, b.Clamp = clamp(total, s.MinFee, s.MaxFee)

	// Stage 7: cents
	b.Subtotal = roundCents(total)
	b.roundLineItems()

	b.Gratuity = ApplyGratuity(b.Subtotal, in.Gratuity)
	b.Total = roundCents(b.Subtotal + b.Gratuity.Amount)

	return b
}

func clamp(total, minFee, maxFee float64) (float64, ClampResult) {
	var result ClampResult
	if minFee > 0 && total < minFee {
		total = minFee
		result = ClampResult{Applied: true, Bound: ClampMin}
	}
	if maxFee > 0 && total > maxFee {
		total = maxFee
		result = ClampResult{Applied: true, Bound: ClampMax}
	}
	return total, result
}

// basePrice prices the package when one is selected, otherwise the vehicle
func basePrice(in BookingInputs, hours float64) float64 {
	switch {
	case in.Package != nil:
		if !in.Package.IsHourly {
			return in.Package.BasePrice
		}
		if hours > 0 && hours < in.Package.MinimumHours {
			hours = in.Package.MinimumHours
		}
		return in.Package.BasePrice * hours
	case in.Vehicle != nil:
		if in.Vehicle.FixedPrice != nil && *in.Vehicle.FixedPrice > 0 {
			return *in.Vehicle.FixedPrice
		}
		return in.Vehicle.PricePerHour * hours
	default:
		return 0
	}
}

func (b *PriceBreakdown) roundLineItems() {
	b.BasePrice = roundCents(b.BasePrice)
	b.DistanceMiles = roundCents(b.DistanceMiles)
	b.DistanceFee = roundCents(b.DistanceFee)
	b.PerMileFee = roundCents(b.PerMileFee)
	b.Surcharge = roundCents(b.Surcharge)
	b.StopFees = roundCents(b.StopFees)
	b.SeatFees = roundCents(b.SeatFees)
	b.RuleFees = roundCents(b.RuleFees)
}

// normalizeHours maps missing, negative and non-finite hours to 0
func normalizeHours(h *float64) float64 {
	if h == nil {
		return 0
	}
	return nonNegativeFloat(*h)
}

func milesFromMeters(meters float64) float64 {
	return nonNegativeFloat(meters) / MetersPerMile
}

func nonNegativeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func windowLabel(w TimeSurcharge) string {
	if w.Name != "" {
		return w.Name
	}
	return w.StartTime + "-" + w.EndTime
}
