package fare

import (
	"fmt"

	"github.com/richxcame/limo-booking/internal/feerule"
)

// RuleOutcome is the combined result of evaluating every fee rule
type RuleOutcome struct {
	Total   float64
	Applied []string
	Skipped []RuleError
}

// EvaluateRules adds the fee of every rule whose condition is truthy.
// Rules are independent; a rule that fails to compile or evaluate is
// skipped and reported in Skipped instead of aborting the computation.
func EvaluateRules(rules []FeeRule, env feerule.Env) RuleOutcome {
	var out RuleOutcome
	for i, rule := range rules {
		matched, err := matchRule(rule, env)
		if err != nil {
			out.Skipped = append(out.Skipped, RuleError{
				Index:     i,
				Name:      rule.Name,
				Condition: rule.Condition,
				Error:     err.Error(),
			})
			continue
		}
		if !matched {
			continue
		}
		out.Total += rule.Fee
		out.Applied = append(out.Applied, ruleLabel(i, rule))
	}
	return out
}

func matchRule(rule FeeRule, env feerule.Env) (matched bool, err error) {
	// the interpreter does not panic on any input it accepts, this only
	// guards the "pricing never fails" contract
	defer func() {
		if r := recover(); r != nil {
			matched, err = false, fmt.Errorf("rule evaluation panicked: %v", r)
		}
	}()

	prog, err := feerule.Compile(rule.Condition)
	if err != nil {
		return false, err
	}
	return prog.Match(env)
}

func ruleLabel(i int, rule FeeRule) string {
	if rule.Name != "" {
		return rule.Name
	}
	return fmt.Sprintf("rule #%d", i+1)
}

// RuleEnv exposes the whitelisted booking and settings fields to conditions
func RuleEnv(in BookingInputs, s PricingSettings) feerule.MapEnv {
	hours := normalizeHours(in.Hours)
	miles := milesFromMeters(in.DistanceMeters)

	env := feerule.MapEnv{
		"bookingDetails.distanceMiles":  feerule.Number(miles),
		"bookingDetails.distanceMeters": feerule.Number(nonNegativeFloat(in.DistanceMeters)),
		"bookingDetails.hours":          feerule.Number(hours),
		"bookingDetails.carSeats":       feerule.Number(float64(nonNegative(in.CarSeats))),
		"bookingDetails.boosterSeats":   feerule.Number(float64(nonNegative(in.BoosterSeats))),
		"bookingDetails.stops.length":   feerule.Number(float64(len(in.Stops))),
		"bookingDetails.stopCount":      feerule.Number(float64(len(in.Stops))),
		"bookingDetails.isHourly":       feerule.Bool(in.Package != nil && in.Package.IsHourly),
		"bookingDetails.packageId":      feerule.Null,
		"bookingDetails.packageName":    feerule.Null,
		"bookingDetails.vehicleId":      feerule.Null,
		"bookingDetails.vehicleName":    feerule.Null,
		"bookingDetails.pickupHour":     feerule.Null,
		"bookingDetails.pickupMinute":   feerule.Null,
		"bookingDetails.pickupDay":      feerule.Null,
		"bookingDetails.basePrice":      feerule.Number(basePrice(in, hours)),

		"settings.distanceFeeEnabled":    feerule.Bool(s.DistanceFeeEnabled),
		"settings.distanceThreshold":     feerule.Number(s.DistanceThreshold),
		"settings.distanceFee":           feerule.Number(s.DistanceFee),
		"settings.perMileFeeEnabled":     feerule.Bool(s.PerMileFeeEnabled),
		"settings.perMileFee":            feerule.Number(s.PerMileFee),
		"settings.minFee":                feerule.Number(s.MinFee),
		"settings.maxFee":                feerule.Number(s.MaxFee),
		"settings.stopPrice":             feerule.Number(s.StopPrice),
		"settings.carSeatPrice":          feerule.Number(s.CarSeatPrice),
		"settings.boosterSeatPrice":      feerule.Number(s.BoosterSeatPrice),
		"settings.distanceTiers.length":  feerule.Number(float64(len(s.DistanceTiers))),
		"settings.timeSurcharges.length": feerule.Number(float64(len(s.TimeSurcharges))),
		"settings.feeRules.length":       feerule.Number(float64(len(s.FeeRules))),
	}

	if in.Package != nil {
		env["bookingDetails.packageId"] = feerule.String(in.Package.ID)
		env["bookingDetails.packageName"] = feerule.String(in.Package.Name)
	} else if in.Vehicle != nil {
		env["bookingDetails.vehicleId"] = feerule.String(in.Vehicle.ID)
		env["bookingDetails.vehicleName"] = feerule.String(in.Vehicle.Name)
	}
	if !in.PickupTime.IsZero() {
		env["bookingDetails.pickupHour"] = feerule.Number(float64(in.PickupTime.Hour()))
		env["bookingDetails.pickupMinute"] = feerule.Number(float64(in.PickupTime.Minute()))
		env["bookingDetails.pickupDay"] = feerule.Number(float64(in.PickupTime.Weekday()))
	}

	return env
}

// ValidateRules compiles every condition and checks that it only reads
// whitelisted fields
func ValidateRules(rules []FeeRule) error {
	env := RuleEnv(BookingInputs{}, DefaultSettings())
	for i, rule := range rules {
		prog, err := feerule.Compile(rule.Condition)
		if err != nil {
			return fmt.Errorf("fee rule %d: %w", i+1, err)
		}
		if err := prog.CheckReferences(env); err != nil {
			return fmt.Errorf("fee rule %d: %w", i+1, err)
		}
	}
	return nil
}
