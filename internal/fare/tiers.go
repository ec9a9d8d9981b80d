package fare

import (
	"fmt"
	"math"
	"sort"
)

// ResolveTier selects the distance tier for a trip.
//
// A tier matches when min <= miles <= max (unbounded tiers match anything
// at or above min) and the first match in configured order wins. When no
// tier matches, the tier with the highest upper bound is used provided the
// distance has reached its minimum. The bool is false when no fee applies.
func ResolveTier(miles float64, tiers []DistanceTier) (DistanceTier, bool) {
	if len(tiers) == 0 {
		return DistanceTier{}, false
	}
	if math.IsNaN(miles) || miles < 0 {
		miles = 0
	}

	for _, tier := range tiers {
		if miles >= tier.MinDistance && miles <= tier.upper() {
			return tier, true
		}
	}

	highest := 0
	for i := 1; i < len(tiers); i++ {
		if tiers[i].upper() > tiers[highest].upper() {
			highest = i
		}
	}
	if miles >= tiers[highest].MinDistance {
		return tiers[highest], true
	}

	return DistanceTier{}, false
}

// TierFee returns the fee of the resolved tier or 0
func TierFee(miles float64, tiers []DistanceTier) float64 {
	tier, ok := ResolveTier(miles, tiers)
	if !ok {
		return 0
	}
	return tier.Fee
}

// PerMileOverage charges PerMileFee for every mile beyond DistanceThreshold
// when per-mile pricing is enabled. It layers on top of the tier fee.
func PerMileOverage(miles float64, s PricingSettings) float64 {
	if !s.PerMileFeeEnabled || math.IsNaN(miles) || miles <= s.DistanceThreshold {
		return 0
	}
	return (miles - s.DistanceThreshold) * s.PerMileFee
}

// ValidateTiers checks that tiers, once sorted by MinDistance, partition
// [0, ∞): the first starts at 0, each starts where the previous ended,
// bounds are ordered and only the last may be unbounded. Fees must not be
// negative. An empty list is valid and means no distance fee.
func ValidateTiers(tiers []DistanceTier) error {
	if len(tiers) == 0 {
		return nil
	}

	sorted := append([]DistanceTier{}, tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinDistance < sorted[j].MinDistance
	})

	if sorted[0].MinDistance != 0 {
		return fmt.Errorf("first distance tier must start at 0, starts at %g", sorted[0].MinDistance)
	}

	for i, tier := range sorted {
		if tier.Fee < 0 {
			return fmt.Errorf("distance tier %g-%s has a negative fee", tier.MinDistance, boundLabel(tier))
		}
		if tier.MaxDistance != nil && *tier.MaxDistance <= tier.MinDistance {
			return fmt.Errorf("distance tier %g-%s: max must be greater than min", tier.MinDistance, boundLabel(tier))
		}
		if i == len(sorted)-1 {
			break
		}
		if tier.MaxDistance == nil {
			return fmt.Errorf("only the last distance tier may be unbounded")
		}
		next := sorted[i+1]
		if next.MinDistance < *tier.MaxDistance {
			return fmt.Errorf("distance tiers %g-%s and %g-%s overlap",
				tier.MinDistance, boundLabel(tier), next.MinDistance, boundLabel(next))
		}
		if next.MinDistance > *tier.MaxDistance {
			return fmt.Errorf("gap between distance tiers at %g-%g", *tier.MaxDistance, next.MinDistance)
		}
	}

	return nil
}

func boundLabel(t DistanceTier) string {
	if t.MaxDistance == nil {
		return "unbounded"
	}
	return fmt.Sprintf("%g", *t.MaxDistance)
}
