package fare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRules(t *testing.T) {
	in := BookingInputs{
		Package:        &ServicePackage{ID: "pkg-1", Name: "Prom Night", BasePrice: 150, IsHourly: true},
		Hours:          floatPtr(5),
		DistanceMeters: miles(30),
		Stops:          []Stop{{Location: "A"}, {Location: "B"}, {Location: "C"}},
		CarSeats:       2,
		PickupTime:     time.Date(2026, 4, 18, 19, 0, 0, 0, time.UTC),
	}
	env := RuleEnv(in, DefaultSettings())

	rules := []FeeRule{
		{Name: "many stops", Condition: "bookingDetails.stops.length > 2", Fee: 15},
		{Name: "prom", Condition: "bookingDetails.packageName === 'Prom Night' && bookingDetails.hours >= 4", Fee: 25},
		{Name: "never", Condition: "bookingDetails.carSeats > 5", Fee: 100},
		{Name: "broken", Condition: "bookingDetails.hours >", Fee: 100},
		{Name: "unknown field", Condition: "bookingDetails.secret == 1", Fee: 100},
		{Name: "saturday", Condition: "bookingDetails.pickupDay == 6", Fee: 5},
		{Name: "settings aware", Condition: "bookingDetails.distanceMiles < settings.distanceThreshold", Fee: 1.5},
	}

	out := EvaluateRules(rules, env)

	assert.InDelta(t, 46.5, out.Total, 1e-9)
	assert.Equal(t, []string{"many stops", "prom", "saturday", "settings aware"}, out.Applied)
	require.Len(t, out.Skipped, 2)
	assert.Equal(t, "broken", out.Skipped[0].Name)
	assert.Equal(t, 3, out.Skipped[0].Index)
	assert.Equal(t, "unknown field", out.Skipped[1].Name)
	assert.Contains(t, out.Skipped[1].Error, "bookingDetails.secret")
}

func TestEvaluateRules_UndefinedIdentifierIsSkipped(t *testing.T) {
	rules := []FeeRule{{Name: "typo", Condition: "undefined >= 0", Fee: 40}}

	out := EvaluateRules(rules, RuleEnv(BookingInputs{}, DefaultSettings()))

	assert.Zero(t, out.Total)
	assert.Empty(t, out.Applied)
	require.Len(t, out.Skipped, 1)
	assert.Contains(t, out.Skipped[0].Error, "undefined")
}

func TestEvaluateRules_UnnamedLabel(t *testing.T) {
	out := EvaluateRules([]FeeRule{{Condition: "true", Fee: 3}}, RuleEnv(BookingInputs{}, DefaultSettings()))
	assert.Equal(t, []string{"rule #1"}, out.Applied)
}

func TestRuleEnv_VehicleAndMissingPickup(t *testing.T) {
	env := RuleEnv(BookingInputs{Vehicle: &Vehicle{ID: "v-9", Name: "Stretch Hummer"}}, DefaultSettings())

	v, ok := env.Lookup("bookingDetails.vehicleName")
	require.True(t, ok)
	assert.Equal(t, "Stretch Hummer", v.Str)

	v, ok = env.Lookup("bookingDetails.pickupHour")
	require.True(t, ok)
	assert.False(t, v.Truthy())
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules([]FeeRule{
		{Condition: "bookingDetails.carSeats > 0 && settings.carSeatPrice < 50"},
		{Condition: "bookingDetails.stops.length >= 3"},
	}))

	err := ValidateRules([]FeeRule{{Condition: "bookingDetails.carSeats >"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fee rule 1")

	err = ValidateRules([]FeeRule{{Condition: "true"}, {Condition: "document.cookie"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fee rule 2")
}
