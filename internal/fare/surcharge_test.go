package fare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 6, 20, hour, minute, 0, 0, time.UTC)
}

func TestResolveSurcharge(t *testing.T) {
	windows := []TimeSurcharge{
		{Name: "early", StartTime: "05:00", EndTime: "07:30", Surcharge: 20},
		{Name: "overlapping", StartTime: "07:00", EndTime: "09:00", Surcharge: 99},
		{Name: "broken", StartTime: "late", EndTime: "23:00", Surcharge: 50},
		{Name: "crosses midnight", StartTime: "22:00", EndTime: "02:00", Surcharge: 40},
		{Name: "evening", StartTime: "20:00", EndTime: "21:00", Surcharge: 15},
	}

	tests := []struct {
		name     string
		pickup   time.Time
		expected string
		found    bool
	}{
		{name: "start inclusive", pickup: at(5, 0), expected: "early", found: true},
		{name: "end inclusive", pickup: at(7, 30), expected: "early", found: true},
		{name: "first match wins on overlap", pickup: at(7, 15), expected: "early", found: true},
		{name: "second window", pickup: at(8, 0), expected: "overlapping", found: true},
		{name: "no window", pickup: at(12, 0), found: false},
		{name: "midnight crossing window never matches", pickup: at(23, 30), found: false},
		{name: "midnight crossing early side", pickup: at(1, 0), found: false},
		{name: "zero time", pickup: time.Time{}, found: false},
		{name: "later window", pickup: at(21, 0), expected: "evening", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := ResolveSurcharge(tt.pickup, windows)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, w.Name)
		})
	}
}

func TestResolveSurcharge_UsesPickupLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	windows := []TimeSurcharge{{StartTime: "06:00", EndTime: "06:59", Surcharge: 10}}

	// 12:30 UTC is 06:30 in Chicago during standard time
	pickup := time.Date(2026, 1, 10, 12, 30, 0, 0, time.UTC).In(chicago)

	_, ok := ResolveSurcharge(pickup, windows)
	assert.True(t, ok)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, 545, m)

	m, err = ParseClock(" 23:59 ")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)

	for _, bad := range []string{"", "9", "24:00", "12:60", "12:5", "ab:cd", "12:00:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateSurcharges(t *testing.T) {
	assert.NoError(t, ValidateSurcharges(nil))
	assert.NoError(t, ValidateSurcharges([]TimeSurcharge{{StartTime: "00:00", EndTime: "05:59", Surcharge: 10}}))

	err := ValidateSurcharges([]TimeSurcharge{{StartTime: "22:00", EndTime: "02:00", Surcharge: 10}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crosses midnight")

	err = ValidateSurcharges([]TimeSurcharge{{StartTime: "7am", EndTime: "09:00"}})
	assert.Error(t, err)

	err = ValidateSurcharges([]TimeSurcharge{{StartTime: "07:00", EndTime: "09:00", Surcharge: -3}})
	assert.Error(t, err)
}
