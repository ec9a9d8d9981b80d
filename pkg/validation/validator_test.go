package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type windowRequest struct {
	Name      string  `json:"name" validate:"max=64"`
	StartTime string  `json:"startTime" validate:"required,clock"`
	EndTime   string  `json:"endTime" validate:"required,clock"`
	Surcharge float64 `json:"surcharge" validate:"gte=0"`
}

type gratuityRequest struct {
	Type string `json:"type" validate:"gratuity_type"`
}

type nestedRequest struct {
	Windows []windowRequest `json:"timeSurcharges" validate:"dive"`
}

func TestValidateStruct_Clock(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		wantErr bool
	}{
		{"midnight", "00:00", false},
		{"single digit hour", "6:30", false},
		{"late evening", "23:59", false},
		{"hour out of range", "24:00", true},
		{"minute out of range", "10:60", true},
		{"missing colon", "1030", true},
		{"twelve hour format", "10:30 PM", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(windowRequest{StartTime: tt.start, EndTime: "23:00", Surcharge: 10})
			if tt.wantErr {
				require.Error(t, err)
				fields, ok := err.(FieldErrors)
				require.True(t, ok)
				assert.Contains(t, fields, "startTime")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_GratuityType(t *testing.T) {
	for _, valid := range []string{"", "none", "percentage", "custom", "cash", "Percentage"} {
		assert.NoError(t, ValidateStruct(gratuityRequest{Type: valid}), valid)
	}

	err := ValidateStruct(gratuityRequest{Type: "tip"})
	require.Error(t, err)
	assert.Equal(t, "must be one of none, percentage, custom, cash", err.(FieldErrors)["type"])
}

func TestValidateStruct_FieldPathsUseJSONNames(t *testing.T) {
	err := ValidateStruct(nestedRequest{Windows: []windowRequest{
		{StartTime: "22:00", EndTime: "23:59", Surcharge: 25},
		{StartTime: "01:00", EndTime: "05:00", Surcharge: -5},
	}})
	require.Error(t, err)

	fields := err.(FieldErrors)
	assert.Equal(t, "must be at least 0", fields["timeSurcharges[1].surcharge"])
	assert.Len(t, fields, 1)
	assert.Contains(t, err.Error(), "timeSurcharges[1].surcharge")
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(windowRequest{Name: "Late night", StartTime: "22:00", EndTime: "23:59", Surcharge: 25}))
}
