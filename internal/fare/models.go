package fare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MetersPerMile converts provider distances to miles
const MetersPerMile = 1609.34

// PricingSettings is the admin-edited rule set consumed by the calculator
type PricingSettings struct {
	DistanceFeeEnabled bool            `json:"distanceFeeEnabled"`
	DistanceThreshold  float64         `json:"distanceThreshold"`
	DistanceFee        float64         `json:"distanceFee"`
	PerMileFeeEnabled  bool            `json:"perMileFeeEnabled"`
	PerMileFee         float64         `json:"perMileFee"`
	MinFee             float64         `json:"minFee"`
	MaxFee             float64         `json:"maxFee"`
	DistanceTiers      []DistanceTier  `json:"distanceTiers"`
	TimeSurcharges     []TimeSurcharge `json:"timeSurcharges"`
	FeeRules           []FeeRule       `json:"feeRules"`
	StopPrice          float64         `json:"stopPrice"`
	CarSeatPrice       float64         `json:"carSeatPrice"`
	BoosterSeatPrice   float64         `json:"boosterSeatPrice"`
}

// DistanceTier charges a flat fee for distances within [MinDistance, MaxDistance].
// A nil MaxDistance means the tier is unbounded.
type DistanceTier struct {
	MinDistance float64  `json:"minDistance"`
	MaxDistance *float64 `json:"maxDistance"`
	Fee         float64  `json:"fee"`
}

// UnmarshalJSON accepts a number, null, a missing field or the string "unbounded" for maxDistance
func (t *DistanceTier) UnmarshalJSON(data []byte) error {
	var aux struct {
		MinDistance float64         `json:"minDistance"`
		MaxDistance json.RawMessage `json:"maxDistance"`
		Fee         float64         `json:"fee"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.MinDistance = aux.MinDistance
	t.Fee = aux.Fee
	t.MaxDistance = nil

	raw := bytes.TrimSpace(aux.MaxDistance)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		t.MaxDistance = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("maxDistance: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unbounded") {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("maxDistance: invalid value %q", s)
	}
	t.MaxDistance = &n
	return nil
}

// upper returns the tier's upper bound with unbounded mapped to +Inf
func (t DistanceTier) upper() float64 {
	if t.MaxDistance == nil {
		return math.Inf(1)
	}
	return *t.MaxDistance
}

// TimeSurcharge is a same-day pickup window with a flat surcharge
type TimeSurcharge struct {
	Name      string  `json:"name,omitempty"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Surcharge float64 `json:"surcharge"`
}

// FeeRule adds Fee when Condition evaluates truthy
type FeeRule struct {
	Name      string  `json:"name,omitempty"`
	Condition string  `json:"condition"`
	Fee       float64 `json:"fee"`
}

// ServicePackage is a bookable limo package
type ServicePackage struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	BasePrice    float64 `json:"basePrice"`
	IsHourly     bool    `json:"isHourly"`
	MinimumHours float64 `json:"minimumHours,omitempty"`
}

// Vehicle is priced either at a fixed price or by the hour
type Vehicle struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	FixedPrice   *float64 `json:"fixedPrice,omitempty"`
	PricePerHour float64  `json:"pricePerHour"`
}

// Stop is an intermediate stop. A nil Price falls back to the configured stop price.
type Stop struct {
	Location string   `json:"location"`
	Price    *float64 `json:"price,omitempty"`
}

// BookingInputs are the booking fields that influence the fare.
// Package takes precedence when both Package and Vehicle are set.
type BookingInputs struct {
	Package        *ServicePackage `json:"package,omitempty"`
	Vehicle        *Vehicle        `json:"vehicle,omitempty"`
	DistanceMeters float64         `json:"distanceMeters"`
	Hours          *float64        `json:"hours,omitempty"`
	Stops          []Stop          `json:"stops,omitempty"`
	CarSeats       int             `json:"carSeats"`
	BoosterSeats   int             `json:"boosterSeats"`
	PickupTime     time.Time       `json:"pickupTime"`
	Gratuity       GratuityInfo    `json:"gratuity"`
}

// GratuityType selects how the tip is derived
type GratuityType string

const (
	GratuityNone       GratuityType = "none"
	GratuityPercentage GratuityType = "percentage"
	GratuityCustom     GratuityType = "custom"
	GratuityCash       GratuityType = "cash"
)

// GratuityInfo describes the tip choice. Amount is derived by ApplyGratuity.
type GratuityInfo struct {
	Type         GratuityType `json:"type"`
	Percentage   *float64     `json:"percentage,omitempty"`
	CustomAmount Amount       `json:"customAmount,omitempty"`
	Amount       float64      `json:"amount"`
}

// Amount is a money value entered by a user. It decodes from a JSON number
// or a numeric string; anything unparsable decodes to 0.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(ParseAmount(string(bytes.Trim(bytes.TrimSpace(data), `"`))))
	return nil
}

// ParseAmount parses a user-entered amount such as "12.50" or "$12.50".
// Unparsable or non-finite input yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// ClampBound names the bound that was applied to the subtotal
type ClampBound string

const (
	ClampNone ClampBound = ""
	ClampMin  ClampBound = "min"
	ClampMax  ClampBound = "max"
)

// ClampResult records whether the min/max clamp changed the total
type ClampResult struct {
	Applied bool       `json:"applied"`
	Bound   ClampBound `json:"bound,omitempty"`
}

// RuleError records a fee rule that was skipped because it could not be evaluated
type RuleError struct {
	Index     int    `json:"index"`
	Name      string `json:"name,omitempty"`
	Condition string `json:"condition"`
	Error     string `json:"error"`
}

// PriceBreakdown is the line-item result of a fare computation
type PriceBreakdown struct {
	BasePrice       float64      `json:"basePrice"`
	Hours           float64      `json:"hours"`
	DistanceMiles   float64      `json:"distanceMiles"`
	DistanceFee     float64      `json:"distanceFee"`
	PerMileFee      float64      `json:"perMileFee"`
	Surcharge       float64      `json:"surcharge"`
	SurchargeWindow string       `json:"surchargeWindow,omitempty"`
	StopFees        float64      `json:"stopFees"`
	SeatFees        float64      `json:"seatFees"`
	RuleFees        float64      `json:"ruleFees"`
	AppliedRules    []string     `json:"appliedRules,omitempty"`
	SkippedRules    []RuleError  `json:"skippedRules,omitempty"`
	Clamp           ClampResult  `json:"clamp"`
	Subtotal        float64      `json:"subtotal"`
	Gratuity        GratuityInfo `json:"gratuity"`
	Total           float64      `json:"total"`
}
