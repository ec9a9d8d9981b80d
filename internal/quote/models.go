package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/internal/fare"
)

// StopRequest is an intermediate stop in a quote request
type StopRequest struct {
	Location string   `json:"location" validate:"max=500"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// GratuityRequest is the tip choice in a quote request
type GratuityRequest struct {
	Type         string      `json:"type" validate:"gratuity_type"`
	Percentage   *float64    `json:"percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	CustomAmount fare.Amount `json:"custom_amount,omitempty"`
}

// QuoteRequest carries the booking fields that drive the fare. At least
// one of PackageID and VehicleID is required.
type QuoteRequest struct {
	PackageID      *uuid.UUID      `json:"package_id" validate:"required_without=VehicleID"`
	VehicleID      *uuid.UUID      `json:"vehicle_id" validate:"required_without=PackageID"`
	DistanceMeters float64         `json:"distance_meters" validate:"gte=0"`
	Hours          *float64        `json:"hours,omitempty"`
	Stops          []StopRequest   `json:"stops,omitempty" validate:"max=20,dive"`
	CarSeats       int             `json:"car_seats" validate:"gte=0,lte=10"`
	BoosterSeats   int             `json:"booster_seats" validate:"gte=0,lte=10"`
	PickupTime     time.Time       `json:"pickup_time"`
	Gratuity       GratuityRequest `json:"gratuity"`
}

// ComputeRequest prices a booking without storing a quote. Settings, when
// present, replaces the stored settings for this computation only.
type ComputeRequest struct {
	QuoteRequest
	Settings *fare.SettingsDocument `json:"settings,omitempty"`
}

// Quote is a priced booking kept in Redis until it expires or is confirmed.
// Settings is the snapshot the quote was priced with; confirmation reprices
// against it so the charged amount cannot move after the quote is issued.
type Quote struct {
	ID          uuid.UUID            `json:"id"`
	Inputs      fare.BookingInputs   `json:"inputs"`
	Settings    fare.PricingSettings `json:"settings"`
	Breakdown   fare.PriceBreakdown  `json:"breakdown"`
	CreatedAt   time.Time            `json:"createdAt"`
	ExpiresAt   time.Time            `json:"expiresAt"`
	ConfirmedAt *time.Time           `json:"confirmedAt,omitempty"`
}

// ConfirmResponse reports the charged price, recomputed from the quote's
// inputs and settings snapshot. CurrentTotal prices the same inputs with the
// live settings and is informational only.
type ConfirmResponse struct {
	QuoteID         uuid.UUID           `json:"quoteId"`
	Quoted          fare.PriceBreakdown `json:"quoted"`
	Charged         fare.PriceBreakdown `json:"charged"`
	Matches         bool                `json:"matches"`
	ChargedTotal    float64             `json:"chargedTotal"`
	CurrentTotal    float64             `json:"currentTotal"`
	SettingsChanged bool                `json:"settingsChanged"`
}
