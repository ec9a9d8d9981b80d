package catalog

import (
	"errors"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/internal/fare"
)

// ErrNotFound is returned for unknown or inactive catalog entries
var ErrNotFound = errors.New("catalog entry not found")

// Package is a bookable service package as stored in the catalog
type Package struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	BasePrice    float64   `json:"basePrice"`
	IsHourly     bool      `json:"isHourly"`
	MinimumHours float64   `json:"minimumHours,omitempty"`
}

// Fare returns the pricing view of the package
func (p *Package) Fare() *fare.ServicePackage {
	return &fare.ServicePackage{
		ID:           p.ID.String(),
		Name:         p.Name,
		BasePrice:    p.BasePrice,
		IsHourly:     p.IsHourly,
		MinimumHours: p.MinimumHours,
	}
}

// Vehicle is a vehicle class as stored in the catalog
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	Capacity     int       `json:"capacity"`
	FixedPrice   *float64  `json:"fixedPrice,omitempty"`
	PricePerHour float64   `json:"pricePerHour"`
}

// Fare returns the pricing view of the vehicle
func (v *Vehicle) Fare() *fare.Vehicle {
	var fixed *float64
	if v.FixedPrice != nil {
		price := *v.FixedPrice
		fixed = &price
	}
	return &fare.Vehicle{
		ID:           v.ID.String(),
		Name:         v.Name,
		FixedPrice:   fixed,
		PricePerHour: v.PricePerHour,
	}
}
