package settings

import (
	"errors"
	"strings"

	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/validation"
)

// settingsBounds carries the scalar limits checked by struct tags
type settingsBounds struct {
	DistanceThreshold float64        `json:"distanceThreshold" validate:"gte=0"`
	DistanceFee       float64        `json:"distanceFee" validate:"gte=0"`
	PerMileFee        float64        `json:"perMileFee" validate:"gte=0"`
	MinFee            float64        `json:"minFee" validate:"gte=0"`
	MaxFee            float64        `json:"maxFee" validate:"gte=0"`
	StopPrice         float64        `json:"stopPrice" validate:"gte=0"`
	CarSeatPrice      float64        `json:"carSeatPrice" validate:"gte=0"`
	BoosterSeatPrice  float64        `json:"boosterSeatPrice" validate:"gte=0"`
	TimeSurcharges    []windowBounds `json:"timeSurcharges" validate:"dive"`
	FeeRules          []ruleBounds   `json:"feeRules" validate:"dive"`
}

type windowBounds struct {
	Name      string  `json:"name" validate:"max=64"`
	StartTime string  `json:"startTime" validate:"required,clock"`
	EndTime   string  `json:"endTime" validate:"required,clock"`
	Surcharge float64 `json:"surcharge" validate:"gte=0"`
}

type ruleBounds struct {
	Name      string  `json:"name" validate:"max=64"`
	Condition string  `json:"condition" validate:"required,max=4096"`
	Fee       float64 `json:"fee" validate:"gte=0"`
}

// Validate checks a resolved settings document before it is saved. It
// returns nil or a field-to-message map.
func Validate(s fare.PricingSettings) validation.FieldErrors {
	problems := validation.FieldErrors{}

	bounds := settingsBounds{
		DistanceThreshold: s.DistanceThreshold,
		DistanceFee:       s.DistanceFee,
		PerMileFee:        s.PerMileFee,
		MinFee:            s.MinFee,
		MaxFee:            s.MaxFee,
		StopPrice:         s.StopPrice,
		CarSeatPrice:      s.CarSeatPrice,
		BoosterSeatPrice:  s.BoosterSeatPrice,
	}
	for _, w := range s.TimeSurcharges {
		bounds.TimeSurcharges = append(bounds.TimeSurcharges, windowBounds(w))
	}
	for _, r := range s.FeeRules {
		bounds.FeeRules = append(bounds.FeeRules, ruleBounds(r))
	}

	if err := validation.ValidateStruct(bounds); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			for k, v := range fields {
				problems[k] = v
			}
		} else {
			problems["settings"] = err.Error()
		}
	}

	if s.MinFee > 0 && s.MaxFee > 0 && s.MaxFee < s.MinFee {
		problems["maxFee"] = "must not be lower than minFee"
	}
	if err := fare.ValidateTiers(s.DistanceTiers); err != nil {
		problems["distanceTiers"] = err.Error()
	}
	if !hasFieldPrefix(problems, "timeSurcharges") {
		if err := fare.ValidateSurcharges(s.TimeSurcharges); err != nil {
			problems["timeSurcharges"] = err.Error()
		}
	}
	if err := fare.ValidateRules(s.FeeRules); err != nil {
		problems["feeRules"] = err.Error()
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func hasFieldPrefix(problems validation.FieldErrors, prefix string) bool {
	for field := range problems {
		if strings.HasPrefix(field, prefix) {
			return true
		}
	}
	return false
}
