package fare

func floatPtr(v float64) *float64 {
	return &v
}

// DefaultTiers is the three-tier distance ladder used when none is configured
func DefaultTiers() []DistanceTier {
	return []DistanceTier{
		{MinDistance: 0, MaxDistance: floatPtr(40), Fee: 0},
		{MinDistance: 40, MaxDistance: floatPtr(60), Fee: 49},
		{MinDistance: 60, MaxDistance: floatPtr(100), Fee: 99},
	}
}

// DefaultSettings returns the built-in settings used whenever the settings
// store is unavailable or a field is missing from the stored document.
func DefaultSettings() PricingSettings {
	return PricingSettings{
		DistanceFeeEnabled: true,
		DistanceThreshold:  40,
		DistanceFee:        49,
		PerMileFeeEnabled:  false,
		PerMileFee:         2,
		MinFee:             0,
		MaxFee:             1000,
		DistanceTiers:      DefaultTiers(),
		TimeSurcharges:     []TimeSurcharge{},
		FeeRules:           []FeeRule{},
		StopPrice:          25,
		CarSeatPrice:       15,
		BoosterSeatPrice:   10,
	}
}

// SettingsDocument is the stored or transported settings JSON where every
// field is optional. Resolve fills the gaps from DefaultSettings.
type SettingsDocument struct {
	DistanceFeeEnabled *bool            `json:"distanceFeeEnabled,omitempty"`
	DistanceThreshold  *float64         `json:"distanceThreshold,omitempty"`
	DistanceFee        *float64         `json:"distanceFee,omitempty"`
	PerMileFeeEnabled  *bool            `json:"perMileFeeEnabled,omitempty"`
	PerMileFee         *float64         `json:"perMileFee,omitempty"`
	MinFee             *float64         `json:"minFee,omitempty"`
	MaxFee             *float64         `json:"maxFee,omitempty"`
	DistanceTiers      *[]DistanceTier  `json:"distanceTiers,omitempty"`
	TimeSurcharges     *[]TimeSurcharge `json:"timeSurcharges,omitempty"`
	FeeRules           *[]FeeRule       `json:"feeRules,omitempty"`
	StopPrice          *float64         `json:"stopPrice,omitempty"`
	CarSeatPrice       *float64         `json:"carSeatPrice,omitempty"`
	BoosterSeatPrice   *float64         `json:"boosterSeatPrice,omitempty"`
}

// Resolve produces complete settings, falling back per field to the defaults
func (d SettingsDocument) Resolve() PricingSettings {
	s := DefaultSettings()

	if d.DistanceFeeEnabled != nil {
		s.DistanceFeeEnabled = *d.DistanceFeeEnabled
	}
	if d.DistanceThreshold != nil {
		s.DistanceThreshold = *d.DistanceThreshold
	}
	if d.DistanceFee != nil {
		s.DistanceFee = *d.DistanceFee
	}
	if d.PerMileFeeEnabled != nil {
		s.PerMileFeeEnabled = *d.PerMileFeeEnabled
	}
	if d.PerMileFee != nil {
		s.PerMileFee = *d.PerMileFee
	}
	if d.MinFee != nil {
		s.MinFee = *d.MinFee
	}
	if d.MaxFee != nil {
		s.MaxFee = *d.MaxFee
	}
	if d.DistanceTiers != nil {
		s.DistanceTiers = append([]DistanceTier{}, *d.DistanceTiers...)
	}
	if d.TimeSurcharges != nil {
		s.TimeSurcharges = append([]TimeSurcharge{}, *d.TimeSurcharges...)
	}
	if d.FeeRules != nil {
		s.FeeRules = append([]FeeRule{}, *d.FeeRules...)
	}
	if d.StopPrice != nil {
		s.StopPrice = *d.StopPrice
	}
	if d.CarSeatPrice != nil {
		s.CarSeatPrice = *d.CarSeatPrice
	}
	if d.BoosterSeatPrice != nil {
		s.BoosterSeatPrice = *d.BoosterSeatPrice
	}

	return s
}

// Document converts complete settings back into a fully populated document
func (s PricingSettings) Document() SettingsDocument {
	tiers := append([]DistanceTier{}, s.DistanceTiers...)
	windows := append([]TimeSurcharge{}, s.TimeSurcharges...)
	rules := append([]FeeRule{}, s.FeeRules...)

	return SettingsDocument{
		DistanceFeeEnabled: &s.DistanceFeeEnabled,
		DistanceThreshold:  &s.DistanceThreshold,
		DistanceFee:        &s.DistanceFee,
		PerMileFeeEnabled:  &s.PerMileFeeEnabled,
		PerMileFee:         &s.PerMileFee,
		MinFee:             &s.MinFee,
		MaxFee:             &s.MaxFee,
		DistanceTiers:      &tiers,
		TimeSurcharges:     &windows,
		FeeRules:           &rules,
		StopPrice:          &s.StopPrice,
		CarSeatPrice:       &s.CarSeatPrice,
		BoosterSeatPrice:   &s.BoosterSeatPrice,
	}
}
