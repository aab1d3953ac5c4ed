package pricing

import (
	"math"

	"instaquote/models"
)

// Tier is one band of the lookup table. Bands are ordered, contiguous and
// non-overlapping, and every price is non-decreasing from one band to the next.
type Tier struct {
	Min            float64 `json:"min" mapstructure:"min"`
	Max            float64 `json:"max" mapstructure:"max"`
	MowingWeekly   float64 `json:"mowingWeekly" mapstructure:"mowing_weekly"`
	MowingBiweekly float64 `json:"mowingBiweekly" mapstructure:"mowing_biweekly"`
	Aeration       float64 `json:"aeration" mapstructure:"aeration"`
	PowerRake      float64 `json:"powerRake" mapstructure:"power_rake"`
	Fertilizing    float64 `json:"fertilizing" mapstructure:"fertilizing"`
}

// TierTable is the static lookup form of the rate card.
type TierTable []Tier

// DefaultTierTable returns the stock banded rate card.
func DefaultTierTable() TierTable {
	return TierTable{
		{Min: 0, Max: 2500, MowingWeekly: 45, MowingBiweekly: 54, Aeration: 55, PowerRake: 100, Fertilizing: 40},
		{Min: 2501, Max: 4000, MowingWeekly: 53, MowingBiweekly: 64, Aeration: 65, PowerRake: 120, Fertilizing: 45},
		{Min: 4001, Max: 5500, MowingWeekly: 57, MowingBiweekly: 68, Aeration: 75, PowerRake: 136, Fertilizing: 51},
		{Min: 5501, Max: 7000, MowingWeekly: 61, MowingBiweekly: 73, Aeration: 85, PowerRake: 152, Fertilizing: 57},
		{Min: 7001, Max: 9000, MowingWeekly: 66, MowingBiweekly: 79, Aeration: 97, PowerRake: 172, Fertilizing: 64},
		{Min: 9001, Max: 12000, MowingWeekly: 73, MowingBiweekly: 88, Aeration: 112, PowerRake: 196, Fertilizing: 73},
		{Min: 12001, Max: 20000, MowingWeekly: 85, MowingBiweekly: 102, Aeration: 135, PowerRake: 230, Fertilizing: 86},
	}
}

func (t TierTable) Name() string { return ModelTiers }

// Find selects the band for a measurement. Values at or below the first band's max
// use the first band, values at or above the last band's min use the last band.
func (t TierTable) Find(measurement float64) Tier {
	if len(t) == 0 {
		return Tier{}
	}
	m := math.Round(NormalizeMeasurement(measurement))
	first, last := t[0], t[len(t)-1]
	if m <= first.Max {
		return first
	}
	if m >= last.Min {
		return last
	}
	for _, tier := range t {
		if m >= tier.Min && m <= tier.Max {
			return tier
		}
	}
	// gaps between integer bands: take the band that starts after the value
	for _, tier := range t {
		if m < tier.Min {
			return tier
		}
	}
	return last
}

func (t TierTable) Price(measurement float64, key models.ServiceKey, frequency models.Frequency) float64 {
	tier := t.Find(measurement)
	switch key {
	case models.ServiceMowing:
		if frequency == models.FrequencyBiweekly {
			return tier.MowingBiweekly
		}
		return tier.MowingWeekly
	case models.ServiceAeration:
		return tier.Aeration
	case models.ServicePowerRake:
		return tier.PowerRake
	case models.ServiceFertilizing:
		return tier.Fertilizing
	default:
		return 0
	}
}
