package pricing

import (
	"math"

	"instaquote/models"
)

// BlockRate is the base price of a service and the increment added per extra block.
type BlockRate struct {
	Base      float64 `json:"base" mapstructure:"base"`
	Increment float64 `json:"increment" mapstructure:"increment"`
}

// BlockFormula prices services as base + extraBlocks*increment, where a block is a
// fixed slice of measurement above a threshold.
type BlockFormula struct {
	Threshold          float64                         `json:"threshold" mapstructure:"threshold"`
	BlockSize          float64                         `json:"blockSize" mapstructure:"block_size"`
	BiweeklyMultiplier float64                         `json:"biweeklyMultiplier" mapstructure:"biweekly_multiplier"`
	Rates              map[models.ServiceKey]BlockRate `json:"rates" mapstructure:"rates"`
}

// DefaultBlockFormula returns the stock lawn rate card.
func DefaultBlockFormula() *BlockFormula {
	return &BlockFormula{
		Threshold:          4000,
		BlockSize:          500,
		BiweeklyMultiplier: 1.2,
		Rates: map[models.ServiceKey]BlockRate{
			models.ServiceMowing:      {Base: 53, Increment: 2},
			models.ServiceAeration:    {Base: 65, Increment: 5},
			models.ServicePowerRake:   {Base: 120, Increment: 8},
			models.ServiceFertilizing: {Base: 45, Increment: 3},
		},
	}
}

func (f *BlockFormula) Name() string { return ModelBlock }

// ExtraBlocks is zero below the threshold and counts the block the threshold itself
// falls into, so the first block starts exactly at the threshold.
func (f *BlockFormula) ExtraBlocks(measurement float64) float64 {
	m := NormalizeMeasurement(measurement)
	if m < f.Threshold || f.BlockSize <= 0 {
		return 0
	}
	return math.Floor((m-f.Threshold)/f.BlockSize) + 1
}

func (f *BlockFormula) Price(measurement float64, key models.ServiceKey, frequency models.Frequency) float64 {
	rate, ok := f.Rates[key]
	if !ok {
		return 0
	}
	price := RoundCurrency(rate.Base + f.ExtraBlocks(measurement)*rate.Increment)
	if key == models.ServiceMowing && frequency == models.FrequencyBiweekly {
		multiplier := f.BiweeklyMultiplier
		if multiplier <= 1 {
			multiplier = 1.2
		}
		return math.Round(price * multiplier)
	}
	return price
}
