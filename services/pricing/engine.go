package pricing

import (
	"math"

	"instaquote/models"
)

// Calculator prices one catalog service for a measurement.
// Implementations must be pure: identical inputs always give identical output.
type Calculator interface {
	Name() string
	Price(measurement float64, key models.ServiceKey, frequency models.Frequency) float64
}

// Engine turns a measurement and a service selection into an itemized quote.
type Engine struct {
	calc Calculator
}

// NewEngine returns an engine backed by calc; a nil calc uses the default block formula.
func NewEngine(calc Calculator) *Engine {
	if calc == nil {
		calc = DefaultBlockFormula()
	}
	return &Engine{calc: calc}
}

// Model returns the name of the pricing model behind the engine.
func (e *Engine) Model() string {
	return e.calc.Name()
}

// ComputeQuote prices the selected services. Unknown and duplicate keys are ignored,
// line items follow catalog order and the total is the exact sum of the line prices.
func (e *Engine) ComputeQuote(measurement float64, selected []models.ServiceKey, frequency models.Frequency) models.Quote {
	m := NormalizeMeasurement(measurement)
	if !frequency.Valid() {
		frequency = models.FrequencyWeekly
	}

	chosen := make(map[models.ServiceKey]bool, len(selected))
	for _, key := range selected {
		chosen[key] = true
	}

	quote := models.Quote{Measurement: m, LineItems: []models.LineItem{}}
	for _, svc := range catalog {
		if !chosen[svc.Key] {
			continue
		}
		item := models.LineItem{
			Key:   svc.Key,
			Label: svc.Label,
			Price: RoundCurrency(e.calc.Price(m, svc.Key, frequency)),
		}
		if svc.Key == models.ServiceMowing {
			item.Frequency = frequency
		}
		quote.LineItems = append(quote.LineItems, item)
		quote.Total += item.Price
	}
	return quote
}

// NormalizeMeasurement collapses negative and non-finite values to zero.
func NormalizeMeasurement(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return 0
	}
	return m
}

// RoundCurrency rounds an amount to whole currency units, never below zero.
func RoundCurrency(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return math.Round(v)
}
