package quote

import (
	"math"

	"instaquote/models"
	"instaquote/services/pricing"
)

// toleranceCents is the largest accepted gap between a claimed and a
// recomputed amount.
const toleranceCents = 1

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func withinTolerance(claimed, expected float64) bool {
	d := toCents(claimed) - toCents(expected)
	if d < 0 {
		d = -d
	}
	return d <= toleranceCents
}

// Validator recomputes a submitted quote and rejects it unless every claim
// agrees with the engine.
type Validator struct {
	engine *pricing.Engine
}

func NewValidator(engine *pricing.Engine) *Validator {
	if engine == nil {
		engine = pricing.NewEngine(nil)
	}
	return &Validator{engine: engine}
}

// Validate returns the server-side quote for sub.
func (v *Validator) Validate(sub models.QuoteSubmission) (models.Quote, error) {
	if len(sub.Services) == 0 || sub.Total < 0 {
		return models.Quote{}, invalid(MsgInvalidPayload)
	}

	frequency := models.FrequencyWeekly
	selected := make([]models.ServiceKey, 0, len(sub.Services))
	for _, item := range sub.Services {
		if !pricing.IsKnownService(item.Key) {
			return models.Quote{}, invalid("Unknown service: " + string(item.Key))
		}
		if item.Price < 0 {
			return models.Quote{}, invalid(MsgInvalidPayload)
		}
		isMowing := item.Key == models.ServiceMowing
		switch {
		case isMowing && item.Frequency == nil:
			return models.Quote{}, invalid(MsgInvalidPayload)
		case !isMowing && item.Frequency != nil:
			return models.Quote{}, invalid(MsgInvalidPayload)
		case isMowing && !item.Frequency.Valid():
			return models.Quote{}, invalid(MsgInvalidPayload)
		}
		selected = append(selected, item.Key)
	}
	for _, item := range sub.Services {
		if item.Key == models.ServiceMowing {
			frequency = *item.Frequency
			break
		}
	}

	computed := v.engine.ComputeQuote(float64(sub.Sqft), selected, frequency)
	if len(computed.LineItems) != len(sub.Services) {
		return models.Quote{}, invalid(MsgInvalidServices)
	}

	byKey := make(map[models.ServiceKey]models.LineItem, len(computed.LineItems))
	for _, li := range computed.LineItems {
		byKey[li.Key] = li
	}
	for _, item := range sub.Services {
		expected := byKey[item.Key]
		if item.Key == models.ServiceMowing && *item.Frequency != expected.Frequency {
			return models.Quote{}, invalid(MsgInvalidFrequency)
		}
		if !withinTolerance(item.Price, expected.Price) {
			return models.Quote{}, invalid(MsgInvalidPrices)
		}
	}
	if !withinTolerance(sub.Total, computed.Total) {
		return models.Quote{}, invalid(MsgInvalidTotal)
	}
	return computed, nil
}

// ValidateFence recomputes a fence estimate against the tenant rate card.
func ValidateFence(card *models.FenceRateCard, sub models.FenceSubmission) (models.FenceQuote, error) {
	if len(sub.Items) == 0 || sub.Total < 0 || sub.Feet < 0 || math.IsNaN(sub.Feet) {
		return models.FenceQuote{}, invalid(MsgInvalidPayload)
	}

	computed := pricing.EstimateFence(card, sub.Feet, sub.Fence)
	if len(computed.LineItems) != len(sub.Items) {
		return models.FenceQuote{}, invalid(MsgInvalidServices)
	}

	byKey := make(map[models.FenceLineKey]models.FenceLineItem, len(computed.LineItems))
	for _, li := range computed.LineItems {
		byKey[li.Key] = li
	}
	seen := make(map[models.FenceLineKey]bool, len(sub.Items))
	for _, item := range sub.Items {
		expected, ok := byKey[item.Key]
		if !ok || seen[item.Key] {
			return models.FenceQuote{}, invalid(MsgInvalidServices)
		}
		seen[item.Key] = true
		if item.Price < 0 || !withinTolerance(item.Price, expected.Price) {
			return models.FenceQuote{}, invalid(MsgInvalidPrices)
		}
	}
	if !withinTolerance(sub.Total, computed.Total) {
		return models.FenceQuote{}, invalid(MsgInvalidTotal)
	}
	return computed, nil
}
