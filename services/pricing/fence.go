package pricing

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"instaquote/models"
)

// DefaultFenceRateCard returns the stock fence pricing.
func DefaultFenceRateCard() *models.FenceRateCard {
	return &models.FenceRateCard{
		DefaultType: "wood",
		PerFoot: map[string]float64{
			"wood":       32,
			"vinyl":      38,
			"chain-link": 22,
			"aluminum":   45,
		},
		WalkGate:       350,
		DoubleGate:     650,
		RemovalPerFoot: 4,
	}
}

// FenceTypes lists the fence types priced by card, sorted.
func FenceTypes(card *models.FenceRateCard) []string {
	if card == nil {
		card = DefaultFenceRateCard()
	}
	types := make([]string, 0, len(card.PerFoot))
	for t := range card.PerFoot {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// RoundFeet rounds a linear measurement to one decimal place.
func RoundFeet(feet float64) float64 {
	return math.Round(NormalizeMeasurement(feet)*10) / 10
}

// EstimateFence prices a fence run. Zero feet yields an empty estimate; negative
// gate counts count as zero; an unknown fence type uses the card's default type.
func EstimateFence(card *models.FenceRateCard, feet float64, sel models.FenceSelection) models.FenceQuote {
	if card == nil {
		card = DefaultFenceRateCard()
	}
	fenceType := strings.ToLower(strings.TrimSpace(sel.FenceType))
	perFoot, ok := card.PerFoot[fenceType]
	if !ok {
		fenceType = card.DefaultType
		perFoot = card.PerFoot[fenceType]
	}

	ft := RoundFeet(feet)
	quote := models.FenceQuote{Feet: ft, FenceType: fenceType, LineItems: []models.FenceLineItem{}}
	if ft == 0 {
		return quote
	}

	add := func(key models.FenceLineKey, label string, qty, unit float64) {
		item := models.FenceLineItem{Key: key, Label: label, Quantity: qty, Price: RoundCurrency(qty * unit)}
		quote.LineItems = append(quote.LineItems, item)
		quote.Total += item.Price
	}

	add(models.FenceLineMaterial, cases.Title(language.English).String(fenceType)+" fence", ft, perFoot)
	if n := max(sel.WalkGates, 0); n > 0 {
		add(models.FenceLineWalkGate, "Walk gates", float64(n), card.WalkGate)
	}
	if n := max(sel.DoubleGates, 0); n > 0 {
		add(models.FenceLineDoubleGate, "Double gates", float64(n), card.DoubleGate)
	}
	if sel.RemoveOld {
		add(models.FenceLineRemoval, "Old fence removal", ft, card.RemovalPerFoot)
	}
	return quote
}
