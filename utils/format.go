package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders whole US dollars, e.g. $1,234.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return usPrinter.Sprintf("$%d", int64(math.Round(amount)))
}

// FormatNumber renders a measurement with grouping. Whole values drop the
// decimal; others keep one place.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	if v == math.Trunc(v) {
		return usPrinter.Sprintf("%d", int64(v))
	}
	return usPrinter.Sprintf("%.1f", v)
}
