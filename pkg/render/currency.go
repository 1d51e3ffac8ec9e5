// Package render provides shared rendering helpers for the visualization
// sinks.
package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD formats an amount as US dollars with thousands grouping,
// rounded to whole dollars (e.g. "$1,234,568").
func FormatUSD(amount float64) string {
	return usd.Sprintf("$%.0f", amount)
}
