// Package format converts raw numeric magnitudes into the display
// strings the dashboard shows. It never renders markup, only text.
package format

import (
	"fmt"
)

// countrySymbols maps a fixed set of country codes to their display
// symbol (flag plus local currency glyph). This is static configuration,
// not derived data.
var countrySymbols = map[string]string{
	"USA": "\U0001F1FA\U0001F1F8 $",
	"IND": "\U0001F1EE\U0001F1F3 ₹",
	"GBR": "\U0001F1EC\U0001F1E7 £",
	"CHN": "\U0001F1E8\U0001F1F3 ¥",
	"CAN": "\U0001F1E8\U0001F1E6 $",
	"DEU": "\U0001F1E9\U0001F1EA €",
	"FRA": "\U0001F1EB\U0001F1F7 €",
	"ISR": "\U0001F1EE\U0001F1F1 ₪",
	"SGP": "\U0001F1F8\U0001F1EC S$",
	"AUS": "\U0001F1E6\U0001F1FA A$",
}

// fallbackSymbol is used for any country outside the configured set
const fallbackSymbol = "\U0001F310 $"

// Magnitude abbreviates a dollar amount into a human-readable string.
// Tier bounds are inclusive on the low end: exactly 1,000,000 renders
// as "$1.00M", not "$1000.00K".
func Magnitude(value float64) string {
	switch {
	case value >= 1e9:
		return fmt.Sprintf("$%.2fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("$%.2fM", value/1e6)
	case value >= 1e3:
		return fmt.Sprintf("$%.2fK", value/1e3)
	default:
		return fmt.Sprintf("$%.2f", value)
	}
}

// CountrySymbol returns the display symbol for a country code, or the
// generic globe symbol for codes outside the configured set.
func CountrySymbol(code string) string {
	if symbol, ok := countrySymbols[code]; ok {
		return symbol
	}
	return fallbackSymbol
}
