// Package currency holds the static catalog of currencies the tracker
// offers and formats amounts for display.
package currency

import (
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Info describes a supported currency.
type Info struct {
	Code   string
	Symbol string
	Locale string
	Name   string
}

var catalog = map[string]Info{
	"USD": {"USD", "$", "en-US", "US Dollar"},
	"EUR": {"EUR", "€", "de-DE", "Euro"},
	"GBP": {"GBP", "£", "en-GB", "British Pound"},
	"JPY": {"JPY", "¥", "ja-JP", "Japanese Yen"},
	"CAD": {"CAD", "C$", "en-CA", "Canadian Dollar"},
	"AUD": {"AUD", "A$", "en-AU", "Australian Dollar"},
	"CHF": {"CHF", "Fr", "de-CH", "Swiss Franc"},
	"CNY": {"CNY", "¥", "zh-CN", "Chinese Yuan"},
	"INR": {"INR", "₹", "en-IN", "Indian Rupee"},
	"KRW": {"KRW", "₩", "ko-KR", "South Korean Won"},
	"SGD": {"SGD", "S$", "en-SG", "Singapore Dollar"},
	"HKD": {"HKD", "HK$", "en-HK", "Hong Kong Dollar"},
	"SEK": {"SEK", "kr", "sv-SE", "Swedish Krona"},
	"NOK": {"NOK", "kr", "nb-NO", "Norwegian Krone"},
	"MXN": {"MXN", "$", "es-MX", "Mexican Peso"},
	"BRL": {"BRL", "R$", "pt-BR", "Brazilian Real"},
	"ZAR": {"ZAR", "R", "en-ZA", "South African Rand"},
}

// Fallback is used for codes missing from the catalog.
const Fallback = "USD"

// Lookup returns the catalog entry for code. Codes are case-insensitive.
func Lookup(code string) (Info, bool) {
	info, ok := catalog[strings.ToUpper(strings.TrimSpace(code))]
	return info, ok
}

// Known reports whether code is in the catalog.
func Known(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Symbol returns the display symbol of code, or the fallback's.
func Symbol(code string) string {
	if info, ok := Lookup(code); ok {
		return info.Symbol
	}
	return catalog[Fallback].Symbol
}

// Codes returns every supported code in alphabetical order.
func Codes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Format renders amount in the currency's conventional form, e.g.
// "$1,250.75". Unknown codes are formatted as the fallback currency.
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	cur := money.GetCurrency(code)
	if cur == nil || !Known(code) {
		cur = money.GetCurrency(Fallback)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}
