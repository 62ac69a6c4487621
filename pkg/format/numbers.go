package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/goliatone/go-caseform/pkg/schema"
)

// DefaultDecimalPlaces applies when a number mode does not declare one.
const DefaultDecimalPlaces = 2

// Currency display styles.
const (
	DisplaySymbol = "symbol"
	DisplayCode   = "code"
	DisplayName   = "name"
)

var localeCurrency = map[string]currency.Unit{
	"en-US": currency.USD,
	"es-US": currency.USD,
	"en-CA": currency.CAD,
	"fr-CA": currency.CAD,
	"fr-FR": currency.EUR,
	"es-ES": currency.EUR,
	"de-DE": currency.EUR,
	"en-GB": currency.GBP,
}

var currencySymbols = map[currency.Unit]string{
	currency.USD: "$",
	currency.CAD: "CA$",
	currency.EUR: "€",
	currency.GBP: "£",
}

var currencyNames = map[currency.Unit]string{
	currency.USD: "US dollars",
	currency.CAD: "Canadian dollars",
	currency.EUR: "euros",
	currency.GBP: "British pounds",
}

// CurrencyFor returns the currency used for locale, USD when unmapped.
func CurrencyFor(locale string) currency.Unit {
	if unit, ok := localeCurrency[locale]; ok {
		return unit
	}
	return currency.USD
}

// CurrencyDisplay maps a mode's currencySymbol flag onto a display style.
func CurrencyDisplay(flag string) string {
	switch flag {
	case "currencyCode":
		return DisplayCode
	case "currencyName":
		return DisplayName
	default:
		return DisplaySymbol
	}
}

// DecimalPlaces reads the mode's decimal place count.
func DecimalPlaces(mode schema.Mode) int {
	raw := strings.TrimSpace(mode.DecimalPlaces.String())
	if raw == "" || mode.DecimalPlaces.IsBool {
		return DefaultDecimalPlaces
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return DefaultDecimalPlaces
	}
	return n
}

// FormatNumber groups digits for the active locale with an exact fraction
// digit count. Currency modes add the locale's currency. Non numeric values
// are returned unchanged.
func (f *Formatter) FormatNumber(value string, mode schema.Mode) string {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	places := DecimalPlaces(mode)
	if mode.NumberSymbol != "currency" {
		return f.formatDecimal(n, places)
	}
	return f.FormatCurrency(n, places, CurrencyDisplay(mode.CurrencySymbol))
}

// FormatCurrency renders n in the locale's currency using display style.
func (f *Formatter) FormatCurrency(n float64, places int, display string) string {
	unit := CurrencyFor(f.locale())
	negative := n < 0
	if negative {
		n = -n
	}
	amount := f.formatDecimal(n, places)

	var out string
	switch display {
	case DisplayCode:
		out = unit.String() + " " + amount
	case DisplayName:
		out = amount + " " + currencyNames[unit]
	default:
		symbol := currencySymbols[unit]
		if symbolTrails(f.locale()) {
			out = amount + " " + symbol
		} else {
			out = symbol + amount
		}
	}
	if negative {
		out = "-" + out
	}
	return out
}

func (f *Formatter) formatDecimal(n float64, places int) string {
	p := message.NewPrinter(f.tag())
	return p.Sprint(number.Decimal(n, number.Scale(places)))
}

func (f *Formatter) tag() language.Tag {
	tag, err := language.Parse(f.locale())
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

func symbolTrails(locale string) bool {
	switch strings.SplitN(locale, "-", 2)[0] {
	case "fr", "de", "es":
		return locale != "es-US"
	default:
		return false
	}
}
