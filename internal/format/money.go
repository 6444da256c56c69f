package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "R$"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatAmount renders v with pt-BR grouping and exactly two decimals,
// e.g. 1500000 -> "1.500.000,00".
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// FormatBRL renders v as a currency string, e.g. "R$ 1.500.000,00".
func FormatBRL(v float64) string {
	return CurrencySymbol + " " + FormatAmount(v)
}

// ParseAmount is the inverse of FormatBRL and FormatAmount. It strips the
// currency symbol, spaces and thousands separators, turns the decimal comma
// into a dot and parses the rest. Input that is not a number yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '.':
			return -1
		case ',':
			return '.'
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
