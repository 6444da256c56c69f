// Package format holds the pure validators and display formatters used by the
// console forms and tables. Nothing here performs I/O.
package format

import "strings"

// Digits returns s with every non-digit rune removed.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CNPJCheckDigits computes the two check digits for the first 12 digits of a
// CNPJ. It returns ok=false when base does not hold exactly 12 digits.
func CNPJCheckDigits(base string) (first, second int, ok bool) {
	if len(base) != 12 || Digits(base) != base {
		return 0, 0, false
	}
	first = cnpjDigit(base)
	second = cnpjDigit(base + string(rune('0'+first)))
	return first, second, true
}

// cnpjDigit runs one pass of the weighted sum. Weights start at len-7 and
// count down to 2, then wrap to 9.
func cnpjDigit(digits string) int {
	sum := 0
	weight := len(digits) - 7
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	if r := sum % 11; r >= 2 {
		return 11 - r
	}
	return 0
}

// ValidCNPJ reports whether s (masked or not) is a valid CNPJ.
func ValidCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 {
		return false
	}
	if strings.Count(d, d[:1]) == len(d) {
		return false
	}
	first, second, _ := CNPJCheckDigits(d[:12])
	return int(d[12]-'0') == first && int(d[13]-'0') == second
}

// MaskCNPJ formats up to 14 digits as 00.000.000/0000-00. Partial input is
// formatted progressively so it can be applied while the user types.
func MaskCNPJ(s string) string {
	d := Digits(s)
	if len(d) > 14 {
		d = d[:14]
	}
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}
