package format

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// ValidEmail accepts local@domain.tld with no whitespace and a suffix of at
// least two characters.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Phone length limits, in digits.
const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 11
)

// ValidPhone reports whether s carries a landline (10) or mobile (11) number.
func ValidPhone(s string) bool {
	n := len(Digits(s))
	return n >= MinPhoneDigits && n <= MaxPhoneDigits
}

// MaskPhone formats up to 11 digits as (11) 2345-6789 for landlines or
// (11) 91234-5678 for mobiles. Partial input is formatted progressively.
func MaskPhone(s string) string {
	d := Digits(s)
	if len(d) > MaxPhoneDigits {
		d = d[:MaxPhoneDigits]
	}
	if d == "" {
		return ""
	}

	prefix := 4
	if len(d) == MaxPhoneDigits {
		prefix = 5
	}

	area, rest := split(d, 2)
	head, tail := split(rest, prefix)

	var b strings.Builder
	b.WriteString("(" + area)
	if rest == "" {
		return b.String()
	}
	b.WriteString(") " + head)
	if tail != "" {
		b.WriteString("-" + tail)
	}
	return b.String()
}

func split(s string, n int) (string, string) {
	if len(s) <= n {
		return s, ""
	}
	return s[:n], s[n:]
}
