package format

import (
	"strings"
	"time"
)

// Date layouts.
const (
	ISODate     = "2006-01-02"
	DisplayDate = "02/01/2006"
)

// ParseDate accepts ISO dates, pt-BR display dates and RFC 3339 timestamps.
// Empty input returns the zero time and no error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range []string{ISODate, DisplayDate, time.RFC3339, "2006-01-02T15:04:05"} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// FormatDate renders t as dd/mm/yyyy, or "-" when t is zero.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DisplayDate)
}

// ISO renders t as yyyy-mm-dd, or "" when t is zero.
func ISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ISODate)
}
