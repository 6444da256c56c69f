// Package resource defines the contract, company and user records, how they
// are read from and written to the backend, and the table columns and forms
// that present them.
package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/contratos/internal/format"
)

// ID is a record identifier. The backend sends it as a number or a string.
type ID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid id %s", data)
		}
		*id = ID(n.String())
	}
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.wire())
}

func (id ID) wire() any {
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return n
	}
	return string(id)
}

func (id ID) String() string { return string(id) }

// Amount is a monetary value. The backend sends it as a number, and older
// records carry it as text.
type Amount float64

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = Amount(v)
		} else {
			*a = Amount(format.ParseAmount(s))
		}
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid amount %s", data)
		}
		*a = Amount(v)
	}
	return nil
}

// wireDate parses a date the way the backend writes it; unparseable values
// read as absent.
func wireDate(values ...string) time.Time {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if t, err := format.ParseDate(v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func first(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
