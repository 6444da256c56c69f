package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the lifecycle state of a contract, 1/2/3 on the wire.
type Status int

// Contract states.
const (
	StatusUnknown   Status = 0
	StatusAtivo     Status = 1
	StatusVencido   Status = 2
	StatusCancelado Status = 3
)

var statusLabels = map[Status]string{
	StatusAtivo:     "Ativo",
	StatusVencido:   "Vencido",
	StatusCancelado: "Cancelado",
}

// StatusLabels lists the selectable labels in wire order.
var StatusLabels = []string{"Ativo", "Vencido", "Cancelado"}

// String returns the display label, or "-" for an unknown status.
func (s Status) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return "-"
}

// ParseStatus reads a label in any case or a wire number.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if _, ok := statusLabels[Status(n)]; ok {
			return Status(n), nil
		}
		return StatusUnknown, fmt.Errorf("unknown status %d", n)
	}
	label := cases.Title(language.BrazilianPortuguese).String(v)
	for s, l := range statusLabels {
		if l == label {
			return s, nil
		}
	}
	return StatusUnknown, fmt.Errorf("unknown status %q", v)
}

// UnmarshalJSON accepts the wire number or a label. Unknown values decode
// to StatusUnknown.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = StatusUnknown
		return nil
	}
	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		*s = StatusUnknown
		return nil
	}
	*s = parsed
	return nil
}

// MarshalJSON writes the wire number.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}
