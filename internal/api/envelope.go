package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// TotalCountHeader carries the collection size when the body does not.
const TotalCountHeader = "X-Total-Count"

// RawPage is a normalized list response: the records of one page, still in
// wire form, and the total number of matching records.
type RawPage struct {
	Items []json.RawMessage
	Total int
}

// listBody is one of the response shapes the list endpoints produce.
// Each variant knows how to normalize itself.
type listBody interface {
	normalize(headerTotal int, hasHeader bool) RawPage
}

// itemsEnvelope is {"items": [...], "total": N}.
type itemsEnvelope struct {
	Items []json.RawMessage `json:"items"`
	Total json.RawMessage   `json:"total"`
}

// bareArray is [...].
type bareArray []json.RawMessage

// singleObject is a lone record {...}.
type singleObject json.RawMessage

// emptyBody is an empty or null body.
type emptyBody struct{}

// A zero total, from the body or the header, counts as absent: the next
// source is tried and the row count is the last resort.
func (e itemsEnvelope) normalize(headerTotal int, hasHeader bool) RawPage {
	items := nonNil(e.Items)
	if total, ok := bodyTotal(e.Total); ok && total > 0 {
		return RawPage{Items: items, Total: total}
	}
	return RawPage{Items: items, Total: fallbackTotal(headerTotal, hasHeader, len(items))}
}

func (a bareArray) normalize(headerTotal int, hasHeader bool) RawPage {
	items := nonNil(a)
	return RawPage{Items: items, Total: fallbackTotal(headerTotal, hasHeader, len(items))}
}

func (o singleObject) normalize(headerTotal int, hasHeader bool) RawPage {
	return RawPage{Items: []json.RawMessage{json.RawMessage(o)}, Total: fallbackTotal(headerTotal, hasHeader, 1)}
}

func fallbackTotal(headerTotal int, hasHeader bool, rows int) int {
	if hasHeader && headerTotal > 0 {
		return headerTotal
	}
	return rows
}

func (emptyBody) normalize(headerTotal int, hasHeader bool) RawPage {
	if hasHeader {
		return RawPage{Items: []json.RawMessage{}, Total: headerTotal}
	}
	return RawPage{Items: []json.RawMessage{}}
}

// classifyList decides which variant body is.
func classifyList(body []byte) (listBody, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyBody{}, nil
	}

	switch trimmed[0] {
	case '[':
		var arr bareArray
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, fmt.Errorf("invalid list body: %w", err)
		}
		return arr, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, fmt.Errorf("invalid list body: %w", err)
		}
		if raw, ok := fields["items"]; ok && isArray(raw) {
			var env itemsEnvelope
			if err := json.Unmarshal(trimmed, &env); err != nil {
				return nil, fmt.Errorf("invalid list envelope: %w", err)
			}
			return env, nil
		}
		return singleObject(trimmed), nil
	default:
		return nil, fmt.Errorf("unexpected list body starting with %q", trimmed[0])
	}
}

// DecodeList normalizes a list response body plus headers into a RawPage.
// Total precedence: body total, then the X-Total-Count header, then the
// number of returned records.
func DecodeList(body []byte, header http.Header) (RawPage, error) {
	shape, err := classifyList(body)
	if err != nil {
		return RawPage{}, err
	}
	total, ok := headerTotal(header)
	return shape.normalize(total, ok), nil
}

func headerTotal(h http.Header) (int, bool) {
	if h == nil {
		return 0, false
	}
	raw := strings.TrimSpace(h.Get(TotalCountHeader))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

func nonNil(items []json.RawMessage) []json.RawMessage {
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}

// bodyTotal reads the envelope total, which may be a number or a numeric
// string. Anything else counts as absent.
func bodyTotal(raw json.RawMessage) (int, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}
