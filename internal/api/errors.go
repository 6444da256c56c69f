package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized matches request errors with status 401 or 403.
var ErrUnauthorized = errors.New("unauthorized")

// maxPlainMessage bounds plain-text bodies that are shown to the user as-is.
const maxPlainMessage = 200

// RequestError is a non-2xx response from the backend.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Detail  string
	Fields  map[string][]string
	Body    string
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

// Is lets errors.Is(err, ErrUnauthorized) match auth failures.
func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// problemBody covers the structured error bodies the backend produces:
// {"message": ...}, {"detail": ...}, {"title": ...} and validation
// {"errors": {"Field": ["msg"]}}.
type problemBody struct {
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Title   string          `json:"title"`
	Errors  json.RawMessage `json:"errors"`
}

func newRequestError(method, path string, status int, body []byte) *RequestError {
	e := &RequestError{
		Method: method,
		Path:   path,
		Status: status,
		Body:   string(body),
	}

	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
	case trimmed[0] == '{':
		var p problemBody
		if err := json.Unmarshal(trimmed, &p); err == nil {
			e.Message = strings.TrimSpace(p.Message)
			e.Detail = strings.TrimSpace(p.Detail)
			if e.Detail == "" && e.Message == "" {
				e.Detail = strings.TrimSpace(p.Title)
			}
			e.Fields = decodeFieldErrors(p.Errors)
		}
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			e.Message = strings.TrimSpace(s)
		}
	case trimmed[0] != '<' && len(trimmed) <= maxPlainMessage:
		e.Message = string(trimmed)
	}
	return e
}

// decodeFieldErrors accepts {"field": ["a", "b"]} or {"field": "a"}.
func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil
	}
	fields := make(map[string][]string, len(generic))
	for key, val := range generic {
		var list []string
		if err := json.Unmarshal(val, &list); err == nil {
			if len(list) > 0 {
				fields[key] = list
			}
			continue
		}
		var single string
		if err := json.Unmarshal(val, &single); err == nil && single != "" {
			fields[key] = []string{single}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// FirstFieldError returns the first field message, looking at fields in the
// given order (case-insensitive) and then at the rest in sorted order.
func (e *RequestError) FirstFieldError(order ...string) string {
	if len(e.Fields) == 0 {
		return ""
	}
	for _, name := range order {
		for key, msgs := range e.Fields {
			if strings.EqualFold(key, name) && len(msgs) > 0 {
				return msgs[0]
			}
		}
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return e.Fields[keys[0]][0]
}

// UserMessage turns err into a message that is safe to show. Client errors
// with a structured body yield their most specific message; server errors,
// unstructured responses and transport failures yield fallback.
func UserMessage(err error, fallback string, fieldOrder ...string) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if !errors.As(err, &re) || re.Status >= 500 {
		return fallback
	}
	if msg := re.FirstFieldError(fieldOrder...); msg != "" {
		return msg
	}
	if re.Message != "" {
		return re.Message
	}
	if re.Detail != "" {
		return re.Detail
	}
	return fallback
}
