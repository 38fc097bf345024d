// AngelaMos | 2026
// errors.go

package gateway

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/modep/console/internal/core"
)

const maxErrorBody = 64 << 10

// nonFieldKey is the bucket the backend uses for errors that belong to
// no particular field (login failures, object-level validation).
const nonFieldKey = "non_field_errors"

// BackendError is the explicit shape of a backend error response:
// field name to list of messages, plus the free-form "detail" string
// some endpoints return instead.
type BackendError struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Detail)
	}
	if summary := e.Summary(); summary != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, summary)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

func (e *BackendError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return core.ErrUnauthorized
	case http.StatusForbidden:
		return core.ErrForbidden
	case http.StatusNotFound:
		return core.ErrNotFound
	}
	return nil
}

// Summary joins every field-error list into one message,
// "field: msg, msg | field: msg". This is the single formatting rule
// shared by all screens.
func (e *BackendError) Summary() string {
	if len(e.Fields) == 0 {
		return e.Detail
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(
			"%s: %s",
			k,
			strings.Join(e.Fields[k], ", "),
		))
	}

	return strings.Join(parts, " | ")
}

// FirstNonField returns the first object-level error message, or ""
// when the body carried none.
func (e *BackendError) FirstNonField() string {
	if msgs := e.Fields[nonFieldKey]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func decodeError(resp *http.Response) error {
	be := &BackendError{
		Status: resp.StatusCode,
		Fields: make(map[string][]string),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		parseErrorBody(body, be)
	}

	return fmt.Errorf("backend request failed: %w", be)
}

// parseErrorBody handles the duck-typed error bodies the backend
// produces: {"detail": "..."} or {"field": ["msg", ...], ...} with
// occasional bare-string values.
func parseErrorBody(body []byte, be *BackendError) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return
	}

	for key, value := range raw {
		if key == "detail" {
			if s, ok := value.(string); ok {
				be.Detail = s
			}
			continue
		}

		switch v := value.(type) {
		case string:
			be.Fields[key] = []string{v}
		case []any:
			msgs := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				be.Fields[key] = msgs
			}
		}
	}
}
