package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized marks a 401 from the backend. The session layer treats it
// as the single trigger for a full session wipe; it is never rendered as a
// message to the operator.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError carries the backend's HTTP status plus one flattened,
// human-readable message suitable for inline display.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
}

// FlattenErrorBody converts the backend's validation-error shapes into one
// readable string. Handled shapes, in order: {"detail": "..."},
// {"non_field_errors": [...]}, and field-keyed errors
// {field: ["msg", ...], field2: "msg"}. Anything else degrades to
// "Validation failed".
func FlattenErrorBody(body []byte) string {
	if len(body) == 0 {
		return "Unknown error"
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return "Unknown error"
	}

	if raw, ok := data["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil {
			return detail
		}
	}

	if raw, ok := data["non_field_errors"]; ok {
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil {
			return strings.Join(msgs, ", ")
		}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		var msgs []string
		if err := json.Unmarshal(data[key], &msgs); err == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(msgs, ", ")))
			continue
		}
		var msg string
		if err := json.Unmarshal(data[key], &msg); err == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", key, msg))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " | ")
	}

	return "Validation failed"
}
