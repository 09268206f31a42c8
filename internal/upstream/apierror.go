package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a structured rejection from the inventory platform. Message
// is always a human-readable string regardless of the body shape the
// platform chose; the raw body is kept for logging.
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream rejected the request (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream rejected the request (%d)", e.StatusCode)
}

// AsAPIError unwraps err into an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// NormalizeMessage flattens the platform's heterogeneous error bodies —
// a plain string, {error}/{detail} objects, per-field maps, or arrays of
// per-item validation objects — into one display string. A compact JSON
// dump is the documented last resort when nothing structured is
// extractable; a raw serialized object is never shown otherwise.
func NormalizeMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		// Not JSON at all; the body is already text.
		return trimmed
	}
	if m, ok := extractMessage(v); ok {
		return m
	}
	return dump(v)
}

// extractMessage walks the value looking for human-written text. The
// second return is false when nothing structured was found; the dump
// fallback then happens once at the top, never per field.
func extractMessage(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case bool, float64:
		return fmt.Sprintf("%v", t), true
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if m, ok := extractMessage(item); ok {
				parts = append(parts, m)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; "), true
		}
	case map[string]interface{}:
		return messageFromObject(t)
	}
	return "", false
}

func messageFromObject(obj map[string]interface{}) (string, bool) {
	// Single well-known message keys first.
	for _, key := range []string{"error", "detail", "message"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, true
		}
	}

	// Per-item validation object: {item_id: 3, reason: "..."}.
	if reason, ok := obj["reason"].(string); ok && reason != "" {
		if id, hasID := obj["item_id"]; hasID {
			return fmt.Sprintf("item %v: %s", id, reason), true
		}
		return reason, true
	}

	// Per-field map: {field: ["msg", ...]} or {field: "msg"}.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if m, ok := extractMessage(obj[k]); ok {
			parts = append(parts, fmt.Sprintf("%s: %s", k, m))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; "), true
	}

	return "", false
}

// dump is the last resort: a compact JSON rendering, never Go's default
// formatting of a map.
func dump(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "unrecognized error response"
	}
	return string(raw)
}
