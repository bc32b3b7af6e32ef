package api

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// FormObject converts a form payload into the flat object the backend expects.
// Single values stay strings, repeated keys become string arrays. Nested structures
// travel as JSON strings inside a field and are decoded server-side.
func FormObject(values url.Values) map[string]any {
	obj := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
			obj[k] = ""
		case 1:
			obj[k] = vs[0]
		default:
			obj[k] = append([]string(nil), vs...)
		}
	}
	return obj
}

// SetJSONField encodes v into a single form field.
func SetJSONField(values url.Values, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	values.Set(key, string(raw))
	return nil
}

// JSONField decodes a field written by SetJSONField. A missing field leaves dst untouched.
func JSONField(values url.Values, key string, dst any) (bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
