package store

import (
	"encoding/json"
	"strings"
)

// The location column holds either a single store name or a JSON-encoded
// list of names (plus the "all stores" sentinel). The domain model always
// carries an ordered slice; this codec is the only place that knows about
// the column's flexible encoding.

// ParseLocations decodes a location column value. Malformed JSON falls
// back to treating the raw value as a single location name; it never fails.
func ParseLocations(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			return names
		}
	}

	return []string{raw}
}

// encodeLocations is the inverse mapping used on the write path: a single
// name is stored bare, multiple names as a JSON array.
func encodeLocations(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		b, err := json.Marshal(names)
		if err != nil {
			return names[0]
		}
		return string(b)
	}
}
