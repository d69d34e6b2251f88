package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Settings is the application configuration exposed to clients.
//
// A Settings value owns its map: callers hand it over in NewSettings and never
// touch it again, so the value can be read from any number of goroutines.
type Settings struct {
	values map[string]any
}

// NewSettings wraps values. A nil map is treated as an empty one.
func NewSettings(values map[string]any) Settings {
	if values == nil {
		values = map[string]any{}
	}
	return Settings{values: values}
}

// Get returns the top-level value stored under key.
func (s Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the top-level keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Settings) Len() int {
	return len(s.values)
}

// Encode returns the JSON text of the settings.
// HTML characters are written as-is and there is no trailing newline.
func (s Settings) Encode() ([]byte, error) {
	values := s.values
	if values == nil {
		values = map[string]any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(values); err != nil {
		return nil, &SerializationError{Err: err}
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return s.Encode()
}
