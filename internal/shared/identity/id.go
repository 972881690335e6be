package identity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"restauReserva/internal/shared/normalization"
)

// ID is an opaque server-assigned identifier. The API emits integers, the client
// treats every identifier as a string.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	value := normalization.AsString(raw)
	if value == "" {
		if _, isString := raw.(string); !isString {
			return fmt.Errorf("decode id: unsupported value %s", string(trimmed))
		}
	}
	*id = ID(value)
	return nil
}
