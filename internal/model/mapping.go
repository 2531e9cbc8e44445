package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Mapping is a string-keyed structured value used for message entities,
// conversation context and action details. It is stored serialized as JSON.
type Mapping map[string]any

// Validate checks that every value is a JSON-representable type: string,
// number, boolean, nil, nested mapping or sequence. Anything else (channels,
// funcs, arbitrary structs) is rejected at the boundary.
func (m Mapping) Validate() error {
	for key, value := range m {
		if key == "" {
			return fmt.Errorf("mapping contains empty key")
		}
		if err := validateValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(key string, value any) error {
	switch v := value.(type) {
	case nil, string, bool,
		int, int32, int64, float32, float64, json.Number:
		return nil
	case map[string]any:
		return Mapping(v).Validate()
	case Mapping:
		return v.Validate()
	case []any:
		for _, item := range v {
			if err := validateValue(key, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("mapping key %q has unsupported type %T", key, value)
	}
}

// Value implements driver.Valuer so a Mapping can be bound directly as a
// statement parameter. A nil mapping stores SQL NULL.
func (m Mapping) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal mapping: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for reading a serialized mapping back out.
func (m *Mapping) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Mapping", src)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}
