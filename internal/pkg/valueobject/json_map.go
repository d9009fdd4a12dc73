// Package valueobject holds small persistence-friendly value types.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrScanValueNotBytes indicates the database value is not a byte slice.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap stores arbitrary JSON object data (session metadata, audit payloads).
type JSONMap map[string]any

// Value implements driver.Valuer for JSONMap.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JSONMap.
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = JSONMap{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		if s, okStr := value.(string); okStr {
			b = []byte(s)
		} else {
			return ErrScanValueNotBytes
		}
	}

	if len(b) == 0 {
		*j = JSONMap{}
		return nil
	}

	return json.Unmarshal(b, j)
}
