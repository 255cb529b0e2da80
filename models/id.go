// ABOUTME: Numeric record identifiers shared by every entity collection
// ABOUTME: Accepts both JSON numbers and numeric strings so "5" and 5 match
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a record within one entity collection.
type ID int

// ParseID coerces caller-supplied text into an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a number", s)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// UnmarshalJSON accepts 5, 5.0 and "5".
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("invalid id %s: not an integer", data)
	}
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return fmt.Errorf("invalid id %s: out of range", data)
	}
	*id = ID(int(f))
	return nil
}
