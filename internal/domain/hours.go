package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Hours is a work-hours value decoded leniently from JSON. The source may
// send a number, a numeric string, or null. Anything else (including NaN
// and infinities) decodes as an invalid value rather than an error.
type Hours struct {
	Value float64
	Valid bool
}

// HoursOf returns a valid Hours holding v.
func HoursOf(v float64) Hours {
	return Hours{Value: v, Valid: true}
}

// Or returns the value, or fallback when the value is invalid.
func (h Hours) Or(fallback float64) float64 {
	if !h.Valid {
		return fallback
	}
	return h.Value
}

func (h *Hours) UnmarshalJSON(data []byte) error {
	h.Value, h.Valid = 0, false

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var f float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f = parsed
	} else if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	h.Value, h.Valid = f, true
	return nil
}

func (h Hours) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(h.Value)
}
