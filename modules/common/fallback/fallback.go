package fallback

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// SafeString returns a trimmed string or the provided fallback.
func SafeString(value interface{}, fallback string) string {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return fallback
}

// SafeNumber extracts a finite number from a decoded JSON value. Strings are
// not coerced: a model that answers "12" instead of 12 is treated as absent.
// A json.Number too large for float64 comes back as ±Inf so callers can
// clamp it like any other out-of-range value.
func SafeNumber(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if errors.Is(err, strconv.ErrRange) {
			return parsed, true
		}
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ClampedFloat returns the numeric value clamped to [min, max], or fallback
// when the value is missing or not a number.
func ClampedFloat(value interface{}, min, max, fallback float64) float64 {
	f, ok := SafeNumber(value)
	if !ok {
		return fallback
	}
	return Clamp(f, min, max)
}

// Clamp constrains v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SafeMap returns the value as a JSON object, or nil.
func SafeMap(value interface{}) map[string]interface{} {
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}
	return nil
}
