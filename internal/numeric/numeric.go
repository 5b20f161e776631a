// Package numeric holds the scalar coercions used across the analytics engine.
// None of the functions here panic or return errors: missing, malformed and
// NaN input collapses to the caller's default.
package numeric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeBool returns false for nil and the truthiness of v otherwise.
func SafeBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case *bool:
		return b != nil && *b
	case string:
		return b != ""
	}
	f, ok := ToFloat(v)
	if !ok {
		return true
	}
	return f != 0
}

// SafeFloat coerces v to a finite float64, returning def when v is nil, NaN,
// infinite or not coercible.
func SafeFloat(v any, def float64) float64 {
	f, ok := ToFloat(v)
	if !ok {
		return def
	}
	return f
}

// ToFloat coerces v to a finite float64. ok is false for nil, NaN, Inf and
// values that have no numeric reading.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case decimal.Decimal:
		f, _ = n.Float64()
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Finite returns f, or def when f is NaN or infinite.
func Finite(f, def float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// Round rounds f to the given number of decimal places, half away from zero.
func Round(f float64, places int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return r
}
