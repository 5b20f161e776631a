package numeric

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/shopspring/decimal"
)

// Normalize rewrites v so that it holds only native scalars (int64, float64,
// bool, string), []any, map[string]any and nil. Sized integer and float
// variants collapse to int64/float64, arrays and slices of any element type
// become []any, and NaN or infinite floats become nil.
//
// It is applied once where provider data enters the engine so that nothing
// downstream has to care about wrapper types.
func Normalize(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case bool, string:
		return n
	case float64:
		return finiteOrNil(n)
	case float32:
		return finiteOrNil(float64(n))
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return normalizeUint(uint64(n))
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return normalizeUint(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return finiteOrNil(f)
		}
		return nil
	case decimal.Decimal:
		f, _ := n.Float64()
		return finiteOrNil(f)
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, val := range n {
			out[k] = Normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, val := range n {
			out[i] = Normalize(val)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return normalizeUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return finiteOrNil(rv.Float())
	}
	return v
}

func finiteOrNil(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}
