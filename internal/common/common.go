// Package common holds the reflection helpers shared by the buffer's type
// registry and the schema compiler: numeric coercion, per-type struct field
// plans, and assignment of decoded values into host values.
package common

import (
	"errors"
	"math"
	"reflect"
)

var (
	ErrNotStruct   = errors.New("expected struct")
	ErrUnsupported = errors.New("unsupported type")
	ErrOverflow    = errors.New("value out of range")
	ErrNoField     = errors.New("no such field")
)

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// ToInt64 converts any integer (or integral float) value to int64.
func ToInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case isInt(k):
		return rv.Int(), true
	case isUint(k):
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case isFloat(k):
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// ToUint64 converts any non-negative integer (or integral float) value to uint64.
func ToUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case uint32:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case isUint(k):
		return rv.Uint(), true
	case isInt(k):
		i := rv.Int()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case isFloat(k):
		f := rv.Float()
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	}
	return 0, false
}

// ToFloat64 converts any numeric value to float64.
func ToFloat64(v any) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case isFloat(k):
		return rv.Float(), true
	case isInt(k):
		return float64(rv.Int()), true
	case isUint(k):
		return float64(rv.Uint()), true
	}
	return 0, false
}

// ToBool accepts bool kinds.
func ToBool(v any) (bool, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return false, false
	}
	return rv.Bool(), true
}

// ToString accepts string kinds and byte slices.
func ToString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// ToBytes accepts byte slices, byte arrays and strings. nil is an empty blob.
func ToBytes(v any) ([]byte, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(out), rv)
			return out, true
		}
	case reflect.String:
		return []byte(rv.String()), true
	}
	return nil, false
}
