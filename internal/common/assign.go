package common

import (
	"fmt"
	"reflect"
)

// Fields is a generic name-keyed value source, such as an ordered record.
type Fields interface {
	FieldNames() []string
	Field(name string) (any, bool)
}

// Assign stores src into dst, converting between the representations the
// decoder produces (fixed-width numbers, strings, byte slices, []T, name-keyed
// objects) and the host type of dst. dst must be settable.
func Assign(dst reflect.Value, src any) error {
	if !dst.CanSet() {
		return fmt.Errorf("%w: destination %s is not settable", ErrUnsupported, dst.Type())
	}
	if src == nil {
		dst.SetZero()
		return nil
	}
	sv := reflect.ValueOf(src)
	dt := dst.Type()
	if sv.Type().AssignableTo(dt) {
		dst.Set(sv)
		return nil
	}

	switch k := dt.Kind(); {
	case k == reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dt.Elem()))
		}
		return Assign(dst.Elem(), src)
	case k == reflect.Bool:
		b, ok := ToBool(src)
		if !ok {
			return mismatch(src, dt)
		}
		dst.SetBool(b)
		return nil
	case isInt(k):
		i, ok := ToInt64(src)
		if !ok {
			return mismatch(src, dt)
		}
		if dst.OverflowInt(i) {
			return fmt.Errorf("%w: %d overflows %s", ErrOverflow, i, dt)
		}
		dst.SetInt(i)
		return nil
	case isUint(k):
		u, ok := ToUint64(src)
		if !ok {
			return mismatch(src, dt)
		}
		if dst.OverflowUint(u) {
			return fmt.Errorf("%w: %d overflows %s", ErrOverflow, u, dt)
		}
		dst.SetUint(u)
		return nil
	case isFloat(k):
		f, ok := ToFloat64(src)
		if !ok {
			return mismatch(src, dt)
		}
		dst.SetFloat(f)
		return nil
	case k == reflect.String:
		s, ok := ToString(src)
		if !ok {
			return mismatch(src, dt)
		}
		dst.SetString(s)
		return nil
	case k == reflect.Slice:
		return assignSlice(dst, sv)
	case k == reflect.Array:
		return assignArray(dst, sv)
	case k == reflect.Struct:
		return assignStruct(dst, src)
	case k == reflect.Map:
		return assignMap(dst, src)
	}
	return mismatch(src, dt)
}

func assignSlice(dst, sv reflect.Value) error {
	dt := dst.Type()
	if dt.Elem().Kind() == reflect.Uint8 {
		if b, ok := ToBytes(sv.Interface()); ok {
			out := reflect.MakeSlice(dt, len(b), len(b))
			reflect.Copy(out, reflect.ValueOf(b))
			dst.Set(out)
			return nil
		}
	}
	if sv.Kind() != reflect.Slice && sv.Kind() != reflect.Array {
		return mismatch(sv.Interface(), dt)
	}
	if sv.Kind() == reflect.Slice && sv.IsNil() {
		dst.SetZero()
		return nil
	}
	n := sv.Len()
	out := reflect.MakeSlice(dt, n, n)
	for i := 0; i < n; i++ {
		if err := Assign(out.Index(i), sv.Index(i).Interface()); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	dst.Set(out)
	return nil
}

func assignArray(dst, sv reflect.Value) error {
	if sv.Kind() != reflect.Slice && sv.Kind() != reflect.Array {
		return mismatch(sv.Interface(), dst.Type())
	}
	if sv.Len() != dst.Len() {
		return fmt.Errorf("%w: %d elements for %s", ErrOverflow, sv.Len(), dst.Type())
	}
	for i := 0; i < sv.Len(); i++ {
		if err := Assign(dst.Index(i), sv.Index(i).Interface()); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

func assignStruct(dst reflect.Value, src any) error {
	names, get, ok := fieldsOf(src)
	if !ok {
		return mismatch(src, dst.Type())
	}
	plan, err := PlanFor(dst.Type())
	if err != nil {
		return err
	}
	for _, name := range names {
		fi, ok := plan.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrNoField, dst.Type(), name)
		}
		fv, _ := FieldByIndex(dst, fi.Index, true)
		v, _ := get(name)
		if err := Assign(fv, v); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

func assignMap(dst reflect.Value, src any) error {
	dt := dst.Type()
	if dt.Key().Kind() != reflect.String {
		return mismatch(src, dt)
	}
	names, get, ok := fieldsOf(src)
	if !ok {
		return mismatch(src, dt)
	}
	out := reflect.MakeMapWithSize(dt, len(names))
	for _, name := range names {
		v, _ := get(name)
		ev := reflect.New(dt.Elem()).Elem()
		if err := Assign(ev, v); err != nil {
			return fmt.Errorf("key %s: %w", name, err)
		}
		out.SetMapIndex(reflect.ValueOf(name).Convert(dt.Key()), ev)
	}
	dst.Set(out)
	return nil
}

// fieldsOf exposes name-keyed sources uniformly: Fields implementations and
// maps keyed by strings.
func fieldsOf(src any) ([]string, func(string) (any, bool), bool) {
	if f, ok := src.(Fields); ok {
		return f.FieldNames(), f.Field, true
	}
	sv := reflect.ValueOf(src)
	if sv.Kind() != reflect.Map || sv.Type().Key().Kind() != reflect.String {
		return nil, nil, false
	}
	names := make([]string, 0, sv.Len())
	iter := sv.MapRange()
	for iter.Next() {
		names = append(names, iter.Key().String())
	}
	get := func(name string) (any, bool) {
		v := sv.MapIndex(reflect.ValueOf(name).Convert(sv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	}
	return names, get, true
}

func mismatch(src any, dt reflect.Type) error {
	return fmt.Errorf("%w: cannot assign %T to %s", ErrUnsupported, src, dt)
}
