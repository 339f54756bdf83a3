package schema

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/bufferplus/internal/common"
)

// Container is the capability a compiled schema needs from an object: read and
// write a field by name.
type Container interface {
	Get(name string) (any, error)
	Set(name string, v any) error
}

// Access adapts v to a Container. It accepts Containers, *Record,
// map[string]any, and structs or pointers to structs. Decoding needs a
// pointer to a struct so fields can be set.
func Access(v any) (Container, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil object", ErrFieldAccess)
	case Container:
		return x, nil
	case map[string]any:
		if x == nil {
			return nil, fmt.Errorf("%w: nil map", ErrFieldAccess)
		}
		return MapContainer(x), nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrFieldAccess, rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not an object", ErrFieldAccess, v)
	}
	return newStructContainer(rv)
}

// StructContainer binds schema fields to exported struct fields. Names match
// the `bufferplus` tag, then the Go name, then the Go name case-insensitively.
type StructContainer struct {
	v    reflect.Value
	plan *common.FieldPlan
}

func newStructContainer(rv reflect.Value) (*StructContainer, error) {
	plan, err := common.PlanFor(rv.Type())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFieldAccess, err)
	}
	return &StructContainer{v: rv, plan: plan}, nil
}

func (s *StructContainer) field(name string) (common.FieldInfo, error) {
	fi, ok := s.plan.Lookup(name)
	if !ok {
		return fi, fmt.Errorf("%w: %s has no field %q", ErrFieldAccess, s.v.Type(), name)
	}
	return fi, nil
}

func (s *StructContainer) Get(name string) (any, error) {
	fi, err := s.field(name)
	if err != nil {
		return nil, err
	}
	fv, ok := common.FieldByIndex(s.v, fi.Index, false)
	if !ok {
		// behind a nil embedded pointer
		return reflect.Zero(s.v.Type().FieldByIndex(fi.Index).Type).Interface(), nil
	}
	return fv.Interface(), nil
}

func (s *StructContainer) Set(name string, v any) error {
	if !s.v.CanSet() {
		return fmt.Errorf("%w: %s is not addressable, pass a pointer", ErrFieldAccess, s.v.Type())
	}
	fi, err := s.field(name)
	if err != nil {
		return err
	}
	fv, _ := common.FieldByIndex(s.v, fi.Index, true)
	if err := common.Assign(fv, v); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrFieldAccess, s.v.Type(), name, err)
	}
	return nil
}

// MapContainer stores fields in a plain map. Nested records are stored as
// plain maps as well.
type MapContainer map[string]any

func (m MapContainer) Get(name string) (any, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrFieldAccess, name)
	}
	return v, nil
}

func (m MapContainer) Set(name string, v any) error {
	m[name] = plain(v)
	return nil
}

var recordType = reflect.TypeFor[*Record]()

// plain turns records, and slices holding records, into maps.
func plain(v any) any {
	switch x := v.(type) {
	case *Record:
		return x.Map()
	case []*Record:
		out := make([]map[string]any, len(x))
		for i, r := range x {
			out[i] = r.Map()
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || !holdsRecords(rv.Type()) {
		return v
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = plain(rv.Index(i).Interface())
	}
	return out
}

func holdsRecords(t reflect.Type) bool {
	switch {
	case t == recordType:
		return true
	case t.Kind() == reflect.Slice:
		return holdsRecords(t.Elem())
	}
	return false
}
