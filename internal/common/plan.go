package common

import (
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag consulted for a field's schema name.
const TagName = "bufferplus"

// FieldPlan maps schema field names onto the exported fields of one struct type.
type FieldPlan struct {
	fields []FieldInfo
	byName map[string]int
	folded map[string]int
}

// FieldInfo locates one planned field.
type FieldInfo struct {
	Name  string
	Index []int
}

var (
	plansMu sync.RWMutex
	plans   = make(map[reflect.Type]*FieldPlan)
)

// PlanFor returns the cached plan for struct type t, building it on first use.
func PlanFor(t reflect.Type) (*FieldPlan, error) {
	if t.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}
	plansMu.RLock()
	if plan, ok := plans[t]; ok {
		plansMu.RUnlock()
		return plan, nil
	}
	plansMu.RUnlock()

	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check
	if plan, ok := plans[t]; ok {
		return plan, nil
	}

	plan := &FieldPlan{
		byName: make(map[string]int),
		folded: make(map[string]int),
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue // skip unexported and the embedding field itself
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		if _, dup := plan.byName[name]; dup {
			continue
		}
		plan.byName[name] = len(plan.fields)
		folded := strings.ToLower(name)
		if _, dup := plan.folded[folded]; !dup {
			plan.folded[folded] = len(plan.fields)
		}
		plan.fields = append(plan.fields, FieldInfo{Name: name, Index: sf.Index})
	}
	plans[t] = plan
	return plan, nil
}

// Lookup finds a field by exact name, then case-insensitively so that a schema
// field "serial" binds to a Go field "Serial".
func (p *FieldPlan) Lookup(name string) (FieldInfo, bool) {
	if i, ok := p.byName[name]; ok {
		return p.fields[i], true
	}
	if i, ok := p.folded[strings.ToLower(name)]; ok {
		return p.fields[i], true
	}
	return FieldInfo{}, false
}

// FieldByIndex walks index through v, allocating nil embedded pointers when
// alloc is set. It reports false if a nil pointer blocks the path.
func FieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}
