package schema

import (
	"fmt"

	"github.com/rawbytedev/bufferplus/internal/common"
	"gopkg.in/yaml.v3"
)

// Record is an ordered name-keyed object. Decoding nested objects produces
// Records, and a Record keeps the schema's field order when printed as YAML.
type Record struct {
	keys   []string
	values map[string]any
}

var (
	_ Container     = (*Record)(nil)
	_ common.Fields = (*Record)(nil)
)

func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (any, error) {
	v, ok := r.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrFieldAccess, name)
	}
	return v, nil
}

// Set stores v under name, appending name to the key order if it is new.
func (r *Record) Set(name string, v any) error {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
	return nil
}

// With is Set for building records in code.
func (r *Record) With(name string, v any) *Record {
	_ = r.Set(name, v)
	return r
}

func (r *Record) Len() int { return len(r.keys) }

func (r *Record) Keys() []string { return append([]string(nil), r.keys...) }

func (r *Record) FieldNames() []string { return r.keys }

func (r *Record) Field(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Map returns the record as a plain map, converting nested records too.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		m[k] = plain(r.values[k])
	}
	return m
}

// MarshalYAML writes the record as a mapping in key order.
func (r *Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range r.keys {
		var val yaml.Node
		if err := val.Encode(r.values[k]); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping, keeping document order. Nested mappings
// become Records and sequences become []any.
func (r *Record) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	r.keys, r.values = nil, make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		v, err := yamlValue(n.Content[i+1])
		if err != nil {
			return err
		}
		_ = r.Set(n.Content[i].Value, v)
	}
	return nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		child := NewRecord()
		if err := child.UnmarshalYAML(n); err != nil {
			return nil, err
		}
		return child, nil
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
