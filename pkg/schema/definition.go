package schema

import (
	"fmt"
	"slices"

	"github.com/rawbytedev/bufferplus"
)

// Kind tells the three definition shapes apart.
type Kind uint8

const (
	LeafKind Kind = iota
	ObjectKind
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case ObjectKind:
		return TypeObject
	case ArrayKind:
		return TypeArray
	default:
		return "leaf"
	}
}

// Definition is a validated schema tree. Object properties keep their
// declared order; that order is the wire order.
type Definition struct {
	Name       string
	Kind       Kind
	Type       string
	Properties []*Definition
	Items      *Definition
}

// Fields lists the property names of an object definition in wire order.
func (d *Definition) Fields() []string {
	names := make([]string, len(d.Properties))
	for i, p := range d.Properties {
		names[i] = p.Name
	}
	return names
}

// Parse validates n against the type identifiers in types and returns the
// definition tree. A nil types uses bufferplus.Types().
func Parse(name string, n *Node, types *bufferplus.Registry) (*Definition, error) {
	if types == nil {
		types = bufferplus.Types()
	}
	return parse(name, name, n, types)
}

func parse(name, path string, n *Node, types *bufferplus.Registry) (*Definition, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: %s: missing definition", ErrSchema, path)
	}
	switch n.Type {
	case TypeObject:
		return parseObject(name, path, n, types)
	case TypeArray:
		if n.Items == nil {
			return nil, fmt.Errorf("%w: %s: array without items", ErrSchema, path)
		}
		items, err := parse("", path+"[]", n.Items, types)
		if err != nil {
			return nil, err
		}
		return &Definition{Name: name, Kind: ArrayKind, Type: TypeArray, Items: items}, nil
	case "":
		return nil, fmt.Errorf("%w: %s: missing type", ErrSchema, path)
	}
	if _, err := types.Lookup(n.Type); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSchema, path, err)
	}
	return &Definition{Name: name, Kind: LeafKind, Type: n.Type}, nil
}

func parseObject(name, path string, n *Node, types *bufferplus.Registry) (*Definition, error) {
	if len(n.Order) != len(n.Properties) {
		return nil, fmt.Errorf("%w: %s: order lists %d fields, properties has %d",
			ErrSchema, path, len(n.Order), len(n.Properties))
	}
	def := &Definition{Name: name, Kind: ObjectKind, Type: TypeObject}
	seen := make(map[string]bool, len(n.Order))
	for _, field := range n.Order {
		if seen[field] {
			return nil, fmt.Errorf("%w: %s: %q listed twice in order", ErrSchema, path, field)
		}
		seen[field] = true
		child, ok := n.Properties[field]
		if !ok {
			return nil, fmt.Errorf("%w: %s: order names %q, which has no property", ErrSchema, path, field)
		}
		prop, err := parse(field, joinPath(path, field), child, types)
		if err != nil {
			return nil, err
		}
		def.Properties = append(def.Properties, prop)
	}
	return def, nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// Node converts d back to its declarative form.
func (d *Definition) Node() *Node {
	switch d.Kind {
	case ObjectKind:
		props := make([]Prop, len(d.Properties))
		for i, p := range d.Properties {
			props[i] = P(p.Name, p.Node())
		}
		return Object(props...)
	case ArrayKind:
		return Array(d.Items.Node())
	default:
		return Leaf(d.Type)
	}
}

// Equal reports whether two definitions describe the same wire layout.
func (d *Definition) Equal(o *Definition) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Name != o.Name || d.Kind != o.Kind || d.Type != o.Type {
		return false
	}
	if !d.Items.Equal(o.Items) {
		return false
	}
	return slices.EqualFunc(d.Properties, o.Properties, (*Definition).Equal)
}
