package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Node is the declarative form of a schema tree, as written in JSON or YAML:
//
//	type: object
//	order: [name, age]
//	properties:
//	  name: {type: string}
//	  age:  {type: uint8}
type Node struct {
	Type       string           `json:"type" yaml:"type"`
	Properties map[string]*Node `json:"properties,omitempty" yaml:"properties,omitempty"`
	Order      []string         `json:"order,omitempty" yaml:"order,omitempty"`
	Items      *Node            `json:"items,omitempty" yaml:"items,omitempty"`
}

// Reserved node types. Every other type names a registered type identifier.
const (
	TypeObject = "object"
	TypeArray  = "array"
)

// Prop is a named property, used to build object nodes in code.
type Prop struct {
	Name string
	Node *Node
}

// P pairs a property name with its node.
func P(name string, n *Node) Prop { return Prop{Name: name, Node: n} }

// Object builds an object node whose order is the order of props.
func Object(props ...Prop) *Node {
	n := &Node{Type: TypeObject, Properties: make(map[string]*Node, len(props))}
	for _, p := range props {
		n.Properties[p.Name] = p.Node
		n.Order = append(n.Order, p.Name)
	}
	return n
}

// Array builds an array node.
func Array(items *Node) *Node { return &Node{Type: TypeArray, Items: items} }

// Leaf builds a node for a registered type identifier.
func Leaf(typeID string) *Node { return &Node{Type: typeID} }

// ParseJSON decodes a schema tree from JSON.
func ParseJSON(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return &n, nil
}

// ParseYAML decodes a schema tree from YAML.
func ParseYAML(data []byte) (*Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return &n, nil
}

// File is a set of named schemas sharing a text encoding:
//
//	encoding: utf-8
//	schemas:
//	  person:
//	    type: object
//	    ...
type File struct {
	Encoding string           `yaml:"encoding,omitempty"`
	Schemas  map[string]*Node `yaml:"schemas"`
}

// ParseFile decodes a schema file.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if len(f.Schemas) == 0 {
		return nil, fmt.Errorf("%w: file declares no schemas", ErrSchema)
	}
	return &f, nil
}

// ReadFile reads and decodes the schema file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(data)
}
