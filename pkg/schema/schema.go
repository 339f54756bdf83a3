package schema

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/bufferplus"
	"github.com/rawbytedev/bufferplus/internal/common"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// EncodeOp writes one top-level field of c to b.
type EncodeOp func(b *bufferplus.Buffer, c Container) error

// DecodeOp reads one top-level field from b into c.
type DecodeOp func(b *bufferplus.Buffer, c Container) error

// Schema is a compiled definition: one encode op and one decode op per
// top-level field, in field order.
type Schema struct {
	Name       string
	Definition *Definition
	Encoding   encoding.Encoding

	encodeOps []EncodeOp
	decodeOps []DecodeOp
}

// MaxArrayLength bounds the element count a decoded array may declare. It
// also bounds how far a lenient buffer can be zero-padded by one array.
var MaxArrayLength = 1 << 24

// codec handles a single value of some definition. minSize is the fewest
// bytes one encoded value can take; it is 0 for empty objects and for custom
// types of unknown width.
type codec struct {
	goType  reflect.Type
	minSize int
	encode  func(b *bufferplus.Buffer, v any) error
	decode  func(b *bufferplus.Buffer) (any, error)
}

var anyType = reflect.TypeFor[any]()

func minWireSize(e *bufferplus.TypeEntry) int {
	switch {
	case e.Width > 0:
		return e.Width
	case e.LengthPrefixed, e.ID == bufferplus.TypeVarInt, e.ID == bufferplus.TypeVarUint:
		return 1
	}
	return 0
}

// Compile turns an object definition into a Schema. Text fields use enc, or
// the buffer's own encoding when enc is nil.
func Compile(name string, def *Definition, types *bufferplus.Registry, enc encoding.Encoding) (*Schema, error) {
	if def == nil || def.Kind != ObjectKind {
		return nil, fmt.Errorf("%w: %s: root must be an object", ErrSchema, name)
	}
	if types == nil {
		types = bufferplus.Types()
	}
	c := compiler{types: types, enc: enc}
	s := &Schema{Name: name, Definition: def, Encoding: enc}
	for _, prop := range def.Properties {
		cd, err := c.value(prop, joinPath(name, prop.Name))
		if err != nil {
			return nil, err
		}
		s.encodeOps = append(s.encodeOps, encodeField(name, prop.Name, cd))
		s.decodeOps = append(s.decodeOps, decodeField(name, prop.Name, cd))
	}
	Logger().Debug("compiled schema",
		zap.String("schema", name),
		zap.Int("fields", len(def.Properties)),
		zap.Int("ops", len(s.encodeOps)+len(s.decodeOps)))
	return s, nil
}

func encodeField(schema, field string, cd codec) EncodeOp {
	return func(b *bufferplus.Buffer, c Container) error {
		v, err := c.Get(field)
		if err != nil {
			return fmt.Errorf("%s: %w", schema, err)
		}
		if err := cd.encode(b, v); err != nil {
			return fmt.Errorf("%s.%s: %w", schema, field, err)
		}
		return nil
	}
}

func decodeField(schema, field string, cd codec) DecodeOp {
	return func(b *bufferplus.Buffer, c Container) error {
		v, err := cd.decode(b)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", schema, field, err)
		}
		if err := c.Set(field, v); err != nil {
			return fmt.Errorf("%s: %w", schema, err)
		}
		return nil
	}
}

type compiler struct {
	types *bufferplus.Registry
	enc   encoding.Encoding
}

func (c compiler) opts() []bufferplus.Option {
	if c.enc == nil {
		return nil
	}
	return []bufferplus.Option{bufferplus.Using(c.enc)}
}

func (c compiler) value(def *Definition, path string) (codec, error) {
	switch def.Kind {
	case ObjectKind:
		return c.object(def, path)
	case ArrayKind:
		return c.array(def, path)
	}
	entry, err := c.types.Lookup(def.Type)
	if err != nil {
		return codec{}, fmt.Errorf("%w: %s: %w", ErrSchema, path, err)
	}
	goType := entry.GoType
	if goType == nil {
		goType = anyType
	}
	opts := c.opts()
	return codec{
		goType:  goType,
		minSize: minWireSize(entry),
		encode: func(b *bufferplus.Buffer, v any) error {
			_, err := b.WriteValue(entry, v, opts...)
			return err
		},
		decode: func(b *bufferplus.Buffer) (any, error) {
			return b.ReadValue(entry, opts...)
		},
	}, nil
}

// array is a varuint element count followed by the elements.
func (c compiler) array(def *Definition, path string) (codec, error) {
	item, err := c.value(def.Items, path+"[]")
	if err != nil {
		return codec{}, err
	}
	sliceType := reflect.SliceOf(item.goType)
	return codec{
		goType:  sliceType,
		minSize: 1,
		encode: func(b *bufferplus.Buffer, v any) error {
			rv := reflect.ValueOf(v)
			switch {
			case v == nil:
				b.WriteVarUint(0)
				return nil
			case rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array:
				return fmt.Errorf("%w: %T is not an array", bufferplus.ErrTypeMismatch, v)
			}
			b.WriteVarUint(uint32(rv.Len()))
			for i := range rv.Len() {
				if err := item.encode(b, rv.Index(i).Interface()); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			return nil
		},
		decode: func(b *bufferplus.Buffer) (any, error) {
			n, err := b.ReadVarUint()
			if err != nil {
				return nil, err
			}
			if int64(n) > int64(MaxArrayLength) {
				return nil, fmt.Errorf("%w: %d elements exceeds limit %d", bufferplus.ErrOutOfRange, n, MaxArrayLength)
			}
			if !b.Lenient() && int64(n)*int64(item.minSize) > int64(b.Remaining()) {
				return nil, fmt.Errorf("%w: %d elements, %d bytes left", bufferplus.ErrOutOfRange, n, b.Remaining())
			}
			out := reflect.MakeSlice(sliceType, 0, min(int(n), b.Remaining()))
			for i := range int(n) {
				v, err := item.decode(b)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", i, err)
				}
				ev := reflect.New(item.goType).Elem()
				if err := common.Assign(ev, v); err != nil {
					return nil, fmt.Errorf("[%d]: %w", i, err)
				}
				out = reflect.Append(out, ev)
			}
			return out.Interface(), nil
		},
	}, nil
}

// object is the concatenation of its properties; it decodes to a *Record.
func (c compiler) object(def *Definition, path string) (codec, error) {
	props := make([]codec, len(def.Properties))
	size := 0
	for i, p := range def.Properties {
		cd, err := c.value(p, joinPath(path, p.Name))
		if err != nil {
			return codec{}, err
		}
		props[i] = cd
		size += cd.minSize
	}
	return codec{
		goType:  recordType,
		minSize: size,
		encode: func(b *bufferplus.Buffer, v any) error {
			obj, err := Access(v)
			if err != nil {
				return err
			}
			for i, p := range def.Properties {
				fv, err := obj.Get(p.Name)
				if err != nil {
					return err
				}
				if err := props[i].encode(b, fv); err != nil {
					return fmt.Errorf("%s: %w", p.Name, err)
				}
			}
			return nil
		},
		decode: func(b *bufferplus.Buffer) (any, error) {
			rec := NewRecord()
			for i, p := range def.Properties {
				v, err := props[i].decode(b)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", p.Name, err)
				}
				if err := rec.Set(p.Name, v); err != nil {
					return nil, err
				}
			}
			return rec, nil
		},
	}, nil
}

// Fields lists the top-level field names in wire order.
func (s *Schema) Fields() []string { return s.Definition.Fields() }

// Encode writes obj at the resolved position and seals the buffer there.
func (s *Schema) Encode(b *bufferplus.Buffer, obj any, opts ...bufferplus.Option) error {
	c, err := Access(obj)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	b.Sanitize(opts...)
	for _, op := range s.encodeOps {
		if err := op(b, c); err != nil {
			return err
		}
	}
	b.Seal()
	return nil
}

// Decode reads a record at the resolved position into obj and returns obj.
// obj may be a pointer to a struct, a map[string]any, a *Record, or any
// Container.
func (s *Schema) Decode(b *bufferplus.Buffer, obj any, opts ...bufferplus.Option) (any, error) {
	c, err := Access(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	b.Sanitize(opts...)
	for _, op := range s.decodeOps {
		if err := op(b, c); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// Marshal encodes obj into a fresh byte slice.
func (s *Schema) Marshal(obj any) ([]byte, error) {
	b := bufferplus.New(0)
	if err := s.Encode(b, obj); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal decodes data into obj.
func (s *Schema) Unmarshal(data []byte, obj any) error {
	_, err := s.Decode(bufferplus.From(data), obj)
	return err
}

// ByteLength reports the encoded size of obj.
func (s *Schema) ByteLength(obj any) (int, error) {
	b := bufferplus.New(0)
	if err := s.Encode(b, obj); err != nil {
		return 0, err
	}
	return b.Len(), nil
}
