package bufferplus

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rawbytedev/bufferplus/pkg/varint"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// Kind classifies the values a type entry produces.
type Kind uint8

const (
	KindCustom Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	default:
		return "custom"
	}
}

// DecodeFunc decodes one value starting at p.Position and reports how many
// bytes it consumed. It must not move the cursor itself.
type DecodeFunc func(b *Buffer, p Params) (v any, n int, err error)

// EncodeFunc writes v at the cursor (already at p.Position) and reports how
// many bytes it wrote.
type EncodeFunc func(b *Buffer, v any, p Params) (int, error)

// SizeFunc reports the encoded size of v without writing it.
type SizeFunc func(v any, enc encoding.Encoding) (int, error)

// TypeEntry describes how one type identifier is read, written and sized.
type TypeEntry struct {
	ID           string
	LittleEndian bool
	Kind         Kind
	// Width is the fixed encoded size, or 0 for variable-size types.
	Width int
	// LengthPrefixed types are not self-delimiting: inside arrays and
	// schemas they are written with a varuint byte count in front.
	LengthPrefixed bool
	// GoType is the type of the values Decode returns; nil means any.
	GoType reflect.Type

	Decode DecodeFunc
	Encode EncodeFunc
	Size   SizeFunc
}

// Read decodes a value at the resolved position and advances the cursor by
// the number of bytes consumed.
func (e *TypeEntry) Read(b *Buffer, opts ...Option) (any, error) {
	p := b.Sanitize(opts...)
	v, n, err := e.Decode(b, p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.ID, err)
	}
	b.pos = p.Position + n
	return v, nil
}

// Write encodes v at the resolved position and returns the bytes written.
func (e *TypeEntry) Write(b *Buffer, v any, opts ...Option) (int, error) {
	p := b.Sanitize(opts...)
	n, err := e.Encode(b, v, p)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", e.ID, err)
	}
	b.pos = p.Position + n
	return n, nil
}

// ByteLength reports the encoded size of v, without any length prefix.
func (e *TypeEntry) ByteLength(v any, enc encoding.Encoding) (int, error) {
	if e.Width > 0 {
		return e.Width, nil
	}
	n, err := e.Size(v, enc)
	if err != nil {
		return 0, fmt.Errorf("size %s: %w", e.ID, err)
	}
	return n, nil
}

func (e *TypeEntry) validate() error {
	switch {
	case e == nil:
		return fmt.Errorf("%w: nil", ErrInvalidEntry)
	case e.ID == "":
		return fmt.Errorf("%w: empty identifier", ErrInvalidEntry)
	case e.Decode == nil || e.Encode == nil:
		return fmt.Errorf("%w: %s has no codec", ErrInvalidEntry, e.ID)
	case e.Width == 0 && e.Size == nil:
		return fmt.Errorf("%w: %s has neither width nor size function", ErrInvalidEntry, e.ID)
	}
	return nil
}

// Registry maps type identifiers to entries. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*TypeEntry
	ids     []string
}

// NewRegistry returns an empty registry. Most callers want NewDefaultRegistry
// or the shared Types().
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*TypeEntry)}
}

// NewDefaultRegistry returns a registry holding every builtin type.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range builtinEntries() {
		if _, err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds e. The first registration of an identifier wins; a later one
// is ignored and Register reports false.
func (r *Registry) Register(e *TypeEntry) (bool, error) {
	if err := e.validate(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; ok {
		Logger().Debug("type already registered, ignoring", zap.String("type", e.ID))
		return false, nil
	}
	r.entries[e.ID] = e
	r.ids = append(r.ids, e.ID)
	Logger().Debug("registered type",
		zap.String("type", e.ID),
		zap.Stringer("kind", e.Kind),
		zap.Int("width", e.Width))
	return true, nil
}

// Lookup returns the entry for id or ErrUnknownType.
func (r *Registry) Lookup(id string) (*TypeEntry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, id)
	}
	return e, nil
}

func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// IDs lists the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.ids...)
}

// Decode reads a value of type id from b.
func (r *Registry) Decode(id string, b *Buffer, opts ...Option) (any, error) {
	e, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return e.Read(b, opts...)
}

// Encode writes v to b as type id.
func (r *Registry) Encode(id string, b *Buffer, v any, opts ...Option) (int, error) {
	e, err := r.Lookup(id)
	if err != nil {
		return 0, err
	}
	return e.Write(b, v, opts...)
}

// ByteLength reports the encoded size of v as type id.
func (r *Registry) ByteLength(id string, v any, enc encoding.Encoding) (int, error) {
	e, err := r.Lookup(id)
	if err != nil {
		return 0, err
	}
	return e.ByteLength(v, enc)
}

// CustomDecoder reads one value at the cursor through the buffer's own
// methods.
type CustomDecoder func(b *Buffer) (any, error)

// CustomEncoder writes v at the cursor through the buffer's own methods.
type CustomEncoder func(b *Buffer, v any) error

// CustomSizer reports the encoded size of v.
type CustomSizer func(v any) int

// CustomType builds an entry from cursor-based hooks. The bytes consumed and
// written are measured from the cursor movement.
func CustomType(id string, decode CustomDecoder, encode CustomEncoder, size CustomSizer) *TypeEntry {
	e := &TypeEntry{ID: id, Kind: KindCustom}
	if decode != nil {
		e.Decode = func(b *Buffer, p Params) (any, int, error) {
			v, err := decode(b)
			return v, b.pos - p.Position, err
		}
	}
	if encode != nil {
		e.Encode = func(b *Buffer, v any, p Params) (int, error) {
			err := encode(b, v)
			return b.pos - p.Position, err
		}
	}
	if size != nil {
		e.Size = func(v any, _ encoding.Encoding) (int, error) { return size(v), nil }
	}
	return e
}

var defaultTypes = NewDefaultRegistry()

// Types returns the process-wide registry. It is fully populated before any
// caller can observe it.
func Types() *Registry { return defaultTypes }

// RegisterCustomType adds a custom type to Types().
func RegisterCustomType(id string, decode CustomDecoder, encode CustomEncoder, size CustomSizer) (bool, error) {
	return defaultTypes.Register(CustomType(id, decode, encode, size))
}

// ReadType reads a value of the registered type id.
func (b *Buffer) ReadType(id string, opts ...Option) (any, error) {
	return defaultTypes.Decode(id, b, opts...)
}

// WriteType writes v as the registered type id.
func (b *Buffer) WriteType(id string, v any, opts ...Option) (int, error) {
	return defaultTypes.Encode(id, b, v, opts...)
}

// ByteLength reports the encoded size of v as the registered type id.
func ByteLength(id string, v any, enc encoding.Encoding) (int, error) {
	return defaultTypes.ByteLength(id, v, enc)
}

// ReadValue reads one self-delimiting value of type e: length-prefixed types
// are read as a varuint byte count plus payload.
func (b *Buffer) ReadValue(e *TypeEntry, opts ...Option) (any, error) {
	if !e.LengthPrefixed {
		return e.Read(b, opts...)
	}
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.ID, err)
	}
	v, err := e.Read(b, Length(n), Using(p.Encoding), forceIf(p.Force))
	b.unread(p.Position, err)
	return v, err
}

// WriteValue is the inverse of ReadValue.
func (b *Buffer) WriteValue(e *TypeEntry, v any, opts ...Option) (int, error) {
	if !e.LengthPrefixed {
		return e.Write(b, v, opts...)
	}
	p := b.Sanitize(opts...)
	size, err := e.ByteLength(v, p.Encoding)
	if err != nil {
		return 0, err
	}
	b.WriteVarUint(uint32(size))
	n, err := e.Write(b, v, Using(p.Encoding))
	if err != nil {
		b.pos = p.Position
		return 0, err
	}
	return varint.ByteLength(uint32(size)) + n, nil
}
