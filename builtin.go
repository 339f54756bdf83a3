package bufferplus

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/rawbytedev/bufferplus/internal/common"
	"github.com/rawbytedev/bufferplus/pkg/varint"
	"golang.org/x/text/encoding"
)

// Builtin type identifiers.
const (
	TypeBool      = "bool"
	TypeInt8      = "int8"
	TypeUint8     = "uint8"
	TypeInt16BE   = "int16be"
	TypeInt16LE   = "int16le"
	TypeUint16BE  = "uint16be"
	TypeUint16LE  = "uint16le"
	TypeInt32BE   = "int32be"
	TypeInt32LE   = "int32le"
	TypeUint32BE  = "uint32be"
	TypeUint32LE  = "uint32le"
	TypeInt64BE   = "int64be"
	TypeInt64LE   = "int64le"
	TypeUint64BE  = "uint64be"
	TypeUint64LE  = "uint64le"
	TypeFloat32BE = "float32be"
	TypeFloat32LE = "float32le"
	TypeFloat64BE = "float64be"
	TypeFloat64LE = "float64le"
	TypeVarInt    = "varint"
	TypeVarUint   = "varuint"
	TypeString    = "string"
	TypeBuffer    = "buffer"
)

// fixedCodec converts between a value and its fixed-width encoding.
type fixedCodec struct {
	kind   Kind
	width  int
	goType reflect.Type
	get    func(raw []byte, order binary.ByteOrder) any
	put    func(dst []byte, order binary.ByteOrder, v any) error
}

func fixedEntry(id string, order binary.ByteOrder, c fixedCodec) *TypeEntry {
	return &TypeEntry{
		ID:           id,
		LittleEndian: order == binary.LittleEndian,
		Kind:         c.kind,
		Width:        c.width,
		GoType:       c.goType,
		Decode: func(b *Buffer, p Params) (any, int, error) {
			raw, err := b.bytesAt(p.Position, c.width, p.Force)
			if err != nil {
				return nil, 0, err
			}
			return c.get(raw, order), c.width, nil
		},
		Encode: func(b *Buffer, v any, p Params) (int, error) {
			var scratch [8]byte
			if err := c.put(scratch[:c.width], order, v); err != nil {
				return 0, err
			}
			b.put(scratch[:c.width])
			return c.width, nil
		},
	}
}

func builtinEntries() []*TypeEntry {
	be, le := binary.BigEndian, binary.LittleEndian
	return []*TypeEntry{
		fixedEntry(TypeBool, le, boolCodec),
		fixedEntry(TypeInt8, le, intCodec(1)),
		fixedEntry(TypeUint8, le, uintCodec(1)),
		fixedEntry(TypeInt16BE, be, intCodec(2)),
		fixedEntry(TypeInt16LE, le, intCodec(2)),
		fixedEntry(TypeUint16BE, be, uintCodec(2)),
		fixedEntry(TypeUint16LE, le, uintCodec(2)),
		fixedEntry(TypeInt32BE, be, intCodec(4)),
		fixedEntry(TypeInt32LE, le, intCodec(4)),
		fixedEntry(TypeUint32BE, be, uintCodec(4)),
		fixedEntry(TypeUint32LE, le, uintCodec(4)),
		fixedEntry(TypeInt64BE, be, intCodec(8)),
		fixedEntry(TypeInt64LE, le, intCodec(8)),
		fixedEntry(TypeUint64BE, be, uintCodec(8)),
		fixedEntry(TypeUint64LE, le, uintCodec(8)),
		fixedEntry(TypeFloat32BE, be, float32Codec),
		fixedEntry(TypeFloat32LE, le, float32Codec),
		fixedEntry(TypeFloat64BE, be, float64Codec),
		fixedEntry(TypeFloat64LE, le, float64Codec),
		varIntEntry(),
		varUintEntry(),
		stringEntry(),
		bufferEntry(),
	}
}

var boolCodec = fixedCodec{
	kind:   KindBool,
	width:  1,
	goType: reflect.TypeFor[bool](),
	get: func(raw []byte, _ binary.ByteOrder) any {
		return raw[0] != 0
	},
	put: func(dst []byte, _ binary.ByteOrder, v any) error {
		x, ok := common.ToBool(v)
		if !ok {
			return mismatch(v, "bool")
		}
		dst[0] = 0
		if x {
			dst[0] = 1
		}
		return nil
	},
}

var intTypes = map[int]reflect.Type{
	1: reflect.TypeFor[int8](),
	2: reflect.TypeFor[int16](),
	4: reflect.TypeFor[int32](),
	8: reflect.TypeFor[int64](),
}

var uintTypes = map[int]reflect.Type{
	1: reflect.TypeFor[uint8](),
	2: reflect.TypeFor[uint16](),
	4: reflect.TypeFor[uint32](),
	8: reflect.TypeFor[uint64](),
}

func intCodec(width int) fixedCodec {
	bits := uint(width * 8)
	lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
	if width == 8 {
		lo, hi = math.MinInt64, math.MaxInt64
	}
	return fixedCodec{
		kind:   KindInt,
		width:  width,
		goType: intTypes[width],
		get: func(raw []byte, order binary.ByteOrder) any {
			x := getUint(raw, order)
			switch width {
			case 1:
				return int8(x)
			case 2:
				return int16(x)
			case 4:
				return int32(x)
			default:
				return int64(x)
			}
		},
		put: func(dst []byte, order binary.ByteOrder, v any) error {
			x, ok := common.ToInt64(v)
			if !ok || x < lo || x > hi {
				return mismatch(v, fmt.Sprintf("int%d", bits))
			}
			putUint(dst, order, uint64(x))
			return nil
		},
	}
}

func uintCodec(width int) fixedCodec {
	bits := uint(width * 8)
	hi := uint64(math.MaxUint64)
	if width < 8 {
		hi = uint64(1)<<bits - 1
	}
	return fixedCodec{
		kind:   KindUint,
		width:  width,
		goType: uintTypes[width],
		get: func(raw []byte, order binary.ByteOrder) any {
			x := getUint(raw, order)
			switch width {
			case 1:
				return uint8(x)
			case 2:
				return uint16(x)
			case 4:
				return uint32(x)
			default:
				return x
			}
		},
		put: func(dst []byte, order binary.ByteOrder, v any) error {
			x, ok := common.ToUint64(v)
			if !ok || x > hi {
				return mismatch(v, fmt.Sprintf("uint%d", bits))
			}
			putUint(dst, order, x)
			return nil
		},
	}
}

// getUint and putUint are the single fixed-width integer layout shared by the
// registry entries and the typed accessors. len(raw) is 1, 2, 4 or 8.
func getUint(raw []byte, order binary.ByteOrder) uint64 {
	switch len(raw) {
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(order.Uint16(raw))
	case 4:
		return uint64(order.Uint32(raw))
	default:
		return order.Uint64(raw)
	}
}

// putUint stores the low len(dst) bytes of x.
func putUint(dst []byte, order binary.ByteOrder, x uint64) {
	switch len(dst) {
	case 1:
		dst[0] = byte(x)
	case 2:
		order.PutUint16(dst, uint16(x))
	case 4:
		order.PutUint32(dst, uint32(x))
	default:
		order.PutUint64(dst, x)
	}
}

var float32Codec = fixedCodec{
	kind:   KindFloat,
	width:  4,
	goType: reflect.TypeFor[float32](),
	get: func(raw []byte, order binary.ByteOrder) any {
		return math.Float32frombits(uint32(getUint(raw, order)))
	},
	put: func(dst []byte, order binary.ByteOrder, v any) error {
		if f, ok := v.(float32); ok {
			putUint(dst, order, uint64(math.Float32bits(f)))
			return nil
		}
		f, ok := common.ToFloat64(v)
		if !ok {
			return mismatch(v, "float32")
		}
		putUint(dst, order, uint64(math.Float32bits(float32(f))))
		return nil
	},
}

var float64Codec = fixedCodec{
	kind:   KindFloat,
	width:  8,
	goType: reflect.TypeFor[float64](),
	get: func(raw []byte, order binary.ByteOrder) any {
		return math.Float64frombits(getUint(raw, order))
	},
	put: func(dst []byte, order binary.ByteOrder, v any) error {
		f, ok := common.ToFloat64(v)
		if !ok {
			return mismatch(v, "float64")
		}
		putUint(dst, order, math.Float64bits(f))
		return nil
	},
}

func varIntEntry() *TypeEntry {
	return &TypeEntry{
		ID:     TypeVarInt,
		Kind:   KindInt,
		GoType: reflect.TypeFor[int32](),
		Decode: func(b *Buffer, p Params) (any, int, error) {
			return decodeVarint(b, p, varint.DecodeSigned)
		},
		Encode: func(b *Buffer, v any, _ Params) (int, error) {
			x, ok := common.ToInt64(v)
			if !ok || x < math.MinInt32 || x > math.MaxInt32 {
				return 0, mismatch(v, TypeVarInt)
			}
			raw := varint.EncodeSigned(int32(x))
			b.put(raw)
			return len(raw), nil
		},
		Size: func(v any, _ encoding.Encoding) (int, error) {
			x, ok := common.ToInt64(v)
			if !ok || x < math.MinInt32 || x > math.MaxInt32 {
				return 0, mismatch(v, TypeVarInt)
			}
			return varint.SignedByteLength(int32(x)), nil
		},
	}
}

func varUintEntry() *TypeEntry {
	return &TypeEntry{
		ID:     TypeVarUint,
		Kind:   KindUint,
		GoType: reflect.TypeFor[uint32](),
		Decode: func(b *Buffer, p Params) (any, int, error) {
			return decodeVarint(b, p, varint.DecodeUnsigned)
		},
		Encode: func(b *Buffer, v any, _ Params) (int, error) {
			x, ok := common.ToUint64(v)
			if !ok || x > math.MaxUint32 {
				return 0, mismatch(v, TypeVarUint)
			}
			raw := varint.EncodeUnsigned(uint32(x))
			b.put(raw)
			return len(raw), nil
		},
		Size: func(v any, _ encoding.Encoding) (int, error) {
			x, ok := common.ToUint64(v)
			if !ok || x > math.MaxUint32 {
				return 0, mismatch(v, TypeVarUint)
			}
			return varint.ByteLength(uint32(x)), nil
		},
	}
}

func decodeVarint[T int32 | uint32](b *Buffer, p Params, decode func([]byte) (T, int, error)) (any, int, error) {
	v, n, err := decode(b.buf[p.Position:])
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

// stringEntry reads Length bytes as text; the Length default is the rest of
// the buffer.
func stringEntry() *TypeEntry {
	return &TypeEntry{
		ID:             TypeString,
		Kind:           KindString,
		LengthPrefixed: true,
		GoType:         reflect.TypeFor[string](),
		Decode: func(b *Buffer, p Params) (any, int, error) {
			raw, err := b.bytesAt(p.Position, p.Length, p.Force)
			if err != nil {
				return nil, 0, err
			}
			s, err := decodeText(p.Encoding, raw)
			if err != nil {
				return nil, 0, err
			}
			return s, p.Length, nil
		},
		Encode: func(b *Buffer, v any, p Params) (int, error) {
			s, ok := common.ToString(v)
			if !ok {
				return 0, mismatch(v, TypeString)
			}
			raw, err := encodeText(p.Encoding, s)
			if err != nil {
				return 0, err
			}
			b.put(raw)
			return len(raw), nil
		},
		Size: func(v any, enc encoding.Encoding) (int, error) {
			s, ok := common.ToString(v)
			if !ok {
				return 0, mismatch(v, TypeString)
			}
			return textByteCount(enc, s)
		},
	}
}

func bufferEntry() *TypeEntry {
	return &TypeEntry{
		ID:             TypeBuffer,
		Kind:           KindBytes,
		LengthPrefixed: true,
		GoType:         reflect.TypeFor[[]byte](),
		Decode: func(b *Buffer, p Params) (any, int, error) {
			raw, err := b.bytesAt(p.Position, p.Length, p.Force)
			if err != nil {
				return nil, 0, err
			}
			out := make([]byte, len(raw))
			copy(out, raw)
			return out, p.Length, nil
		},
		Encode: func(b *Buffer, v any, _ Params) (int, error) {
			raw, ok := common.ToBytes(v)
			if !ok {
				return 0, mismatch(v, TypeBuffer)
			}
			b.put(raw)
			return len(raw), nil
		},
		Size: func(v any, _ encoding.Encoding) (int, error) {
			raw, ok := common.ToBytes(v)
			if !ok {
				return 0, mismatch(v, TypeBuffer)
			}
			return len(raw), nil
		},
	}
}

func mismatch(v any, id string) error {
	return fmt.Errorf("%w: %T(%v) as %s", ErrTypeMismatch, v, v, id)
}
