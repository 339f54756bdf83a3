// Package varint implements the base-128 variable-length integer encoding used
// for counts, lengths and the varint/varuint types.
//
// Each byte carries 7 value bits, least-significant group first; the high bit
// is set on every byte except the last. Signed values are zig-zag mapped before
// encoding so small negative numbers stay short:
//
//	0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, 2 -> 4, ...
package varint

import (
	"errors"
	"fmt"
)

// MaxLen32 is the longest encoding of a 32-bit value.
const MaxLen32 = 5

// ErrMalformed is returned when the input is truncated, the continuation chain
// runs past MaxLen32 bytes, or the value does not fit in 32 bits.
var ErrMalformed = errors.New("malformed varint")

// AppendUnsigned appends the encoding of v to dst.
func AppendUnsigned(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// EncodeUnsigned returns the encoding of v.
func EncodeUnsigned(v uint32) []byte {
	var scratch [MaxLen32]byte
	return AppendUnsigned(scratch[:0], v)
}

// DecodeUnsigned decodes a value from the start of b and reports how many bytes
// it consumed.
func DecodeUnsigned(b []byte) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	// fast path, 0-127
	if b[0] < 0x80 {
		return uint32(b[0]), 1, nil
	}
	var x uint32
	var s uint
	for i, c := range b {
		if i == MaxLen32 {
			return 0, 0, fmt.Errorf("%w: longer than %d bytes", ErrMalformed, MaxLen32)
		}
		if i == MaxLen32-1 && c > 0x0F {
			// only 4 value bits remain in the fifth byte
			return 0, 0, fmt.Errorf("%w: overflows 32 bits", ErrMalformed)
		}
		x |= uint32(c&0x7F) << s
		if c&0x80 == 0 {
			return x, i + 1, nil
		}
		s += 7
	}
	return 0, 0, fmt.Errorf("%w: truncated after %d bytes", ErrMalformed, len(b))
}

// ZigZag maps a signed value onto the unsigned range.
func ZigZag(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// UnZigZag inverts ZigZag.
func UnZigZag(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// AppendSigned appends the zig-zag encoding of v to dst.
func AppendSigned(dst []byte, v int32) []byte {
	return AppendUnsigned(dst, ZigZag(v))
}

// EncodeSigned returns the zig-zag encoding of v.
func EncodeSigned(v int32) []byte {
	return EncodeUnsigned(ZigZag(v))
}

// DecodeSigned decodes a zig-zag value from the start of b.
func DecodeSigned(b []byte) (int32, int, error) {
	u, n, err := DecodeUnsigned(b)
	if err != nil {
		return 0, 0, err
	}
	return UnZigZag(u), n, nil
}

// ByteLength reports how many bytes EncodeUnsigned(v) would produce.
func ByteLength(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// SignedByteLength reports how many bytes EncodeSigned(v) would produce.
func SignedByteLength(v int32) int {
	return ByteLength(ZigZag(v))
}
