package bufferplus

import (
	"fmt"

	"github.com/rawbytedev/bufferplus/pkg/varint"
	"golang.org/x/text/encoding"
)

// ReadVarInt reads a zig-zag varint.
func (b *Buffer) ReadVarInt(opts ...Option) (int32, error) {
	u, err := b.ReadVarUint(opts...)
	return varint.UnZigZag(u), err
}

// WriteVarInt writes v as a zig-zag varint.
func (b *Buffer) WriteVarInt(v int32, opts ...Option) *Buffer {
	return b.WriteVarUint(varint.ZigZag(v), opts...)
}

// ReadVarUint reads an unsigned varint.
func (b *Buffer) ReadVarUint(opts ...Option) (uint32, error) {
	p := b.Sanitize(opts...)
	v, n, err := varint.DecodeUnsigned(b.buf[p.Position:])
	if err != nil {
		return 0, fmt.Errorf("at %d: %w", p.Position, err)
	}
	b.pos = p.Position + n
	return v, nil
}

// WriteVarUint writes v as an unsigned varint.
func (b *Buffer) WriteVarUint(v uint32, opts ...Option) *Buffer {
	var s [varint.MaxLen32]byte
	return b.writeFixed(varint.AppendUnsigned(s[:0], v), opts)
}

// MaxPadding bounds how far past the end a forced count may reach, and so how
// many zero bytes one packed read on a lenient buffer can add.
var MaxPadding = 1 << 24

// readCount reads an element or byte count and rejects counts that cannot fit
// in what is left of a strict buffer. A rejected count is not consumed.
func (b *Buffer) readCount(p Params) (int, error) {
	n, err := b.ReadVarUint(At(p.Position))
	if err != nil {
		return 0, err
	}
	left := b.Remaining()
	if over := int(n) - left; over > 0 && (!p.Force || over > MaxPadding) {
		b.pos = p.Position
		return 0, fmt.Errorf("%w: count %d exceeds %d remaining bytes", ErrOutOfRange, n, left)
	}
	return int(n), nil
}

// unread puts the cursor back at start when a packed read fails after its
// count was consumed.
func (b *Buffer) unread(start int, err error) {
	if err != nil {
		b.pos = start
	}
}

// ReadVarIntArray reads count consecutive zig-zag varints.
func (b *Buffer) ReadVarIntArray(count int, opts ...Option) ([]int32, error) {
	p := b.Sanitize(opts...)
	out := make([]int32, 0, min(max(count, 0), b.Remaining()))
	for range count {
		v, err := b.ReadVarInt()
		if err != nil {
			b.pos = p.Position
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadVarIntPackedArray reads a varuint count followed by that many varints.
func (b *Buffer) ReadVarIntPackedArray(opts ...Option) ([]int32, error) {
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, err
	}
	out, err := b.ReadVarIntArray(n)
	b.unread(p.Position, err)
	return out, err
}

func (b *Buffer) WriteVarIntArray(vs []int32, opts ...Option) *Buffer {
	b.Sanitize(opts...)
	for _, v := range vs {
		b.WriteVarInt(v)
	}
	return b
}

func (b *Buffer) WriteVarIntPackedArray(vs []int32, opts ...Option) *Buffer {
	b.WriteVarUint(uint32(len(vs)), opts...)
	return b.WriteVarIntArray(vs)
}

// ReadVarUintArray reads count consecutive unsigned varints.
func (b *Buffer) ReadVarUintArray(count int, opts ...Option) ([]uint32, error) {
	p := b.Sanitize(opts...)
	out := make([]uint32, 0, min(max(count, 0), b.Remaining()))
	for range count {
		v, err := b.ReadVarUint()
		if err != nil {
			b.pos = p.Position
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *Buffer) ReadVarUintPackedArray(opts ...Option) ([]uint32, error) {
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, err
	}
	out, err := b.ReadVarUintArray(n)
	b.unread(p.Position, err)
	return out, err
}

func (b *Buffer) WriteVarUintArray(vs []uint32, opts ...Option) *Buffer {
	b.Sanitize(opts...)
	for _, v := range vs {
		b.WriteVarUint(v)
	}
	return b
}

func (b *Buffer) WriteVarUintPackedArray(vs []uint32, opts ...Option) *Buffer {
	b.WriteVarUint(uint32(len(vs)), opts...)
	return b.WriteVarUintArray(vs)
}

// ReadString decodes Length bytes (default: the rest of the buffer) as text.
func (b *Buffer) ReadString(opts ...Option) (string, error) {
	p := b.Sanitize(opts...)
	raw, err := b.bytesAt(p.Position, p.Length, p.Force)
	if err != nil {
		return "", err
	}
	s, err := decodeText(p.Encoding, raw)
	if err != nil {
		return "", err
	}
	b.pos = p.Position + p.Length
	return s, nil
}

// WriteString encodes s and returns the number of bytes written.
func (b *Buffer) WriteString(s string, opts ...Option) (int, error) {
	p := b.Sanitize(opts...)
	raw, err := encodeText(p.Encoding, s)
	if err != nil {
		return 0, err
	}
	b.put(raw)
	return len(raw), nil
}

// ReadPackedString reads a varuint byte count followed by that many encoded
// bytes.
func (b *Buffer) ReadPackedString(opts ...Option) (string, error) {
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return "", err
	}
	str, err := b.ReadString(Length(n), Using(p.Encoding), forceIf(p.Force))
	b.unread(p.Position, err)
	return str, err
}

// WritePackedString writes the encoded byte count of s, then s. The prefix
// counts bytes, not characters. It returns the total bytes written.
func (b *Buffer) WritePackedString(s string, opts ...Option) (int, error) {
	p := b.Sanitize(opts...)
	raw, err := encodeText(p.Encoding, s)
	if err != nil {
		return 0, err
	}
	start := b.pos
	b.WriteVarUint(uint32(len(raw)))
	b.put(raw)
	return b.pos - start, nil
}

// ReadStringArray reads count packed strings.
func (b *Buffer) ReadStringArray(count int, opts ...Option) ([]string, error) {
	p := b.Sanitize(opts...)
	out := make([]string, 0, min(max(count, 0), b.Remaining()))
	for range count {
		s, err := b.ReadPackedString(Using(p.Encoding), forceIf(p.Force))
		if err != nil {
			b.pos = p.Position
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ReadPackedStringArray reads a varuint count followed by that many packed
// strings.
func (b *Buffer) ReadPackedStringArray(opts ...Option) ([]string, error) {
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, err
	}
	out, err := b.ReadStringArray(n, Using(p.Encoding), forceIf(p.Force))
	b.unread(p.Position, err)
	return out, err
}

func (b *Buffer) WritePackedStringArray(ss []string, opts ...Option) (int, error) {
	p := b.Sanitize(opts...)
	start := b.pos
	b.WriteVarUint(uint32(len(ss)))
	for _, s := range ss {
		if _, err := b.WritePackedString(s, Using(p.Encoding)); err != nil {
			return b.pos - start, err
		}
	}
	return b.pos - start, nil
}

// ReadExact returns a copy of the next Length bytes (default: the rest).
func (b *Buffer) ReadExact(opts ...Option) ([]byte, error) {
	p := b.Sanitize(opts...)
	raw, err := b.bytesAt(p.Position, p.Length, p.Force)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	b.pos = p.Position + p.Length
	return out, nil
}

// WriteBytes writes p verbatim.
func (b *Buffer) WriteBytes(p []byte, opts ...Option) *Buffer {
	return b.writeFixed(p, opts)
}

// ReadPackedBytes reads a varuint length followed by that many bytes.
func (b *Buffer) ReadPackedBytes(opts ...Option) ([]byte, error) {
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, err
	}
	out, err := b.ReadExact(Length(n), forceIf(p.Force))
	b.unread(p.Position, err)
	return out, err
}

func (b *Buffer) WritePackedBytes(p []byte, opts ...Option) *Buffer {
	b.WriteVarUint(uint32(len(p)), opts...)
	b.put(p)
	return b
}

func (b *Buffer) ReadPackedBytesArray(opts ...Option) ([][]byte, error) {
	p := b.Sanitize(opts...)
	n, err := b.readCount(p)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, min(n, b.Remaining()))
	for range n {
		v, err := b.ReadPackedBytes(forceIf(p.Force))
		if err != nil {
			b.pos = p.Position
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *Buffer) WritePackedBytesArray(ps [][]byte, opts ...Option) *Buffer {
	b.WriteVarUint(uint32(len(ps)), opts...)
	for _, p := range ps {
		b.WritePackedBytes(p)
	}
	return b
}

// ByteLengthPackedString reports the size of s written by WritePackedString.
func ByteLengthPackedString(s string, enc encoding.Encoding) (int, error) {
	n, err := textByteCount(enc, s)
	if err != nil {
		return 0, err
	}
	return varint.ByteLength(uint32(n)) + n, nil
}

// ByteLengthPackedBytes reports the size of p written by WritePackedBytes.
func ByteLengthPackedBytes(p []byte) int {
	return varint.ByteLength(uint32(len(p))) + len(p)
}

func forceIf(on bool) Option {
	return func(p *Params) { p.Force = p.Force || on }
}
