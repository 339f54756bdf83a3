// Package bufferplus implements a growable byte buffer with a read/write
// cursor, typed little- and big-endian primitive access, base-128 varints,
// encoded text, and length-prefixed ("packed") strings, blobs and arrays.
//
// Every read and write resolves its options against the cursor with one rule
// (see Sanitize): an explicit position seeks there first, extending the
// logical length with zero bytes when it lies past the end. Writes grow the
// buffer as needed. Reads past the logical end fail with ErrOutOfRange unless
// the buffer is lenient or the call passes Force, in which case the missing
// bytes read as zero.
//
// A Buffer is not safe for concurrent use.
package bufferplus

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
)

// DefaultCapacity is the capacity used by New when none is given.
const DefaultCapacity = 4096

// Buffer is a byte region with a cursor. len(buf) is the logical length and
// cap(buf) the capacity; bytes in [len, cap) are never observable.
type Buffer struct {
	buf     []byte
	pos     int
	enc     encoding.Encoding
	lenient bool
}

// New returns an empty buffer with room for capacity bytes. A non-positive
// capacity selects DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{buf: make([]byte, 0, capacity), enc: DefaultEncoding}
}

// From returns a buffer holding a copy of p, cursor at 0.
func From(p []byte) *Buffer {
	buf := make([]byte, len(p))
	copy(buf, p)
	return &Buffer{buf: buf, enc: DefaultEncoding}
}

// FromString returns a buffer holding s encoded with enc (UTF-8 when nil).
// The buffer's default encoding becomes enc.
func FromString(s string, enc encoding.Encoding) (*Buffer, error) {
	if enc == nil {
		enc = DefaultEncoding
	}
	raw, err := encodeText(enc, s)
	if err != nil {
		return nil, err
	}
	return &Buffer{buf: raw, enc: enc}, nil
}

// Clone returns an independent copy with the same length, cursor and settings.
func (b *Buffer) Clone() *Buffer {
	buf := make([]byte, len(b.buf), cap(b.buf))
	copy(buf, b.buf)
	return &Buffer{buf: buf, pos: b.pos, enc: b.enc, lenient: b.lenient}
}

// Concat joins the logical contents of bufs into a new buffer whose cursor
// sits at the end.
func Concat(bufs ...*Buffer) *Buffer {
	n := 0
	for _, b := range bufs {
		n += b.Len()
	}
	out := New(n)
	for _, b := range bufs {
		out.put(b.buf)
	}
	return out
}

// Equal reports whether a and b hold the same logical bytes.
func Equal(a, b *Buffer) bool {
	return bytes.Equal(a.buf, b.buf)
}

// Len returns the logical length.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the current capacity.
func (b *Buffer) Cap() int { return cap(b.buf) }

// Position returns the cursor.
func (b *Buffer) Position() int { return b.pos }

// Remaining returns the number of bytes between the cursor and the logical end.
func (b *Buffer) Remaining() int { return len(b.buf) - b.pos }

// Encoding returns the default text encoding.
func (b *Buffer) Encoding() encoding.Encoding { return b.enc }

// SetEncoding changes the default text encoding; nil restores UTF-8.
func (b *Buffer) SetEncoding(enc encoding.Encoding) *Buffer {
	if enc == nil {
		enc = DefaultEncoding
	}
	b.enc = enc
	return b
}

// Lenient reports whether short reads zero-pad instead of failing.
func (b *Buffer) Lenient() bool { return b.lenient }

// SetLenient switches every read on b to zero-padding mode.
func (b *Buffer) SetLenient(on bool) *Buffer {
	b.lenient = on
	return b
}

// Seek moves the cursor to pos, extending the logical length with zero bytes
// if pos lies past it.
func (b *Buffer) Seek(pos int) error {
	if pos < 0 {
		return fmt.Errorf("%w: seek to %d", ErrNegativePosition, pos)
	}
	b.setPosition(pos)
	return nil
}

// Skip moves the cursor forward by n bytes.
func (b *Buffer) Skip(n int) error { return b.Seek(b.pos + n) }

// Rewind moves the cursor back by n bytes.
func (b *Buffer) Rewind(n int) error { return b.Seek(b.pos - n) }

// Reset moves the cursor to 0. The contents are kept.
func (b *Buffer) Reset() *Buffer {
	b.pos = 0
	return b
}

// Seal truncates the logical length to the cursor, the usual last step after
// writing a record.
func (b *Buffer) Seal() *Buffer {
	b.buf = b.buf[:b.pos]
	return b
}

// Bytes returns a copy of the logical contents.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

// RemainingBytes returns the unread part of the buffer. The slice aliases the
// buffer and is only valid until the next write.
func (b *Buffer) RemainingBytes() []byte {
	return b.buf[b.pos:]
}

func (b *Buffer) setPosition(pos int) {
	b.extend(pos)
	b.pos = pos
}

// extend grows the logical length to n, zeroing the new bytes.
func (b *Buffer) extend(n int) {
	old := len(b.buf)
	if n <= old {
		return
	}
	if n > cap(b.buf) {
		b.grow(n)
	}
	b.buf = b.buf[:n]
	clear(b.buf[old:n])
}

// grow reallocates so that at least need bytes fit, doubling the capacity.
func (b *Buffer) grow(need int) {
	newCap := 2 * cap(b.buf)
	if newCap < need {
		newCap = need
	}
	buf := make([]byte, len(b.buf), newCap)
	copy(buf, b.buf)
	b.buf = buf
}

// put writes p at the cursor and advances past it.
func (b *Buffer) put(p []byte) {
	end := b.pos + len(p)
	b.extend(end)
	copy(b.buf[b.pos:end], p)
	b.pos = end
}

// bytesAt returns the n bytes at pos. A short region fails with ErrOutOfRange
// unless force is set, in which case the length is extended with zeros.
func (b *Buffer) bytesAt(pos, n int, force bool) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrOutOfRange, n)
	}
	end := pos + n
	if end > len(b.buf) {
		if !force {
			return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrOutOfRange, n, pos, len(b.buf)-pos)
		}
		b.extend(end)
	}
	return b.buf[pos:end], nil
}
