package bufferplus

import "io"

var (
	_ io.Reader     = (*Buffer)(nil)
	_ io.Writer     = (*Buffer)(nil)
	_ io.ByteReader = (*Buffer)(nil)
	_ io.ByteWriter = (*Buffer)(nil)
)

// Read copies unread bytes into p and advances the cursor. It returns io.EOF
// once the cursor reaches the logical end.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += n
	return n, nil
}

// Write writes p at the cursor, growing the buffer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.put(p)
	return len(p), nil
}

func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

func (b *Buffer) WriteByte(c byte) error {
	b.put([]byte{c})
	return nil
}
