package bufferplus

import "golang.org/x/text/encoding"

// Params is the resolved form of a call's options.
type Params struct {
	// Position is where the operation starts; the cursor has already been
	// moved there.
	Position int
	// Length is the byte count for variable-length reads. It defaults to the
	// bytes remaining after Position.
	Length int
	// Encoding is the text encoding, defaulting to the buffer's.
	Encoding encoding.Encoding
	// Force makes short reads zero-pad instead of failing.
	Force bool
}

// Option adjusts a single read or write.
type Option func(*Params)

// At starts the operation at pos instead of the cursor. A negative pos keeps
// the cursor.
func At(pos int) Option {
	return func(p *Params) { p.Position = pos }
}

// Length sets the byte count of a variable-length read. A negative n means
// "everything up to the logical end".
func Length(n int) Option {
	return func(p *Params) { p.Length = n }
}

// Using selects the text encoding for the call.
func Using(enc encoding.Encoding) Option {
	return func(p *Params) { p.Encoding = enc }
}

// Force lets a read run past the logical end, growing the buffer with zeros.
func Force() Option {
	return func(p *Params) { p.Force = true }
}

// Sanitize resolves opts against the buffer state. It is the single place the
// defaulting rules live:
//
//   - no position, or a negative one: use the cursor
//   - a position at or past zero: seek there, zero-extending the length
//   - no length, or a negative one: the bytes remaining after the position
//   - no encoding: the buffer's default encoding
//   - Force is implied by a lenient buffer
func (b *Buffer) Sanitize(opts ...Option) Params {
	p := Params{Position: -1, Length: -1}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Position < 0 {
		p.Position = b.pos
	} else {
		b.setPosition(p.Position)
	}
	if p.Length < 0 {
		p.Length = len(b.buf) - p.Position
	}
	if p.Encoding == nil {
		p.Encoding = b.enc
	}
	p.Force = p.Force || b.lenient
	return p
}
