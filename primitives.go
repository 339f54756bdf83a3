package bufferplus

import (
	"encoding/binary"
	"math"
)

// readFixed returns the width bytes at the sanitized position and advances the
// cursor past them.
func (b *Buffer) readFixed(width int, opts []Option) ([]byte, error) {
	p := b.Sanitize(opts...)
	raw, err := b.bytesAt(p.Position, width, p.Force)
	if err != nil {
		return nil, err
	}
	b.pos = p.Position + width
	return raw, nil
}

func (b *Buffer) writeFixed(raw []byte, opts []Option) *Buffer {
	b.Sanitize(opts...)
	b.put(raw)
	return b
}

// readUint reads a width-byte unsigned integer through the same layout the
// registry's fixed-width entries use.
func (b *Buffer) readUint(width int, order binary.ByteOrder, opts []Option) (uint64, error) {
	raw, err := b.readFixed(width, opts)
	if err != nil {
		return 0, err
	}
	return getUint(raw, order), nil
}

func (b *Buffer) writeUint(width int, order binary.ByteOrder, x uint64, opts []Option) *Buffer {
	var s [8]byte
	putUint(s[:width], order, x)
	return b.writeFixed(s[:width], opts)
}

// ReadBool reads one byte; any non-zero value is true.
func (b *Buffer) ReadBool(opts ...Option) (bool, error) {
	raw, err := b.readFixed(1, opts)
	if err != nil {
		return false, err
	}
	return raw[0] != 0, nil
}

// WriteBool writes 1 for true and 0 for false.
func (b *Buffer) WriteBool(v bool, opts ...Option) *Buffer {
	var x byte
	if v {
		x = 1
	}
	return b.writeFixed([]byte{x}, opts)
}

func (b *Buffer) ReadInt8(opts ...Option) (int8, error) {
	raw, err := b.readFixed(1, opts)
	if err != nil {
		return 0, err
	}
	return int8(raw[0]), nil
}

func (b *Buffer) WriteInt8(v int8, opts ...Option) *Buffer {
	return b.writeFixed([]byte{byte(v)}, opts)
}

func (b *Buffer) ReadUint8(opts ...Option) (uint8, error) {
	raw, err := b.readFixed(1, opts)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

func (b *Buffer) WriteUint8(v uint8, opts ...Option) *Buffer {
	return b.writeFixed([]byte{v}, opts)
}

func (b *Buffer) ReadInt16BE(opts ...Option) (int16, error) {
	v, err := b.readUint(2, binary.BigEndian, opts)
	return int16(v), err
}

func (b *Buffer) ReadInt16LE(opts ...Option) (int16, error) {
	v, err := b.readUint(2, binary.LittleEndian, opts)
	return int16(v), err
}

func (b *Buffer) WriteInt16BE(v int16, opts ...Option) *Buffer {
	return b.writeUint(2, binary.BigEndian, uint64(uint16(v)), opts)
}

func (b *Buffer) WriteInt16LE(v int16, opts ...Option) *Buffer {
	return b.writeUint(2, binary.LittleEndian, uint64(uint16(v)), opts)
}

func (b *Buffer) ReadUint16BE(opts ...Option) (uint16, error) {
	v, err := b.readUint(2, binary.BigEndian, opts)
	return uint16(v), err
}

func (b *Buffer) ReadUint16LE(opts ...Option) (uint16, error) {
	v, err := b.readUint(2, binary.LittleEndian, opts)
	return uint16(v), err
}

func (b *Buffer) WriteUint16BE(v uint16, opts ...Option) *Buffer {
	return b.writeUint(2, binary.BigEndian, uint64(v), opts)
}

func (b *Buffer) WriteUint16LE(v uint16, opts ...Option) *Buffer {
	return b.writeUint(2, binary.LittleEndian, uint64(v), opts)
}

func (b *Buffer) ReadInt32BE(opts ...Option) (int32, error) {
	v, err := b.readUint(4, binary.BigEndian, opts)
	return int32(v), err
}

func (b *Buffer) ReadInt32LE(opts ...Option) (int32, error) {
	v, err := b.readUint(4, binary.LittleEndian, opts)
	return int32(v), err
}

func (b *Buffer) WriteInt32BE(v int32, opts ...Option) *Buffer {
	return b.writeUint(4, binary.BigEndian, uint64(uint32(v)), opts)
}

func (b *Buffer) WriteInt32LE(v int32, opts ...Option) *Buffer {
	return b.writeUint(4, binary.LittleEndian, uint64(uint32(v)), opts)
}

func (b *Buffer) ReadUint32BE(opts ...Option) (uint32, error) {
	v, err := b.readUint(4, binary.BigEndian, opts)
	return uint32(v), err
}

func (b *Buffer) ReadUint32LE(opts ...Option) (uint32, error) {
	v, err := b.readUint(4, binary.LittleEndian, opts)
	return uint32(v), err
}

func (b *Buffer) WriteUint32BE(v uint32, opts ...Option) *Buffer {
	return b.writeUint(4, binary.BigEndian, uint64(v), opts)
}

func (b *Buffer) WriteUint32LE(v uint32, opts ...Option) *Buffer {
	return b.writeUint(4, binary.LittleEndian, uint64(v), opts)
}

func (b *Buffer) ReadInt64BE(opts ...Option) (int64, error) {
	v, err := b.readUint(8, binary.BigEndian, opts)
	return int64(v), err
}

func (b *Buffer) ReadInt64LE(opts ...Option) (int64, error) {
	v, err := b.readUint(8, binary.LittleEndian, opts)
	return int64(v), err
}

func (b *Buffer) WriteInt64BE(v int64, opts ...Option) *Buffer {
	return b.writeUint(8, binary.BigEndian, uint64(v), opts)
}

func (b *Buffer) WriteInt64LE(v int64, opts ...Option) *Buffer {
	return b.writeUint(8, binary.LittleEndian, uint64(v), opts)
}

func (b *Buffer) ReadUint64BE(opts ...Option) (uint64, error) {
	return b.readUint(8, binary.BigEndian, opts)
}

func (b *Buffer) ReadUint64LE(opts ...Option) (uint64, error) {
	return b.readUint(8, binary.LittleEndian, opts)
}

func (b *Buffer) WriteUint64BE(v uint64, opts ...Option) *Buffer {
	return b.writeUint(8, binary.BigEndian, v, opts)
}

func (b *Buffer) WriteUint64LE(v uint64, opts ...Option) *Buffer {
	return b.writeUint(8, binary.LittleEndian, v, opts)
}

// Floats are IEEE-754; NaN payloads and the sign of zero survive a round trip.

func (b *Buffer) ReadFloat32BE(opts ...Option) (float32, error) {
	v, err := b.readUint(4, binary.BigEndian, opts)
	return math.Float32frombits(uint32(v)), err
}

func (b *Buffer) ReadFloat32LE(opts ...Option) (float32, error) {
	v, err := b.readUint(4, binary.LittleEndian, opts)
	return math.Float32frombits(uint32(v)), err
}

func (b *Buffer) WriteFloat32BE(v float32, opts ...Option) *Buffer {
	return b.writeUint(4, binary.BigEndian, uint64(math.Float32bits(v)), opts)
}

func (b *Buffer) WriteFloat32LE(v float32, opts ...Option) *Buffer {
	return b.writeUint(4, binary.LittleEndian, uint64(math.Float32bits(v)), opts)
}

func (b *Buffer) ReadFloat64BE(opts ...Option) (float64, error) {
	v, err := b.readUint(8, binary.BigEndian, opts)
	return math.Float64frombits(v), err
}

func (b *Buffer) ReadFloat64LE(opts ...Option) (float64, error) {
	v, err := b.readUint(8, binary.LittleEndian, opts)
	return math.Float64frombits(v), err
}

func (b *Buffer) WriteFloat64BE(v float64, opts ...Option) *Buffer {
	return b.writeUint(8, binary.BigEndian, math.Float64bits(v), opts)
}

func (b *Buffer) WriteFloat64LE(v float64, opts ...Option) *Buffer {
	return b.writeUint(8, binary.LittleEndian, math.Float64bits(v), opts)
}
