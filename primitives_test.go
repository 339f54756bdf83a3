package bufferplus

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerEdgeValues(t *testing.T) {
	b := New(64)
	b.WriteInt8(math.MinInt8).WriteInt8(math.MaxInt8).
		WriteUint8(math.MaxUint8).
		WriteInt16BE(math.MinInt16).WriteInt16LE(math.MaxInt16).
		WriteUint16BE(math.MaxUint16).WriteUint16LE(1).
		WriteInt32BE(math.MinInt32).WriteInt32LE(math.MaxInt32).
		WriteUint32BE(math.MaxUint32).WriteUint32LE(0).
		WriteInt64BE(math.MinInt64).WriteInt64LE(math.MaxInt64).
		WriteUint64BE(math.MaxUint64).WriteUint64LE(42)
	b.Reset()

	i8, _ := b.ReadInt8()
	assert.Equal(t, int8(math.MinInt8), i8)
	i8, _ = b.ReadInt8()
	assert.Equal(t, int8(math.MaxInt8), i8)
	u8, _ := b.ReadUint8()
	assert.Equal(t, uint8(math.MaxUint8), u8)
	i16, _ := b.ReadInt16BE()
	assert.Equal(t, int16(math.MinInt16), i16)
	i16, _ = b.ReadInt16LE()
	assert.Equal(t, int16(math.MaxInt16), i16)
	u16, _ := b.ReadUint16BE()
	assert.Equal(t, uint16(math.MaxUint16), u16)
	u16, _ = b.ReadUint16LE()
	assert.Equal(t, uint16(1), u16)
	i32, _ := b.ReadInt32BE()
	assert.Equal(t, int32(math.MinInt32), i32)
	i32, _ = b.ReadInt32LE()
	assert.Equal(t, int32(math.MaxInt32), i32)
	u32, _ := b.ReadUint32BE()
	assert.Equal(t, uint32(math.MaxUint32), u32)
	u32, _ = b.ReadUint32LE()
	assert.Equal(t, uint32(0), u32)
	i64, _ := b.ReadInt64BE()
	assert.Equal(t, int64(math.MinInt64), i64)
	i64, _ = b.ReadInt64LE()
	assert.Equal(t, int64(math.MaxInt64), i64)
	u64, _ := b.ReadUint64BE()
	assert.Equal(t, uint64(math.MaxUint64), u64)
	u64, err := b.ReadUint64LE()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u64)
	assert.Equal(t, 0, b.Remaining())
}

func TestByteOrder(t *testing.T) {
	b := New(8)
	b.WriteUint32BE(0x01020304).WriteUint32LE(0x01020304)
	assert.Equal(t, []byte{1, 2, 3, 4, 4, 3, 2, 1}, b.Bytes())
}

func TestFloatSpecialValues(t *testing.T) {
	b := New(64)
	b.WriteFloat64BE(math.NaN()).
		WriteFloat64LE(math.Copysign(0, -1)).
		WriteFloat64BE(math.MaxFloat64).
		WriteFloat32LE(float32(math.Inf(-1))).
		WriteFloat32BE(math.SmallestNonzeroFloat32)
	b.Reset()

	f, _ := b.ReadFloat64BE()
	assert.True(t, math.IsNaN(f))
	f, _ = b.ReadFloat64LE()
	assert.True(t, f == 0 && math.Signbit(f))
	f, _ = b.ReadFloat64BE()
	assert.Equal(t, math.MaxFloat64, f)
	g, _ := b.ReadFloat32LE()
	assert.True(t, math.IsInf(float64(g), -1))
	g, err := b.ReadFloat32BE()
	require.NoError(t, err)
	assert.Equal(t, float32(math.SmallestNonzeroFloat32), g)
}

func TestFloatRoundTripBits(t *testing.T) {
	condition := func(bits uint64) bool {
		b := New(8)
		b.WriteFloat64LE(math.Float64frombits(bits))
		f, err := b.ReadFloat64LE(At(0))
		return err == nil && math.Float64bits(f) == bits
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestBool(t *testing.T) {
	b := From([]byte{0, 1, 7})
	for _, want := range []bool{false, true, true} {
		got, err := b.ReadBool()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	b.WriteBool(true, At(0))
	assert.Equal(t, []byte{1, 1, 7}, b.Bytes())
}

func TestStrictReadPastEnd(t *testing.T) {
	b := From([]byte{1, 2})
	_, err := b.ReadUint32LE()
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, b.Position(), "failed reads leave the cursor alone")
	assert.Equal(t, 2, b.Len())
}

func TestLenientReadPastEnd(t *testing.T) {
	b := From([]byte{1, 2})
	v, err := b.ReadUint32LE(Force())
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0201), v)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 4, b.Position())

	b = From(nil).SetLenient(true)
	u, err := b.ReadUint64BE()
	require.NoError(t, err)
	assert.Zero(t, u)
	assert.Equal(t, 8, b.Len())
}

func TestPositionedReadAdvancesCursor(t *testing.T) {
	b := New(16)
	b.WriteUint16LE(1).WriteUint16LE(2).WriteUint16LE(3)
	v, err := b.ReadUint16LE(At(2))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v)
	assert.Equal(t, 4, b.Position())
}

func TestTypedAccessorsMatchRegistry(t *testing.T) {
	cases := []struct {
		id    string
		v     any
		write func(b *Buffer)
		read  func(b *Buffer) (any, error)
	}{
		{TypeInt8, int8(-7), func(b *Buffer) { b.WriteInt8(-7) }, func(b *Buffer) (any, error) { return b.ReadInt8() }},
		{TypeUint8, uint8(200), func(b *Buffer) { b.WriteUint8(200) }, func(b *Buffer) (any, error) { return b.ReadUint8() }},
		{TypeInt16BE, int16(-300), func(b *Buffer) { b.WriteInt16BE(-300) }, func(b *Buffer) (any, error) { return b.ReadInt16BE() }},
		{TypeInt16LE, int16(-300), func(b *Buffer) { b.WriteInt16LE(-300) }, func(b *Buffer) (any, error) { return b.ReadInt16LE() }},
		{TypeUint16BE, uint16(0xBEEF), func(b *Buffer) { b.WriteUint16BE(0xBEEF) }, func(b *Buffer) (any, error) { return b.ReadUint16BE() }},
		{TypeUint16LE, uint16(0xBEEF), func(b *Buffer) { b.WriteUint16LE(0xBEEF) }, func(b *Buffer) (any, error) { return b.ReadUint16LE() }},
		{TypeInt32BE, int32(math.MinInt32), func(b *Buffer) { b.WriteInt32BE(math.MinInt32) }, func(b *Buffer) (any, error) { return b.ReadInt32BE() }},
		{TypeInt32LE, int32(-1), func(b *Buffer) { b.WriteInt32LE(-1) }, func(b *Buffer) (any, error) { return b.ReadInt32LE() }},
		{TypeUint32BE, uint32(0xDEADBEEF), func(b *Buffer) { b.WriteUint32BE(0xDEADBEEF) }, func(b *Buffer) (any, error) { return b.ReadUint32BE() }},
		{TypeUint32LE, uint32(0xDEADBEEF), func(b *Buffer) { b.WriteUint32LE(0xDEADBEEF) }, func(b *Buffer) (any, error) { return b.ReadUint32LE() }},
		{TypeInt64BE, int64(math.MinInt64), func(b *Buffer) { b.WriteInt64BE(math.MinInt64) }, func(b *Buffer) (any, error) { return b.ReadInt64BE() }},
		{TypeInt64LE, int64(-2), func(b *Buffer) { b.WriteInt64LE(-2) }, func(b *Buffer) (any, error) { return b.ReadInt64LE() }},
		{TypeUint64BE, uint64(math.MaxUint64), func(b *Buffer) { b.WriteUint64BE(math.MaxUint64) }, func(b *Buffer) (any, error) { return b.ReadUint64BE() }},
		{TypeUint64LE, uint64(1 << 40), func(b *Buffer) { b.WriteUint64LE(1 << 40) }, func(b *Buffer) (any, error) { return b.ReadUint64LE() }},
		{TypeFloat32BE, float32(-1.5), func(b *Buffer) { b.WriteFloat32BE(-1.5) }, func(b *Buffer) (any, error) { return b.ReadFloat32BE() }},
		{TypeFloat32LE, float32(3.25), func(b *Buffer) { b.WriteFloat32LE(3.25) }, func(b *Buffer) (any, error) { return b.ReadFloat32LE() }},
		{TypeFloat64BE, math.Pi, func(b *Buffer) { b.WriteFloat64BE(math.Pi) }, func(b *Buffer) (any, error) { return b.ReadFloat64BE() }},
		{TypeFloat64LE, -math.E, func(b *Buffer) { b.WriteFloat64LE(-math.E) }, func(b *Buffer) (any, error) { return b.ReadFloat64LE() }},
		{TypeBool, true, func(b *Buffer) { b.WriteBool(true) }, func(b *Buffer) (any, error) { return b.ReadBool() }},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			typed := New(8)
			tc.write(typed)
			viaRegistry := New(8)
			_, err := viaRegistry.WriteType(tc.id, tc.v)
			require.NoError(t, err)
			require.Equal(t, viaRegistry.Bytes(), typed.Bytes())

			got, err := tc.read(viaRegistry.Reset())
			require.NoError(t, err)
			assert.Equal(t, tc.v, got)
			got, err = typed.Reset().ReadType(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.v, got)
		})
	}
}
