package bufferplus

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsRegistered(t *testing.T) {
	ids := Types().IDs()
	for _, id := range []string{
		TypeBool, TypeInt8, TypeUint8, TypeInt16BE, TypeUint64LE,
		TypeFloat32BE, TypeFloat64LE, TypeVarInt, TypeVarUint, TypeString, TypeBuffer,
	} {
		assert.Contains(t, ids, id)
	}
	e, err := Types().Lookup(TypeUint32LE)
	require.NoError(t, err)
	assert.True(t, e.LittleEndian)
	assert.Equal(t, 4, e.Width)
	assert.Equal(t, KindUint, e.Kind)

	e, err = Types().Lookup(TypeString)
	require.NoError(t, err)
	assert.True(t, e.LengthPrefixed)
	assert.Zero(t, e.Width)
}

func TestReadWriteType(t *testing.T) {
	cases := []struct {
		id   string
		in   any
		want any
		size int
	}{
		{TypeBool, true, true, 1},
		{TypeInt8, -3, int8(-3), 1},
		{TypeUint16BE, 65535, uint16(65535), 2},
		{TypeInt32LE, int32(math.MinInt32), int32(math.MinInt32), 4},
		{TypeUint64BE, uint64(math.MaxUint64), uint64(math.MaxUint64), 8},
		{TypeFloat32LE, float32(2.5), float32(2.5), 4},
		{TypeFloat64BE, 1e300, 1e300, 8},
		{TypeVarInt, -200, int32(-200), 2},
		{TypeVarUint, uint32(1 << 21), uint32(1 << 21), 4},
		{TypeBuffer, []byte{1, 2}, []byte{1, 2}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			b := New(16)
			n, err := b.WriteType(tc.id, tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.size, n)
			require.Equal(t, tc.size, b.Position())

			size, err := ByteLength(tc.id, tc.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.size, size)

			got, err := b.ReadType(tc.id, At(0))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.size, b.Position(), "cursor advances by the consumed size")
		})
	}
}

func TestReadTypeStringUsesLength(t *testing.T) {
	b := New(16)
	_, err := b.WriteType(TypeString, "hello world")
	require.NoError(t, err)
	v, err := b.ReadType(TypeString, At(0), Length(5))
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, 5, b.Position())
}

func TestTypeMismatch(t *testing.T) {
	b := New(8)
	for id, v := range map[string]any{
		TypeUint8:   -1,
		TypeInt8:    200,
		TypeBool:    "yes",
		TypeString:  3.5,
		TypeVarUint: uint64(1) << 40,
		TypeInt64BE: uint64(math.MaxUint64),
	} {
		_, err := b.WriteType(id, v)
		assert.ErrorIs(t, err, ErrTypeMismatch, id)
	}
	assert.Equal(t, 0, b.Len())
}

func TestUnknownType(t *testing.T) {
	b := New(8)
	_, err := b.ReadType("int24")
	require.ErrorIs(t, err, ErrUnknownType)
	_, err = b.WriteType("int24", 1)
	require.ErrorIs(t, err, ErrUnknownType)
	_, err = ByteLength("int24", 1, nil)
	require.ErrorIs(t, err, ErrUnknownType)
}

type point struct{ X, Y int16 }

func pointType(id string) *TypeEntry {
	return CustomType(id,
		func(b *Buffer) (any, error) {
			x, err := b.ReadInt16LE()
			if err != nil {
				return nil, err
			}
			y, err := b.ReadInt16LE()
			if err != nil {
				return nil, err
			}
			return point{x, y}, nil
		},
		func(b *Buffer, v any) error {
			p, ok := v.(point)
			if !ok {
				return ErrTypeMismatch
			}
			b.WriteInt16LE(p.X).WriteInt16LE(p.Y)
			return nil
		},
		func(any) int { return 4 },
	)
}

func TestCustomType(t *testing.T) {
	r := NewDefaultRegistry()
	added, err := r.Register(pointType("point"))
	require.NoError(t, err)
	require.True(t, added)

	b := New(8)
	n, err := r.Encode("point", b, point{3, -4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	v, err := r.Decode("point", b, At(0))
	require.NoError(t, err)
	assert.Equal(t, point{3, -4}, v)

	size, err := r.ByteLength("point", point{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	_, err = r.Encode("point", b, "nope")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestRegistrationIsIdempotent(t *testing.T) {
	r := NewDefaultRegistry()
	before := len(r.IDs())

	added, err := r.Register(pointType(TypeUint8))
	require.NoError(t, err)
	assert.False(t, added, "first registration wins")
	e, _ := r.Lookup(TypeUint8)
	assert.Equal(t, KindUint, e.Kind)

	added, err = r.Register(pointType("p"))
	require.NoError(t, err)
	require.True(t, added)
	added, err = r.Register(pointType("p"))
	require.NoError(t, err)
	require.False(t, added)
	assert.Len(t, r.IDs(), before+1)
}

func TestRegisterInvalid(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = r.Register(&TypeEntry{ID: "x"})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = r.Register(CustomType("", nil, nil, nil))
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := r.Register(pointType("shared"))
			if err == nil && added {
				mu.Lock()
				wins++
				mu.Unlock()
			}
			_ = r.Has("shared")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, []string{"shared"}, r.IDs())
}

func TestReadWriteValuePrefixesStrings(t *testing.T) {
	str, _ := Types().Lookup(TypeString)
	u16, _ := Types().Lookup(TypeUint16BE)
	b := New(16)
	n, err := b.WriteValue(str, "abc")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	n, err = b.WriteValue(u16, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{3, 'a', 'b', 'c', 0, 7}, b.Bytes())

	b.Reset()
	v, err := b.ReadValue(str)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
	v, err = b.ReadValue(u16)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), v)
}

func TestEncodingLookup(t *testing.T) {
	enc, err := LookupEncoding("windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", EncodingName(enc))
	assert.Equal(t, "utf-8", EncodingName(nil))

	_, err = LookupEncoding("klingon")
	require.ErrorIs(t, err, ErrUnknownEncoding)
}
