package bufferplus

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	b := New(32)
	vals := []int32{0, -1, 1, 63, -64, 300, math.MaxInt32, math.MinInt32}
	for _, v := range vals {
		b.WriteVarInt(v)
	}
	b.Reset()
	for _, want := range vals {
		got, err := b.ReadVarInt()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestVarUintWireFormat(t *testing.T) {
	b := New(8)
	b.WriteVarUint(300)
	assert.Equal(t, []byte{0xAC, 0x02}, b.Bytes())

	b = From([]byte{0x80, 0x80})
	_, err := b.ReadVarUint()
	require.ErrorIs(t, err, ErrMalformedVarint)
	assert.Equal(t, 0, b.Position())
}

func TestVarArrays(t *testing.T) {
	b := New(32)
	b.WriteVarIntPackedArray([]int32{-5, 0, 70000})
	b.WriteVarUintPackedArray([]uint32{1, 128})
	b.WriteVarUintArray([]uint32{9, 10})
	b.Reset()

	ints, err := b.ReadVarIntPackedArray()
	require.NoError(t, err)
	assert.Equal(t, []int32{-5, 0, 70000}, ints)
	uints, err := b.ReadVarUintPackedArray()
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 128}, uints)
	uints, err = b.ReadVarUintArray(2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{9, 10}, uints)
}

func TestPackedStringCountsBytes(t *testing.T) {
	b := New(16)
	n, err := b.WritePackedString("héllo")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, byte(6), b.Bytes()[0], "prefix counts encoded bytes")

	s, err := b.ReadPackedString(At(0))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	size, err := ByteLengthPackedString("héllo", UTF8)
	require.NoError(t, err)
	assert.Equal(t, n, size)
}

func TestPackedStringEncodings(t *testing.T) {
	cases := []struct {
		name  string
		total int
	}{
		{"utf-8", 3},
		{"utf-16le", 3},
		{"utf-16be", 3},
		{"latin1", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := LookupEncoding(tc.name)
			require.NoError(t, err)
			b := New(8).SetEncoding(enc)
			n, err := b.WritePackedString("ü")
			require.NoError(t, err)
			assert.Equal(t, tc.total, n)
			s, err := b.ReadPackedString(At(0))
			require.NoError(t, err)
			assert.Equal(t, "ü", s)
		})
	}
}

func TestStringLengthDefaultsToRemaining(t *testing.T) {
	b, err := FromString("abcdef", nil)
	require.NoError(t, err)
	s, err := b.ReadString(Length(2))
	require.NoError(t, err)
	assert.Equal(t, "ab", s)
	s, err = b.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "cdef", s)
	assert.Equal(t, 0, b.Remaining())
}

func TestLatin1RejectsUnmappable(t *testing.T) {
	b := New(8)
	_, err := b.WriteString("漢", Using(Latin1))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestPackedStringArray(t *testing.T) {
	in := []string{"", "a", "ümlaut", "end"}
	b := New(0)
	_, err := b.WritePackedStringArray(in)
	require.NoError(t, err)
	out, err := b.ReadPackedStringArray(At(0))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPackedBytes(t *testing.T) {
	b := New(0)
	b.WritePackedBytes([]byte{1, 2, 3}).WritePackedBytes(nil)
	b.WritePackedBytesArray([][]byte{{9}, {}, {7, 7}})
	b.Reset()

	p, err := b.ReadPackedBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, p)
	p, err = b.ReadPackedBytes()
	require.NoError(t, err)
	assert.Empty(t, p)
	arr, err := b.ReadPackedBytesArray()
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{9}, {}, {7, 7}}, arr)
	assert.Equal(t, 4, ByteLengthPackedBytes([]byte{1, 2, 3}))
}

func TestPackedCountBeyondData(t *testing.T) {
	b := New(8)
	b.WriteVarUint(1000).WriteUint8('x')
	_, err := b.ReadPackedString(At(0))
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.ReadPackedBytesArray(At(0))
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestFailedPackedReadsKeepCursor(t *testing.T) {
	b := From([]byte{0xAA, 0xE8, 0x07, 'x'})
	require.NoError(t, b.Seek(1))
	_, err := b.ReadPackedString()
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, b.Position(), "rejected count is not consumed")

	b = From([]byte{1, 0x80})
	_, err = b.ReadVarUintPackedArray()
	require.ErrorIs(t, err, ErrMalformedVarint)
	assert.Equal(t, 0, b.Position())

	b = From([]byte{2, 1, 'a', 5, 'b'})
	_, err = b.ReadPackedBytesArray()
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, b.Position(), "first element is given back too")

	b = From([]byte{2, 0, 1, 0})
	_, err = ReadPackedArray[int](b, TypeInt16BE)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, b.Position())

	b = From([]byte{0x02, 'h'})
	_, err = b.ReadValue(stringEntry())
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, b.Position())

	// an explicit position is still applied
	b = From([]byte{1, 2, 3})
	_, err = b.ReadUint32BE(At(1))
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, b.Position())
}

func TestLenientCountIsBounded(t *testing.T) {
	b := From([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}).SetLenient(true)
	_, err := b.ReadPackedBytes()
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 5, b.Len(), "nothing was padded")

	b = From([]byte{4, 'a'}).SetLenient(true)
	p, err := b.ReadPackedBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 0, 0, 0}, p)
}

func TestReadExactCopies(t *testing.T) {
	b := From([]byte{1, 2, 3})
	p, err := b.ReadExact(Length(2))
	require.NoError(t, err)
	p[0] = 9
	q, _ := b.ReadExact(At(0), Length(1))
	assert.Equal(t, []byte{1}, q)

	_, err = b.ReadExact(At(2), Length(5))
	require.ErrorIs(t, err, ErrOutOfRange)
	p, err = b.ReadExact(At(2), Length(3), Force())
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 0}, p)
}

func TestGenericArrays(t *testing.T) {
	b := New(0)
	_, err := WritePackedArray(b, TypeInt16BE, []int16{-1, 2, 300})
	require.NoError(t, err)
	_, err = WritePackedArray(b, TypeString, []string{"x", "yz"})
	require.NoError(t, err)
	_, err = WriteArray(b, TypeFloat32LE, []float32{1.5, -2})
	require.NoError(t, err)
	b.Reset()

	ints, err := ReadPackedArray[int](b, TypeInt16BE)
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 2, 300}, ints)
	strs, err := ReadPackedArray[string](b, TypeString)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "yz"}, strs)
	floats, err := ReadArray[float32](b, TypeFloat32LE, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2}, floats)
}

func TestGenericArrayErrors(t *testing.T) {
	b := New(0)
	_, err := WriteArray(b, "int128", []int{1})
	require.ErrorIs(t, err, ErrUnknownType)
	_, err = WriteArray(b, TypeUint8, []int{256})
	require.ErrorIs(t, err, ErrTypeMismatch)

	b = From([]byte{1, 0xFF})
	_, err = ReadArray[bool](b, TypeUint8, 1)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestVarIntArrayProperty(t *testing.T) {
	condition := func(vs []int32) bool {
		b := New(0)
		b.WriteVarIntPackedArray(vs)
		got, err := b.ReadVarIntPackedArray(At(0))
		return err == nil && len(got) == len(vs) && (len(vs) == 0 || assert.ObjectsAreEqual(vs, got))
	}
	require.NoError(t, quick.Check(condition, nil))
}

func FuzzReadPackedString(f *testing.F) {
	f.Add([]byte{0x03, 'a', 'b', 'c'})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F})
	f.Fuzz(func(t *testing.T, in []byte) {
		b := From(in)
		s, err := b.ReadPackedString()
		if err != nil {
			return
		}
		require.LessOrEqual(t, len(s), len(in))
	})
}

func BenchmarkPackedString(b *testing.B) {
	buf := New(64)
	b.ReportAllocs()
	for b.Loop() {
		buf.Reset()
		_, _ = buf.WritePackedString("the quick brown fox")
		_, _ = buf.ReadPackedString(At(0))
	}
}
