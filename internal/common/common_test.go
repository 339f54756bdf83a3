package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt64(t *testing.T) {
	for _, v := range []any{int8(-3), int16(-3), int32(-3), int64(-3), -3, float64(-3)} {
		got, ok := ToInt64(v)
		require.True(t, ok, "%T", v)
		assert.Equal(t, int64(-3), got)
	}
	_, ok := ToInt64(uint64(math.MaxUint64))
	assert.False(t, ok)
	_, ok = ToInt64(1.5)
	assert.False(t, ok)
	_, ok = ToInt64("1")
	assert.False(t, ok)
}

func TestToUint64(t *testing.T) {
	got, ok := ToUint64(uint16(7))
	require.True(t, ok)
	assert.Equal(t, uint64(7), got)
	_, ok = ToUint64(-1)
	assert.False(t, ok)
	got, ok = ToUint64(float32(12))
	require.True(t, ok)
	assert.Equal(t, uint64(12), got)
}

func TestToStringAndBytes(t *testing.T) {
	type label string
	s, ok := ToString(label("x"))
	require.True(t, ok)
	assert.Equal(t, "x", s)
	s, ok = ToString([]byte("raw"))
	require.True(t, ok)
	assert.Equal(t, "raw", s)

	b, ok := ToBytes([3]byte{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, b)
	b, ok = ToBytes(nil)
	require.True(t, ok)
	assert.Empty(t, b)
	_, ok = ToBytes([]int{1})
	assert.False(t, ok)
}
