package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrips(t *testing.T) {
	enc := &Encoder{}
	require.NoError(t, EncodeU8(enc, 0xAB))
	require.NoError(t, EncodeU16(enc, 0x1234))
	require.NoError(t, EncodeU32(enc, 0xDEADBEEF))
	require.NoError(t, EncodeU64(enc, 0x0123456789ABCDEF))
	require.NoError(t, EncodeI8(enc, -1))
	require.NoError(t, EncodeI16(enc, -2))
	require.NoError(t, EncodeI32(enc, -3))
	require.NoError(t, EncodeI64(enc, -4))
	require.NoError(t, EncodeF32(enc, 1.5))
	require.NoError(t, EncodeF64(enc, 2.5))
	require.NoError(t, EncodeBool(enc, true))
	require.NoError(t, EncodeBool(enc, false))

	dec := NewDecoder(enc.Bytes())

	u8, err := DecodeU8(dec)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := DecodeU16(dec)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := DecodeU32(dec)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := DecodeU64(dec)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789ABCDEF), u64)

	i8, err := DecodeI8(dec)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)

	i16, err := DecodeI16(dec)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	i32, err := DecodeI32(dec)
	require.NoError(t, err)
	assert.Equal(t, int32(-3), i32)

	i64, err := DecodeI64(dec)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), i64)

	f32, err := DecodeF32(dec)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := DecodeF64(dec)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f64)

	b1, err := DecodeBool(dec)
	require.NoError(t, err)
	assert.True(t, b1)

	b2, err := DecodeBool(dec)
	require.NoError(t, err)
	assert.False(t, b2)

	assert.Equal(t, 0, dec.Remaining())
}

func TestDecodeNotEnoughBytes(t *testing.T) {
	dec := NewDecoder([]byte{0x01})
	_, err := DecodeU32(dec)
	require.Error(t, err)
	assert.True(t, IsNotEnoughBytes(err))
}
