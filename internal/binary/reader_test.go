package binary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderPrimitives(t *testing.T) {
	buf := []byte{0x2A, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 3, 'f', 'o', 'o'}
	r := NewReader(buf)

	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x2A), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(1), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(2), u32)

	s, err := r.Str8()
	require.NoError(t, err)
	require.Equal(t, "foo", s)

	require.Equal(t, 0, r.Len())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.U32()
	require.Error(t, err)

	r2 := NewReader([]byte{3, 'a', 'b'})
	_, err = r2.Str8()
	require.Error(t, err)
}

func TestReaderSkip(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})
	require.NoError(t, r.Skip(3))
	require.Equal(t, 2, r.Len())
	require.Error(t, r.Skip(10))
}
