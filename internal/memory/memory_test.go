package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	m := New(1, 1)
	require.True(t, m.Write(100, []byte{1, 2, 3, 4}))
	got := make([]byte, 4)
	require.True(t, m.Read(100, got))
	require.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestReadWriteOutOfBounds(t *testing.T) {
	m := New(1, 1)
	require.False(t, m.Write(PageSize-2, []byte{1, 2, 3}))
	require.False(t, m.Read(PageSize-2, make([]byte, 3)))
}

func TestCopyOverlap(t *testing.T) {
	m := New(1, 1)
	require.True(t, m.Write(0, []byte{1, 2, 3, 4, 5}))
	require.True(t, m.Copy(2, 0, 5))
	got := make([]byte, 7)
	require.True(t, m.Read(0, got))
	require.Equal(t, []byte{1, 2, 1, 2, 3, 4, 5}, got)
}

func TestFill(t *testing.T) {
	m := New(1, 1)
	require.True(t, m.Fill(10, 0x7F, 4))
	got := make([]byte, 4)
	require.True(t, m.Read(10, got))
	require.Equal(t, []byte{0x7F, 0x7F, 0x7F, 0x7F}, got)
}

func TestGrowMonotonic(t *testing.T) {
	m := New(1, 3)
	prev, ok := m.Grow(1)
	require.True(t, ok)
	require.Equal(t, uint32(1), prev)
	require.Equal(t, uint32(2), m.Pages())

	prev, ok = m.Grow(1)
	require.True(t, ok)
	require.Equal(t, uint32(2), prev)
	require.Equal(t, uint32(3), m.Pages())

	_, ok = m.Grow(1)
	require.False(t, ok)
	require.Equal(t, uint32(3), m.Pages(), "a failed grow must not change page count")
}

func TestGrowZeroesNewPages(t *testing.T) {
	m := New(1, 2)
	require.True(t, m.Write(PageSize-4, []byte{0xFF, 0xFF, 0xFF, 0xFF}))
	_, ok := m.Grow(1)
	require.True(t, ok)
	got := make([]byte, 4)
	require.True(t, m.Read(PageSize, got))
	require.Equal(t, []byte{0, 0, 0, 0}, got)
}
