package binary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaderRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.AddType(nil, nil)
	data := b.Build()

	hdr, body, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, uint32(Version), hdr.Version)
	require.True(t, hdr.VerifyCRC(body))
}

func TestParseHeaderBadMagic(t *testing.T) {
	data := NewBuilder().Build()
	data[0] = 'X'
	_, _, err := ParseHeader(data)
	require.Error(t, err)
}

func TestParseHeaderTooShort(t *testing.T) {
	_, _, err := ParseHeader([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestVerifyCRCDetectsBitFlip(t *testing.T) {
	data := NewBuilder().Build()
	hdr, body, err := ParseHeader(data)
	require.NoError(t, err)
	require.True(t, hdr.VerifyCRC(body))

	corrupt := make([]byte, len(body))
	copy(corrupt, body)
	if len(corrupt) == 0 {
		corrupt = []byte{0}
	}
	corrupt[0] ^= 0x01
	require.False(t, hdr.VerifyCRC(corrupt))
}
