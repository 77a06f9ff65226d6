package module

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/binary"
)

func buildMinimal(t *testing.T) []byte {
	t.Helper()
	b := binary.NewBuilder()
	ti := b.AddType([]api.ValueKind{api.KindI32}, []api.ValueKind{api.KindI32})
	fi := b.AddFunc(ti, 1, 0, []uint32{0x02 /* RET */})
	b.AddExportFunc(fi, "identity")
	return b.Build()
}

func TestLoadRoundTrip(t *testing.T) {
	m, err := Load(buildMinimal(t))
	require.Nil(t, err)
	require.Len(t, m.Types, 1)
	require.Len(t, m.Functions, 1)
	fi, ok := m.ExportedFunc("identity")
	require.True(t, ok)
	require.Equal(t, uint32(0), fi)
	require.Equal(t, []string{"identity"}, m.ExportNames())
}

func TestLoadBadMagic(t *testing.T) {
	data := buildMinimal(t)
	data[0] = 'X'
	_, err := Load(data)
	require.NotNil(t, err)
	require.Equal(t, api.BADMAGIC, err.Code)
}

func TestLoadBadVersion(t *testing.T) {
	data := buildMinimal(t)
	data[4] = 99
	_, err := Load(data)
	require.NotNil(t, err)
	require.Equal(t, api.VERSION, err.Code)
}

func TestLoadCRCMismatch(t *testing.T) {
	data := buildMinimal(t)
	data[len(data)-1] ^= 0xFF
	_, err := Load(data)
	require.NotNil(t, err)
	require.Equal(t, api.BADMODULE, err.Code)
}

func TestLoadExportFuncIndexOutOfRange(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType(nil, nil)
	fi := b.AddFunc(ti, 0, 0, []uint32{0x01})
	b.AddExportFunc(fi+1, "bad")
	_, err := Load(b.Build())
	require.NotNil(t, err)
	require.Equal(t, api.BADMODULE, err.Code)
}

func TestLoadDataSegmentOutOfBounds(t *testing.T) {
	b := binary.NewBuilder()
	b.SetMemory(1, 1)
	b.AddData(0, binary.PageSize-4, []byte{1, 2, 3, 4, 5})
	_, err := Load(b.Build())
	require.NotNil(t, err)
	require.Equal(t, api.BADMODULE, err.Code)
}

func TestLoadDataWithoutMemory(t *testing.T) {
	b := binary.NewBuilder()
	b.AddData(0, 0, []byte{1})
	_, err := Load(b.Build())
	require.NotNil(t, err)
	require.Equal(t, api.BADMODULE, err.Code)
}

func TestLoadFindsInitFunc(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType(nil, nil)
	fi := b.AddFunc(ti, 0, 0, []uint32{0x01})
	b.AddExportFunc(fi, "_init")
	m, err := Load(b.Build())
	require.Nil(t, err)
	require.Equal(t, int32(fi), m.InitFunc)
}

func TestLoadUnknownSectionSkipped(t *testing.T) {
	b := binary.NewBuilder()
	b.AddType(nil, nil)
	data := b.Build()

	// Append a well-formed but unrecognized section (id 0xEE) to the body
	// and recompute the header CRC, so the loader must skip the section.
	unknown := []byte{0xEE, 4, 0, 0, 0, 'z', 'z', 'z', 'z'}
	body := append(append([]byte{}, data[binary.HeaderSize:]...), unknown...)
	out := make([]byte, binary.HeaderSize, binary.HeaderSize+len(body))
	copy(out, data[:binary.HeaderSize])
	crc := binary.Checksum(body)
	out[16] = byte(crc)
	out[17] = byte(crc >> 8)
	out[18] = byte(crc >> 16)
	out[19] = byte(crc >> 24)
	out = append(out, body...)

	m, err := Load(out)
	require.Nil(t, err)
	require.Len(t, m.Types, 1)
}
