package binary

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Header is the fixed 20-byte prefix of every container.
type Header struct {
	Version  uint32
	Flags    uint32
	Reserved uint32
	CRC32    uint32
}

// Checksum computes the container's CRC-32 (reflected, poly 0xEDB88320),
// which is exactly crc32.IEEE.
func Checksum(body []byte) uint32 {
	return crc32.ChecksumIEEE(body)
}

// ParseHeader reads and validates the fixed header, returning the body
// bytes (everything after the header) on success. It does not validate the
// CRC against the body — callers must do that once the full container has
// been read, since the CRC covers all bytes after the header, not just this
// call's view of it.
func ParseHeader(buf []byte) (Header, []byte, error) {
	if len(buf) < HeaderSize {
		return Header{}, nil, fmt.Errorf("container too short: %d bytes, need at least %d", len(buf), HeaderSize)
	}
	var magic [4]byte
	copy(magic[:], buf[0:4])
	if magic != Magic {
		return Header{}, nil, fmt.Errorf("bad magic %q, want %q", magic, Magic)
	}
	h := Header{
		Version:  binary.LittleEndian.Uint32(buf[4:8]),
		Flags:    binary.LittleEndian.Uint32(buf[8:12]),
		Reserved: binary.LittleEndian.Uint32(buf[12:16]),
		CRC32:    binary.LittleEndian.Uint32(buf[16:20]),
	}
	return h, buf[HeaderSize:], nil
}

// VerifyCRC checks the header's stored checksum against the actual checksum
// of body (everything after the header).
func (h Header) VerifyCRC(body []byte) bool {
	return h.CRC32 == Checksum(body)
}
