// Package memory implements the paged linear memory sandbox: a
// bounds-checked byte buffer that grows monotonically in fixed-size pages.
package memory

import "github.com/venkatezh-13/rune/internal/binary"

const PageSize = binary.PageSize

// Memory is a bounds-checked, paged linear memory buffer. The backing array
// is allocated to maxPages up front; current visible size is tracked by
// pages and grows without reallocating.
type Memory struct {
	buf      []byte
	pages    uint32
	maxPages uint32
}

// New allocates a Memory with capacity for maxPages, with initialPages
// currently visible.
func New(initialPages, maxPages uint32) *Memory {
	return &Memory{
		buf:      make([]byte, uint64(maxPages)*PageSize),
		pages:    initialPages,
		maxPages: maxPages,
	}
}

// Pages returns the current number of visible 64 KiB pages.
func (m *Memory) Pages() uint32 { return m.pages }

// MaxPages returns the configured growth ceiling.
func (m *Memory) MaxPages() uint32 { return m.maxPages }

// SizeBytes returns the currently visible size in bytes.
func (m *Memory) SizeBytes() uint64 { return uint64(m.pages) * PageSize }

// Base returns the raw backing slice, sized to the currently visible
// region. Treat the returned slice as unstable across a Grow call: this
// implementation only changes the visible length without relocating the
// array, but callers should not depend on that.
func (m *Memory) Base() []byte { return m.buf[:m.SizeBytes()] }

func (m *Memory) inBounds(off, length uint32) bool {
	end := uint64(off) + uint64(length)
	return end <= m.SizeBytes()
}

// Read copies length bytes starting at off into dst. Returns false if the
// access is out of bounds (callers translate that into a BOUNDS trap).
func (m *Memory) Read(off uint32, dst []byte) bool {
	if !m.inBounds(off, uint32(len(dst))) {
		return false
	}
	copy(dst, m.buf[off:uint64(off)+uint64(len(dst))])
	return true
}

// Write copies src into memory starting at off.
func (m *Memory) Write(off uint32, src []byte) bool {
	if !m.inBounds(off, uint32(len(src))) {
		return false
	}
	copy(m.buf[off:uint64(off)+uint64(len(src))], src)
	return true
}

// Copy performs an overlap-safe copy of length bytes from src to dst within
// this memory.
func (m *Memory) Copy(dst, src, length uint32) bool {
	if !m.inBounds(dst, length) || !m.inBounds(src, length) {
		return false
	}
	copy(m.buf[dst:uint64(dst)+uint64(length)], m.buf[src:uint64(src)+uint64(length)])
	return true
}

// Fill sets length bytes starting at off to val.
func (m *Memory) Fill(off uint32, val byte, length uint32) bool {
	if !m.inBounds(off, length) {
		return false
	}
	region := m.buf[off : uint64(off)+uint64(length)]
	for i := range region {
		region[i] = val
	}
	return true
}

// Grow adds delta pages. On success it returns the previous page count and
// true; newly added pages are zeroed. If the result would exceed maxPages,
// memory is left unchanged and it returns (0, false) — callers translate
// that into a sentinel failure result of their choosing.
func (m *Memory) Grow(delta uint32) (previous uint32, ok bool) {
	newPages := uint64(m.pages) + uint64(delta)
	if newPages > uint64(m.maxPages) {
		return 0, false
	}
	previous = m.pages
	// buf is already sized to maxPages*PageSize; only the newly-visible
	// region needs zeroing, since previously-visible bytes are untouched
	// and anything beyond maxPages is never reachable.
	start := uint64(previous) * PageSize
	end := newPages * PageSize
	for i := start; i < end; i++ {
		m.buf[i] = 0
	}
	m.pages = uint32(newPages)
	return previous, true
}
