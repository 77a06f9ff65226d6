// Package module holds the parsed, owning representation of a container and
// the loader that produces it from bytes.
package module

import "github.com/venkatezh-13/rune/api"

// Import is a required host-provided function: (module_name, function_name,
// type_index). Import indices occupy the low function-index space: if there
// are K imports, function indices [0..K) are imports and [K..) are bodies.
type Import struct {
	Module, Name string
	TypeIdx      uint32
}

// Function is either an import (IsImport, ImportIdx set) or a body
// (TypeIdx/RegCount/LocalCount/Code set). Code holds the body decoded into
// 32-bit words in its own slice; it does not alias the Module's raw bytes.
type Function struct {
	IsImport   bool
	ImportIdx  uint32 // valid when IsImport
	TypeIdx    uint32
	RegCount   uint8
	LocalCount uint8
	Code       []uint32 // decoded 32-bit words, valid when !IsImport
}

// Global is a template copied into a fresh mutable array at instantiation.
type Global struct {
	Kind    api.ValueKind
	Mutable bool
	Init    uint64 // raw bit pattern, reinterpreted per Kind
}

// MemoryLimits describes the module's single optional memory.
// MaxPages == 0 is normalized to InitialPages at load time.
type MemoryLimits struct {
	HasMemory    bool
	InitialPages uint32
	MaxPages     uint32
}

// DataSegment is a byte-copy applied once at instantiation.
type DataSegment struct {
	MemIdx uint8
	Offset uint32
	Bytes  []byte
}

// ExportKind classifies what an Export names.
type ExportKind uint8

const (
	ExportFunc ExportKind = iota
	ExportMemory
	ExportGlobal
)

// Export is a named handle onto a function, memory, or global. Names are
// unique per kind.
type Export struct {
	Kind  ExportKind
	Index uint32
	Name  string
}
