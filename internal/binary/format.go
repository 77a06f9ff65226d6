// Package binary implements the on-disk container format: a fixed 20-byte
// header followed by length-prefixed sections. It holds only mechanical
// encode/decode helpers — module-level validation lives in internal/module.
package binary

// Magic is the fixed 4-byte ASCII tag every container must start with.
var Magic = [4]byte{'R', 'U', 'N', 'E'}

// Version is the only container version this loader accepts. Bumping this
// is a breaking change to the container format, not to the Go API.
const Version uint32 = 1

// HeaderSize is the number of bytes before the first section:
// magic(4) + version(4) + flags(4) + reserved(4) + crc32(4).
const HeaderSize = 20

// SectionID identifies a top-level section. Unknown IDs are skipped by the
// loader for forward compatibility.
type SectionID uint8

const (
	SectionType SectionID = iota + 1
	SectionImport
	SectionFunc
	SectionMemory
	SectionGlobal
	SectionExport
	SectionCode
	SectionData
)

func (id SectionID) String() string {
	switch id {
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunc:
		return "func"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	default:
		return "unknown"
	}
}

// ExportKind mirrors module.ExportKind at the wire level.
type ExportKind uint8

const (
	ExportKindFunc ExportKind = iota
	ExportKindMemory
	ExportKindGlobal
)

// PageSize is 64 KiB, the fixed granularity of linear memory.
const PageSize = 64 * 1024

// InitFuncName is the reserved export name the loader treats specially: if
// present (and a function export), it is recorded as the module's
// auto-run init function.
const InitFuncName = "_init"
