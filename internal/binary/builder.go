package binary

import (
	"encoding/binary"

	"github.com/venkatezh-13/rune/api"
)

// Builder assembles container bytes section by section. It exists purely
// for tests, which need some way to produce well-formed container bytes to
// feed the loader without a standalone assembler front-end.
type Builder struct {
	types    []api.FuncType
	imports  []importDef
	funcs    []funcDef
	memInit  uint16
	memMax   uint16
	haveMem  bool
	globals  []globalDef
	exports  []exportDef
	code     [][]uint32
	data     []dataDef
}

type importDef struct {
	module, name string
	typeIdx      uint16
}

type funcDef struct {
	typeIdx             uint16
	regCount, localCount uint8
}

type globalDef struct {
	kind    api.ValueKind
	mutable bool
	raw     uint64
}

type exportDef struct {
	kind  ExportKind
	index uint32
	name  string
}

type dataDef struct {
	memIdx uint8
	offset uint32
	bytes  []byte
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) AddType(params, results []api.ValueKind) uint16 {
	idx := len(b.types)
	b.types = append(b.types, api.FuncType{Params: params, Results: results})
	return uint16(idx)
}

func (b *Builder) AddImport(module, name string, typeIdx uint16) uint32 {
	idx := len(b.imports)
	b.imports = append(b.imports, importDef{module, name, typeIdx})
	return uint32(idx)
}

// AddFunc declares a body function and its code in one step; the returned
// index is the global function index (imports occupy the low range).
func (b *Builder) AddFunc(typeIdx uint16, regCount, localCount uint8, code []uint32) uint32 {
	b.funcs = append(b.funcs, funcDef{typeIdx, regCount, localCount})
	b.code = append(b.code, code)
	return uint32(len(b.imports) + len(b.funcs) - 1)
}

func (b *Builder) SetMemory(initialPages, maxPages uint16) {
	b.haveMem = true
	b.memInit, b.memMax = initialPages, maxPages
}

func (b *Builder) AddGlobal(kind api.ValueKind, mutable bool, raw uint64) uint32 {
	idx := len(b.globals)
	b.globals = append(b.globals, globalDef{kind, mutable, raw})
	return uint32(idx)
}

func (b *Builder) AddExportFunc(index uint32, name string) {
	b.exports = append(b.exports, exportDef{ExportKindFunc, index, name})
}

func (b *Builder) AddExportMemory(index uint32, name string) {
	b.exports = append(b.exports, exportDef{ExportKindMemory, index, name})
}

func (b *Builder) AddExportGlobal(index uint32, name string) {
	b.exports = append(b.exports, exportDef{ExportKindGlobal, index, name})
}

func (b *Builder) AddData(memIdx uint8, offset uint32, bytes []byte) {
	b.data = append(b.data, dataDef{memIdx, offset, bytes})
}

// Build assembles the header, the type section (always written, even when
// empty) and every other non-empty section into a complete, CRC-checked
// container.
func (b *Builder) Build() []byte {
	var body []byte
	body = append(body, b.buildTypeSection()...)
	if len(b.imports) > 0 {
		body = append(body, b.buildImportSection()...)
	}
	if len(b.funcs) > 0 {
		body = append(body, b.buildFuncSection()...)
	}
	if b.haveMem {
		body = append(body, b.buildMemorySection()...)
	}
	if len(b.globals) > 0 {
		body = append(body, b.buildGlobalSection()...)
	}
	if len(b.exports) > 0 {
		body = append(body, b.buildExportSection()...)
	}
	if len(b.funcs) > 0 {
		body = append(body, b.buildCodeSection()...)
	}
	if len(b.data) > 0 {
		body = append(body, b.buildDataSection()...)
	}

	out := make([]byte, HeaderSize, HeaderSize+len(body))
	copy(out[0:4], Magic[:])
	binary.LittleEndian.PutUint32(out[4:8], Version)
	// flags, reserved left zero
	binary.LittleEndian.PutUint32(out[16:20], Checksum(body))
	out = append(out, body...)
	return out
}

func section(id SectionID, payload []byte) []byte {
	out := make([]byte, 0, 5+len(payload))
	out = append(out, byte(id))
	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], uint32(len(payload)))
	out = append(out, sz[:]...)
	out = append(out, payload...)
	return out
}

func putStr8(dst []byte, s string) []byte {
	dst = append(dst, byte(len(s)))
	return append(dst, s...)
}

func putU32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func putU16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func putU64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func (b *Builder) buildTypeSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.types)))
	for _, t := range b.types {
		p = append(p, byte(len(t.Params)), byte(len(t.Results)))
		for _, v := range t.Params {
			p = append(p, byte(v))
		}
		for _, v := range t.Results {
			p = append(p, byte(v))
		}
	}
	return section(SectionType, p)
}

func (b *Builder) buildImportSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.imports)))
	for _, im := range b.imports {
		p = putStr8(p, im.module)
		p = putStr8(p, im.name)
		p = putU16(p, im.typeIdx)
	}
	return section(SectionImport, p)
}

func (b *Builder) buildFuncSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.funcs)))
	for _, f := range b.funcs {
		p = putU16(p, f.typeIdx)
		p = append(p, f.regCount, f.localCount)
	}
	return section(SectionFunc, p)
}

func (b *Builder) buildMemorySection() []byte {
	var p []byte
	p = putU16(p, b.memInit)
	p = putU16(p, b.memMax)
	return section(SectionMemory, p)
}

func (b *Builder) buildGlobalSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.globals)))
	for _, g := range b.globals {
		p = append(p, byte(g.kind))
		if g.mutable {
			p = append(p, 1)
		} else {
			p = append(p, 0)
		}
		p = putU64(p, g.raw)
	}
	return section(SectionGlobal, p)
}

func (b *Builder) buildExportSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.exports)))
	for _, e := range b.exports {
		p = append(p, byte(e.kind))
		p = putU32(p, e.index)
		p = putStr8(p, e.name)
	}
	return section(SectionExport, p)
}

func (b *Builder) buildCodeSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.code)))
	for _, words := range b.code {
		byteLen := len(words) * 4
		p = putU32(p, uint32(byteLen))
		for _, w := range words {
			p = putU32(p, w)
		}
	}
	return section(SectionCode, p)
}

func (b *Builder) buildDataSection() []byte {
	var p []byte
	p = putU32(p, uint32(len(b.data)))
	for _, d := range b.data {
		p = append(p, d.memIdx)
		p = putU32(p, d.offset)
		p = putU32(p, uint32(len(d.bytes)))
		p = append(p, d.bytes...)
	}
	return section(SectionData, p)
}
