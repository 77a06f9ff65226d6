package module

import (
	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/binary"
)

// Load parses and validates a container, returning an owning Module on
// success. It never executes guest code.
func Load(raw []byte) (*Module, *api.Error) {
	hdr, body, err := binary.ParseHeader(raw)
	if err != nil {
		return nil, api.Newf(api.BADMAGIC, "%s", err)
	}
	if hdr.Version != binary.Version {
		return nil, api.Newf(api.VERSION, "got version %d, want %d", hdr.Version, binary.Version)
	}
	if !hdr.VerifyCRC(body) {
		return nil, api.Newf(api.BADMODULE, "crc32 mismatch")
	}

	m := &Module{raw: raw, InitFunc: -1}
	var (
		haveFuncSection bool
		bodyDefs        []funcBodyDef
		haveCodeSection bool
		codeWords       [][]uint32
	)

	r := binary.NewReader(body)
	for r.Len() > 0 {
		id, sErr := r.U8()
		if sErr != nil {
			return nil, api.Newf(api.BADMODULE, "%s", sErr)
		}
		size, sErr := r.U32()
		if sErr != nil {
			return nil, api.Newf(api.BADMODULE, "%s", sErr)
		}
		payload, sErr := r.Bytes(int(size))
		if sErr != nil {
			return nil, api.Newf(api.BADMODULE, "section %d: %s", id, sErr)
		}

		switch binary.SectionID(id) {
		case binary.SectionType:
			if aerr := decodeTypeSection(m, payload); aerr != nil {
				return nil, aerr
			}
		case binary.SectionImport:
			if aerr := decodeImportSection(m, payload); aerr != nil {
				return nil, aerr
			}
		case binary.SectionFunc:
			defs, aerr := decodeFuncSection(payload)
			if aerr != nil {
				return nil, aerr
			}
			bodyDefs = defs
			haveFuncSection = true
		case binary.SectionMemory:
			if aerr := decodeMemorySection(m, payload); aerr != nil {
				return nil, aerr
			}
		case binary.SectionGlobal:
			if aerr := decodeGlobalSection(m, payload); aerr != nil {
				return nil, aerr
			}
		case binary.SectionExport:
			if aerr := decodeExportSection(m, payload); aerr != nil {
				return nil, aerr
			}
		case binary.SectionCode:
			words, aerr := decodeCodeSection(payload)
			if aerr != nil {
				return nil, aerr
			}
			codeWords = words
			haveCodeSection = true
		case binary.SectionData:
			if aerr := decodeDataSection(m, payload); aerr != nil {
				return nil, aerr
			}
		default:
			// Unknown section ID: skip for forward compatibility.
		}
	}

	if haveFuncSection != haveCodeSection {
		return nil, api.Newf(api.BADMODULE, "func section present=%t but code section present=%t", haveFuncSection, haveCodeSection)
	}
	if haveFuncSection {
		if len(bodyDefs) != len(codeWords) {
			return nil, api.Newf(api.BADMODULE, "func body_count %d != code body_count %d", len(bodyDefs), len(codeWords))
		}
		total := len(m.Imports) + len(bodyDefs)
		if total > MaxFunctions {
			return nil, api.Newf(api.BADMODULE, "too many functions: %d", total)
		}
		m.Functions = make([]Function, 0, total)
		for i := range m.Imports {
			m.Functions = append(m.Functions, Function{IsImport: true, ImportIdx: uint32(i), TypeIdx: m.Imports[i].TypeIdx})
		}
		for i, def := range bodyDefs {
			if int(def.typeIdx) >= len(m.Types) {
				return nil, api.Newf(api.BADMODULE, "func %d: type index %d out of range", i, def.typeIdx)
			}
			m.Functions = append(m.Functions, Function{
				TypeIdx:    uint32(def.typeIdx),
				RegCount:   def.regCount,
				LocalCount: def.localCount,
				Code:       codeWords[i],
			})
		}
	} else {
		for i := range m.Imports {
			m.Functions = append(m.Functions, Function{IsImport: true, ImportIdx: uint32(i), TypeIdx: m.Imports[i].TypeIdx})
		}
	}

	if m.Memory.MaxPages == 0 {
		m.Memory.MaxPages = m.Memory.InitialPages
	}

	if aerr := validateExports(m); aerr != nil {
		return nil, aerr
	}
	if aerr := validateData(m); aerr != nil {
		return nil, aerr
	}

	m.buildExportIndex()
	if fi, ok := m.ExportedFunc(binary.InitFuncName); ok {
		m.InitFunc = int32(fi)
	}

	return m, nil
}

func (m *Module) buildExportIndex() {
	m.exportFuncByName = map[string]int{}
	m.exportMemoryByName = map[string]int{}
	m.exportGlobalByName = map[string]int{}
	for i, e := range m.Exports {
		switch e.Kind {
		case ExportFunc:
			m.exportFuncByName[e.Name] = i
		case ExportMemory:
			m.exportMemoryByName[e.Name] = i
		case ExportGlobal:
			m.exportGlobalByName[e.Name] = i
		}
	}
}

type funcBodyDef struct {
	typeIdx              uint16
	regCount, localCount uint8
}

func decodeTypeSection(m *Module, payload []byte) *api.Error {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return api.Newf(api.BADMODULE, "type section: %s", err)
	}
	if count > MaxTypes {
		return api.Newf(api.BADMODULE, "too many types: %d", count)
	}
	m.Types = make([]api.FuncType, 0, count)
	for i := uint32(0); i < count; i++ {
		pc, err := r.U8()
		if err != nil {
			return api.Newf(api.BADMODULE, "type %d: %s", i, err)
		}
		rc, err := r.U8()
		if err != nil {
			return api.Newf(api.BADMODULE, "type %d: %s", i, err)
		}
		if pc > api.MaxParams {
			return api.Newf(api.BADMODULE, "type %d: %d params exceeds max %d", i, pc, api.MaxParams)
		}
		if rc > 1 {
			return api.Newf(api.BADMODULE, "type %d: %d results exceeds max 1", i, rc)
		}
		params := make([]api.ValueKind, pc)
		for j := range params {
			b, err := r.U8()
			if err != nil {
				return api.Newf(api.BADMODULE, "type %d: %s", i, err)
			}
			params[j] = api.ValueKind(b)
		}
		results := make([]api.ValueKind, rc)
		for j := range results {
			b, err := r.U8()
			if err != nil {
				return api.Newf(api.BADMODULE, "type %d: %s", i, err)
			}
			results[j] = api.ValueKind(b)
		}
		m.Types = append(m.Types, api.FuncType{Params: params, Results: results})
	}
	return nil
}

func decodeImportSection(m *Module, payload []byte) *api.Error {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return api.Newf(api.BADMODULE, "import section: %s", err)
	}
	if count > MaxImports {
		return api.Newf(api.BADMODULE, "too many imports: %d", count)
	}
	m.Imports = make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		mod, err := r.Str8()
		if err != nil {
			return api.Newf(api.BADMODULE, "import %d: %s", i, err)
		}
		name, err := r.Str8()
		if err != nil {
			return api.Newf(api.BADMODULE, "import %d: %s", i, err)
		}
		typeIdx, err := r.U16()
		if err != nil {
			return api.Newf(api.BADMODULE, "import %d: %s", i, err)
		}
		if int(typeIdx) >= len(m.Types) {
			return api.Newf(api.BADMODULE, "import %d: type index %d out of range", i, typeIdx)
		}
		m.Imports = append(m.Imports, Import{Module: mod, Name: name, TypeIdx: uint32(typeIdx)})
	}
	return nil
}

func decodeFuncSection(payload []byte) ([]funcBodyDef, *api.Error) {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return nil, api.Newf(api.BADMODULE, "func section: %s", err)
	}
	if count > MaxFunctions {
		return nil, api.Newf(api.BADMODULE, "too many function bodies: %d", count)
	}
	defs := make([]funcBodyDef, 0, count)
	for i := uint32(0); i < count; i++ {
		typeIdx, err := r.U16()
		if err != nil {
			return nil, api.Newf(api.BADMODULE, "func %d: %s", i, err)
		}
		regCount, err := r.U8()
		if err != nil {
			return nil, api.Newf(api.BADMODULE, "func %d: %s", i, err)
		}
		localCount, err := r.U8()
		if err != nil {
			return nil, api.Newf(api.BADMODULE, "func %d: %s", i, err)
		}
		defs = append(defs, funcBodyDef{typeIdx, regCount, localCount})
	}
	return defs, nil
}

func decodeMemorySection(m *Module, payload []byte) *api.Error {
	r := binary.NewReader(payload)
	initial, err := r.U16()
	if err != nil {
		return api.Newf(api.BADMODULE, "memory section: %s", err)
	}
	max, err := r.U16()
	if err != nil {
		return api.Newf(api.BADMODULE, "memory section: %s", err)
	}
	if max != 0 && max < initial {
		return api.Newf(api.BADMODULE, "memory: max pages %d < initial pages %d", max, initial)
	}
	m.Memory = MemoryLimits{HasMemory: true, InitialPages: uint32(initial), MaxPages: uint32(max)}
	return nil
}

func decodeGlobalSection(m *Module, payload []byte) *api.Error {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return api.Newf(api.BADMODULE, "global section: %s", err)
	}
	if count > MaxGlobals {
		return api.Newf(api.BADMODULE, "too many globals: %d", count)
	}
	m.Globals = make([]Global, 0, count)
	for i := uint32(0); i < count; i++ {
		kind, err := r.U8()
		if err != nil {
			return api.Newf(api.BADMODULE, "global %d: %s", i, err)
		}
		mutable, err := r.U8()
		if err != nil {
			return api.Newf(api.BADMODULE, "global %d: %s", i, err)
		}
		raw, err := r.U64()
		if err != nil {
			return api.Newf(api.BADMODULE, "global %d: %s", i, err)
		}
		m.Globals = append(m.Globals, Global{Kind: api.ValueKind(kind), Mutable: mutable != 0, Init: raw})
	}
	return nil
}

func decodeExportSection(m *Module, payload []byte) *api.Error {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return api.Newf(api.BADMODULE, "export section: %s", err)
	}
	if count > MaxExports {
		return api.Newf(api.BADMODULE, "too many exports: %d", count)
	}
	m.Exports = make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		kind, err := r.U8()
		if err != nil {
			return api.Newf(api.BADMODULE, "export %d: %s", i, err)
		}
		index, err := r.U32()
		if err != nil {
			return api.Newf(api.BADMODULE, "export %d: %s", i, err)
		}
		name, err := r.Str8()
		if err != nil {
			return api.Newf(api.BADMODULE, "export %d: %s", i, err)
		}
		if kind > uint8(ExportGlobal) {
			return api.Newf(api.BADMODULE, "export %d: bad kind %d", i, kind)
		}
		m.Exports = append(m.Exports, Export{Kind: ExportKind(kind), Index: index, Name: name})
	}
	return nil
}

func decodeCodeSection(payload []byte) ([][]uint32, *api.Error) {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return nil, api.Newf(api.BADMODULE, "code section: %s", err)
	}
	if count > MaxFunctions {
		return nil, api.Newf(api.BADMODULE, "too many code bodies: %d", count)
	}
	out := make([][]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		size, err := r.U32()
		if err != nil {
			return nil, api.Newf(api.BADMODULE, "code %d: %s", i, err)
		}
		if size%4 != 0 {
			return nil, api.Newf(api.BADMODULE, "code %d: size %d not word-aligned", i, size)
		}
		raw, err := r.Bytes(int(size))
		if err != nil {
			return nil, api.Newf(api.BADMODULE, "code %d: %s", i, err)
		}
		words := make([]uint32, size/4)
		for w := range words {
			words[w] = uint32(raw[w*4]) | uint32(raw[w*4+1])<<8 | uint32(raw[w*4+2])<<16 | uint32(raw[w*4+3])<<24
		}
		out = append(out, words)
	}
	return out, nil
}

func decodeDataSection(m *Module, payload []byte) *api.Error {
	r := binary.NewReader(payload)
	count, err := r.U32()
	if err != nil {
		return api.Newf(api.BADMODULE, "data section: %s", err)
	}
	if count > MaxDataSegs {
		return api.Newf(api.BADMODULE, "too many data segments: %d", count)
	}
	m.Data = make([]DataSegment, 0, count)
	for i := uint32(0); i < count; i++ {
		memIdx, err := r.U8()
		if err != nil {
			return api.Newf(api.BADMODULE, "data %d: %s", i, err)
		}
		offset, err := r.U32()
		if err != nil {
			return api.Newf(api.BADMODULE, "data %d: %s", i, err)
		}
		size, err := r.U32()
		if err != nil {
			return api.Newf(api.BADMODULE, "data %d: %s", i, err)
		}
		if size > MaxDataBytes {
			return api.Newf(api.BADMODULE, "data %d: %d bytes exceeds max %d", i, size, MaxDataBytes)
		}
		raw, err := r.Bytes(int(size))
		if err != nil {
			return api.Newf(api.BADMODULE, "data %d: %s", i, err)
		}
		owned := make([]byte, len(raw))
		copy(owned, raw)
		m.Data = append(m.Data, DataSegment{MemIdx: memIdx, Offset: offset, Bytes: owned})
	}
	return nil
}

func validateExports(m *Module) *api.Error {
	seen := map[Export]bool{}
	for i, e := range m.Exports {
		key := Export{Kind: e.Kind, Name: e.Name}
		if seen[key] {
			return api.Newf(api.BADMODULE, "export %d %q: duplicate name for its kind", i, e.Name)
		}
		seen[key] = true
		switch e.Kind {
		case ExportFunc:
			if int(e.Index) >= len(m.Functions) {
				return api.Newf(api.BADMODULE, "export %d %q: function index %d out of range", i, e.Name, e.Index)
			}
		case ExportMemory:
			if !m.Memory.HasMemory || e.Index != 0 {
				return api.Newf(api.BADMODULE, "export %d %q: no such memory %d", i, e.Name, e.Index)
			}
		case ExportGlobal:
			if int(e.Index) >= len(m.Globals) {
				return api.Newf(api.BADMODULE, "export %d %q: global index %d out of range", i, e.Name, e.Index)
			}
		}
	}
	return nil
}

func validateData(m *Module) *api.Error {
	if len(m.Data) == 0 {
		return nil
	}
	if !m.Memory.HasMemory {
		return api.Newf(api.BADMODULE, "data segments present but module declares no memory")
	}
	limit := uint64(m.Memory.InitialPages) * binary.PageSize
	for i, d := range m.Data {
		if d.MemIdx != 0 {
			return api.Newf(api.BADMODULE, "data %d: only memory index 0 is supported", i)
		}
		end := uint64(d.Offset) + uint64(len(d.Bytes))
		if end > limit {
			return api.Newf(api.BADMODULE, "data %d: [%d,%d) exceeds initial memory %d bytes", i, d.Offset, end, limit)
		}
	}
	return nil
}
