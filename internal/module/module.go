package module

import "github.com/venkatezh-13/rune/api"

// Module is a validated, read-only parsed container. It keeps a reference
// to the bytes it was loaded from (not a copy); Function.Code and data
// segment bytes are decoded into their own buffers and do not alias them.
type Module struct {
	raw []byte // the full container bytes this module was loaded from

	Types     []api.FuncType
	Imports   []Import
	Functions []Function // len == len(Imports) + body count; [0:len(Imports)] are imports
	Memory    MemoryLimits
	Globals   []Global
	Exports   []Export
	Data      []DataSegment

	// InitFunc is the function index exported as "_init", or -1 if absent.
	InitFunc int32

	exportFuncByName   map[string]int
	exportMemoryByName map[string]int
	exportGlobalByName map[string]int
}

// FuncType returns the function type of function index fi.
func (m *Module) FuncType(fi uint32) api.FuncType {
	return m.Types[m.Functions[fi].TypeIdx]
}

// NumImports is the count of imported functions, i.e. the low end of the
// function index space.
func (m *Module) NumImports() int {
	return len(m.Imports)
}

// ExportedFunc looks up a FUNC export by name.
func (m *Module) ExportedFunc(name string) (funcIdx uint32, ok bool) {
	i, ok := m.exportFuncByName[name]
	if !ok {
		return 0, false
	}
	return m.Exports[i].Index, true
}

// ExportedMemory looks up a MEMORY export by name.
func (m *Module) ExportedMemory(name string) (ok bool) {
	_, ok = m.exportMemoryByName[name]
	return ok
}

// ExportedGlobal looks up a GLOBAL export by name.
func (m *Module) ExportedGlobal(name string) (globalIdx uint32, ok bool) {
	i, ok := m.exportGlobalByName[name]
	if !ok {
		return 0, false
	}
	return m.Exports[i].Index, true
}

// ExportNames returns the exported function names, for hosts that want to
// enumerate a module's callable surface without walking Exports themselves.
func (m *Module) ExportNames() []string {
	names := make([]string, 0, len(m.exportFuncByName))
	for name := range m.exportFuncByName {
		names = append(names, name)
	}
	return names
}

// ExportDescriptors returns every export — function, memory, and global
// alike — as a read-only view, for a host that wants to enumerate a
// module's full surface rather than look up names one at a time.
func (m *Module) ExportDescriptors() []ExportDescriptor {
	out := make([]ExportDescriptor, len(m.Exports))
	for i, e := range m.Exports {
		out[i] = ExportDescriptor{Kind: e.Kind, Index: e.Index, Name: e.Name}
	}
	return out
}

// ExportDescriptor is a read-only view of one export.
type ExportDescriptor struct {
	Kind  ExportKind
	Index uint32
	Name  string
}

// ImportDescriptors lists every required import with its resolved function
// type, for a host that wants to check it can satisfy a module before
// constructing a VM.
func (m *Module) ImportDescriptors() []ImportDescriptor {
	out := make([]ImportDescriptor, len(m.Imports))
	for i, imp := range m.Imports {
		out[i] = ImportDescriptor{Module: imp.Module, Name: imp.Name, Type: m.Types[imp.TypeIdx]}
	}
	return out
}

// ImportDescriptor is a read-only view of one required import.
type ImportDescriptor struct {
	Module, Name string
	Type         api.FuncType
}
