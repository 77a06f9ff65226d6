// Package rune is the public embedding surface of the runtime: load a
// module, instantiate a VM, register host callbacks, call exports, and
// read/write linear memory. It is a thin, opaque-handle wrapper over
// internal/module and internal/interp.
package rune

import (
	"sync/atomic"

	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/module"
)

// Runtime is a container-of-modules handle. It carries no state beyond
// lifetime bookkeeping: modules and VMs are independently freeable once
// loaded.
type Runtime struct {
	closed bool
}

// NewRuntime creates a Runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Close releases the Runtime. It does not require every Module/VM it
// produced to be closed first — those are independently owned handles.
func (r *Runtime) Close() error {
	r.closed = true
	return nil
}

// Module is a validated, read-only parsed container.
type Module struct {
	m       *module.Module
	vmCount int32 // guarded by atomic; live VM handles referencing this module
}

// LoadModule parses and validates container bytes. It never executes guest
// code.
func (r *Runtime) LoadModule(bytes []byte) (*Module, error) {
	m, err := module.Load(bytes)
	if err != nil {
		return nil, err
	}
	return &Module{m: m}, nil
}

// Close frees the module. It is an error to close a Module while any VM
// still references it.
func (m *Module) Close() error {
	if atomic.LoadInt32(&m.vmCount) > 0 {
		return api.Newf(api.BADMODULE, "module still referenced by %d live VM(s)", atomic.LoadInt32(&m.vmCount))
	}
	return nil
}

// ExportNames lists the module's exported function names.
func (m *Module) ExportNames() []string { return m.m.ExportNames() }

// Exports lists every export — function, memory, and global alike — as a
// read-only descriptor, for a host that wants to enumerate a module's full
// surface rather than look up names one kind at a time.
func (m *Module) Exports() []module.ExportDescriptor { return m.m.ExportDescriptors() }

// Imports lists the module's required host imports and their function
// types, so a host can check it can satisfy a module before calling NewVM.
func (m *Module) Imports() []module.ImportDescriptor { return m.m.ImportDescriptors() }
