package rune

import (
	"sync/atomic"

	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/interp"
)

// HostFunc is the shape of a host-provided callback supplied to
// VM.Register: it receives the VM handle, the staged argument values, a
// pointer to the result slot, and the opaque user value supplied at
// registration.
type HostFunc func(vm *VM, args []api.Value, result *api.Value, user any) api.Code

// VM is a mutable execution context bound to one Module. Not safe for
// concurrent use by multiple goroutines; distinct VMs may run concurrently
// on different goroutines.
type VM struct {
	vm  *interp.VM
	mod *Module
}

// NewVM allocates frames and the host table; it does not touch memory yet.
// A nil cfg uses NewVMConfig()'s defaults.
func (m *Module) NewVM(cfg *VMConfig) *VM {
	if cfg == nil {
		cfg = NewVMConfig()
	}
	atomic.AddInt32(&m.vmCount, 1)
	iv := interp.New(m.m, cfg.cfg)
	if cfg.logger != nil {
		iv.SetLogger(cfg.logger)
	}
	return &VM{vm: iv, mod: m}
}

// Register installs a host callback for (module, name). Last registration
// wins on a duplicate (module, name) pair. Registration after Init is
// rejected.
func (v *VM) Register(module, name string, fn HostFunc, user any) error {
	wrapped := func(_ *interp.VM, args []api.Value, result *api.Value, u any) api.Code {
		return fn(v, args, result, u)
	}
	if err := v.vm.Register(module, name, wrapped, user); err != nil {
		return err
	}
	return nil
}

// Init resolves imports, allocates linear memory, applies data segments,
// copies globals, and runs _init if the module declares one. On failure
// the VM is left uninitialized but still freeable.
func (v *VM) Init() error {
	if err := v.vm.Init(); err != nil {
		return err
	}
	return nil
}

// Call locates an exported function by name and executes it. Returns a
// NOEXPORT *api.Error if the name is missing.
func (v *VM) Call(name string, args ...api.Value) (api.Value, error) {
	res, err := v.vm.Call(name, args)
	if err != nil {
		return res, err
	}
	return res, nil
}

// LastError returns the most recently recorded detailed error.
func (v *VM) LastError() *api.Error { return v.vm.LastError() }

// Refuel resets the fuel counter and sets a new instruction budget.
func (v *VM) Refuel(budget uint64) { v.vm.Refuel(budget) }

// Stats exposes ambient observability over fuel/stack counters.
func (v *VM) Stats() interp.Stats { return v.vm.Stats() }

// MemoryBase returns the raw backing slice of linear memory, sized to the
// currently visible region. The host must not retain it across MemoryGrow.
func (v *VM) MemoryBase() []byte {
	if v.vm.Memory() == nil {
		return nil
	}
	return v.vm.Memory().Base()
}

// MemorySize returns the current page count.
func (v *VM) MemorySize() uint32 {
	if v.vm.Memory() == nil {
		return 0
	}
	return v.vm.Memory().Pages()
}

// MemoryGrow adds pages of memory, returning the previous page count, or -1
// if the growth would exceed the configured maximum or the VM has not been
// initialized yet.
func (v *VM) MemoryGrow(pages uint32) int32 {
	if v.vm.Memory() == nil {
		return -1
	}
	prev, ok := v.vm.Memory().Grow(pages)
	if !ok {
		return -1
	}
	return int32(prev)
}

// MemoryRead copies len(dst) bytes starting at off into dst.
func (v *VM) MemoryRead(off uint32, dst []byte) error {
	if v.vm.Memory() == nil {
		return api.Newf(api.BOUNDS, "memory_read: VM has no memory until Init succeeds")
	}
	if !v.vm.Memory().Read(off, dst) {
		return api.Newf(api.BOUNDS, "memory_read [%d,%d) out of bounds", off, uint64(off)+uint64(len(dst)))
	}
	return nil
}

// MemoryWrite copies src into memory starting at off.
func (v *VM) MemoryWrite(off uint32, src []byte) error {
	if v.vm.Memory() == nil {
		return api.Newf(api.BOUNDS, "memory_write: VM has no memory until Init succeeds")
	}
	if !v.vm.Memory().Write(off, src) {
		return api.Newf(api.BOUNDS, "memory_write [%d,%d) out of bounds", off, uint64(off)+uint64(len(src)))
	}
	return nil
}

// Global reads a global's current value by index.
func (v *VM) Global(idx uint32) api.Value { return v.vm.Global(idx) }

// SetGlobal writes a global's current value by index. The host is trusted
// not to violate a non-mutable global's declared immutability; the
// interpreter itself only enforces this for guest bytecode, and even there
// mutability is not checked at load time.
func (v *VM) SetGlobal(idx uint32, val api.Value) { v.vm.SetGlobal(idx, val) }

// Close releases the VM's reference to its Module.
func (v *VM) Close() error {
	atomic.AddInt32(&v.mod.vmCount, -1)
	return nil
}
