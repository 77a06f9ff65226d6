package interp

import (
	"log"

	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/binary"
	"github.com/venkatezh-13/rune/internal/memory"
	"github.com/venkatezh-13/rune/internal/module"
)

// VM is a mutable execution context bound to one Module. It is not safe
// for concurrent use by multiple goroutines; distinct VMs share nothing
// but the read-only Module.
type VM struct {
	mod *module.Module
	cfg Config

	memory  *memory.Memory
	globals []api.Value

	hosts          *hostTable
	resolvedHosts  []hostEntry // index by import function index, valid after Init
	importResolved []bool

	frames     []frame
	frameCount int
	maxDepth   int // high-water mark, for Stats()

	argBuf     [16]api.Value
	argMaxSlot int // -1 means no slots staged

	fuelEnabled   bool
	fuelRemaining uint64

	initialized bool
	lastErr     *api.Error
	logger      *log.Logger
}

// New allocates frames and the host table; it does not touch memory, that
// happens at Init.
func New(mod *module.Module, cfg Config) *VM {
	if cfg.StackSize <= 0 {
		cfg.StackSize = DefaultConfig().StackSize
	}
	if cfg.MemoryLimit == 0 {
		cfg.MemoryLimit = DefaultConfig().MemoryLimit
	}
	return &VM{
		mod:            mod,
		cfg:            cfg,
		hosts:          newHostTable(),
		importResolved: make([]bool, len(mod.Imports)),
		frames:         make([]frame, cfg.StackSize),
		argMaxSlot:     -1,
		fuelEnabled:    cfg.FuelLimit > 0,
		fuelRemaining:  cfg.FuelLimit,
	}
}

// SetLogger installs a diagnostic logger for host-call and trap messages.
// Never called on the hot dispatch path.
func (vm *VM) SetLogger(l *log.Logger) { vm.logger = l }

func (vm *VM) logf(format string, args ...any) {
	if vm.logger != nil {
		vm.logger.Printf(format, args...)
	}
}

// Register installs a host callback for (module, name). Registration after
// Init is rejected to prevent mid-call mutation of the host table.
func (vm *VM) Register(module, name string, fn HostFunc, user any) *api.Error {
	if vm.initialized {
		return api.Newf(api.HOST_ERROR, "cannot register host function %s::%s after init", module, name)
	}
	vm.hosts.register(module, name, fn, user)
	return nil
}

// Initialized reports whether Init has completed successfully.
func (vm *VM) Initialized() bool { return vm.initialized }

// LastError returns the most recently recorded detailed error.
func (vm *VM) LastError() *api.Error { return vm.lastErr }

// Stats is ambient observability over the counters the VM already keeps
// for its own bookkeeping.
type Stats struct {
	FuelConsumed   uint64
	FrameHighWater int
}

func (vm *VM) Stats() Stats {
	consumed := uint64(0)
	if vm.fuelEnabled {
		consumed = vm.cfg.FuelLimit - vm.fuelRemaining
	}
	return Stats{FuelConsumed: consumed, FrameHighWater: vm.maxDepth}
}

// Refuel resets the instruction counter and sets a new budget.
func (vm *VM) Refuel(budget uint64) {
	vm.fuelEnabled = true
	vm.cfg.FuelLimit = budget
	vm.fuelRemaining = budget
}

// Init resolves imports, allocates linear memory, applies data segments,
// copies globals, and — if the module declares one — runs _init. Any
// failure leaves the VM uninitialized but still freeable.
func (vm *VM) Init() *api.Error {
	vm.resolvedHosts = make([]hostEntry, len(vm.mod.Imports))
	for i, imp := range vm.mod.Imports {
		e, ok := vm.hosts.lookup(imp.Module, imp.Name)
		if !ok {
			return api.Newf(api.NOIMPORT, "unresolved import %s::%s", imp.Module, imp.Name)
		}
		vm.resolvedHosts[i] = e
		vm.importResolved[i] = true
	}

	initialPages, maxPages := uint32(0), uint32(0)
	if vm.mod.Memory.HasMemory {
		initialPages, maxPages = vm.mod.Memory.InitialPages, vm.mod.Memory.MaxPages
	}
	if uint64(maxPages)*binary.PageSize > vm.cfg.MemoryLimit {
		return api.Newf(api.OOM, "memory_max %d pages (%d bytes) exceeds memory_limit %d bytes", maxPages, uint64(maxPages)*binary.PageSize, vm.cfg.MemoryLimit)
	}
	vm.memory = memory.New(initialPages, maxPages)
	for _, d := range vm.mod.Data {
		if !vm.memory.Write(d.Offset, d.Bytes) {
			// Already validated against InitialPages at load time; this
			// would only happen if validation and instantiation disagree.
			return api.Newf(api.BADMODULE, "data segment at %d does not fit in memory", d.Offset)
		}
	}

	vm.globals = make([]api.Value, len(vm.mod.Globals))
	for i, g := range vm.mod.Globals {
		vm.globals[i] = api.FromBits(g.Kind, g.Init)
	}

	vm.initialized = true

	if vm.mod.InitFunc >= 0 {
		if _, err := vm.callFunction(uint32(vm.mod.InitFunc), nil); err != nil {
			vm.initialized = false
			vm.lastErr = err
			return err
		}
	}
	return nil
}

// Call locates an exported function by name and executes it. Returns
// NOEXPORT if the name is missing.
func (vm *VM) Call(name string, args []api.Value) (api.Value, *api.Error) {
	if !vm.initialized {
		err := api.Newf(api.NOEXPORT, "vm not initialized")
		vm.lastErr = err
		return api.Void(), err
	}
	fi, ok := vm.mod.ExportedFunc(name)
	if !ok {
		err := api.Newf(api.NOEXPORT, "no such export %q", name)
		vm.lastErr = err
		return api.Void(), err
	}
	res, err := vm.callFunction(fi, args)
	if err != nil {
		vm.lastErr = err
	}
	return res, err
}

// Memory exposes the linear memory for host access. Returns nil until
// Init has completed successfully.
func (vm *VM) Memory() *memory.Memory { return vm.memory }

// Global reads/writes a global by index, for hosts that export globals.
func (vm *VM) Global(idx uint32) api.Value { return vm.globals[idx] }
func (vm *VM) SetGlobal(idx uint32, v api.Value) {
	vm.globals[idx] = api.FromBits(v.Kind, v.Bits())
}

func (vm *VM) Module() *module.Module { return vm.mod }
