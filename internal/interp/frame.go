package interp

import "github.com/venkatezh-13/rune/api"

// frame is one function activation: a program counter into the callee's
// code and a fixed-size register window. Windows are lazily allocated on
// first use and zeroed on re-entry rather than reallocated, so a VM that
// calls the same depth repeatedly does not churn the allocator.
type frame struct {
	funcIdx uint32
	pc      uint32
	regs    []api.Value
}

// reset prepares the frame's register window for a fresh activation of n
// registers, reusing backing storage when the window is already large
// enough.
func (f *frame) reset(funcIdx uint32, n int) {
	f.funcIdx = funcIdx
	f.pc = 0
	if cap(f.regs) < n {
		f.regs = make([]api.Value, n)
		return
	}
	f.regs = f.regs[:n]
	for i := range f.regs {
		f.regs[i] = api.Value{}
	}
}
