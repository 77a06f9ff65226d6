package interp

import "github.com/venkatezh-13/rune/api"

// HostFunc is the shape of a host-provided callback: it receives the VM,
// the staged argument values, a pointer to the result slot, and the opaque
// user value supplied at registration. Its return Code is propagated: OK
// lets execution continue, anything else aborts the current call and
// becomes that call's result.
type HostFunc func(vm *VM, args []api.Value, result *api.Value, user any) api.Code

type hostEntry struct {
	fn   HostFunc
	user any
}

// hostKey is the (module, name) pair host functions are registered and
// resolved under.
func hostKey(module, name string) string {
	return module + "\x00" + name
}

// hostTable is a per-VM registry of (module, name) -> callback. Duplicate
// registration is "last wins" for determinism.
type hostTable struct {
	entries map[string]hostEntry
}

func newHostTable() *hostTable {
	return &hostTable{entries: map[string]hostEntry{}}
}

func (t *hostTable) register(module, name string, fn HostFunc, user any) {
	t.entries[hostKey(module, name)] = hostEntry{fn: fn, user: user}
}

func (t *hostTable) lookup(module, name string) (hostEntry, bool) {
	e, ok := t.entries[hostKey(module, name)]
	return e, ok
}
