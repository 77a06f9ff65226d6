package rune_test

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	rune "github.com/venkatezh-13/rune"
	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/asmtest"
	"github.com/venkatezh-13/rune/internal/binary"
)

func loadAndNewVM(t *testing.T, data []byte, cfg *rune.VMConfig) (*rune.Module, *rune.VM) {
	t.Helper()
	rt := rune.NewRuntime()
	mod, err := rt.LoadModule(data)
	require.NoError(t, err)
	vm := mod.NewVM(cfg)
	return mod, vm
}

// add(10, 32) = 42. ADD32 R0,R0,R1; RET.
func TestScenarioAdd(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType([]api.ValueKind{api.KindI32, api.KindI32}, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.Add32(0, 0, 1).Ret()
	fi := b.AddFunc(ti, 2, 0, prog.Words())
	b.AddExportFunc(fi, "add")

	_, vm := loadAndNewVM(t, b.Build(), nil)
	require.NoError(t, vm.Init())

	cases := []struct{ a, b, want int32 }{
		{10, 32, 42},
		{-1, -1, -2},
		{0, 0, 0},
	}
	for _, c := range cases {
		res, err := vm.Call("add", api.I32(c.a), api.I32(c.b))
		require.NoError(t, err)
		require.Equal(t, c.want, res.I32())
	}
}

// store_load(v) = v: STORE32 the parameter into memory then LOAD32 it back.
func TestScenarioStoreLoad(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType([]api.ValueKind{api.KindI32}, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.LdI32(1, 0).      // R1 = base address 0
		Store32(0, 1, 100). // mem[R1+100] = R0
		Load32(0, 1, 100).  // R0 = mem[R1+100]
		Ret()
	fi := b.AddFunc(ti, 2, 0, prog.Words())
	b.AddExportFunc(fi, "store_load")
	b.SetMemory(1, 1)

	_, vm := loadAndNewVM(t, b.Build(), nil)
	require.NoError(t, vm.Init())

	for _, v := range []int32{12345, -99} {
		res, err := vm.Call("store_load", api.I32(v))
		require.NoError(t, err)
		require.Equal(t, v, res.I32())
	}
}

// max(a, b): GT32 plus a JZ over a patched relative offset.
func TestScenarioMax(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType([]api.ValueKind{api.KindI32, api.KindI32}, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.Gt32S(2, 0, 1) // R2 = a > b
	jzAt := prog.Len()
	prog.Jz(2, 0) // placeholder; patched below once the false branch's offset is known
	jmpAt := prog.Len()
	prog.Jmp(0) // placeholder; true branch falls through here, skipping the false branch
	falseAt := prog.Len()
	prog.Mov(0, 1) // R0 = b
	endAt := prog.Len()
	prog.Ret()
	prog.PatchRel(jzAt, int32(falseAt-(jzAt+2)))
	prog.PatchRel(jmpAt, int32(endAt-(jmpAt+2)))

	fi := b.AddFunc(ti, 3, 0, prog.Words())
	b.AddExportFunc(fi, "max")

	_, vm := loadAndNewVM(t, b.Build(), nil)
	require.NoError(t, vm.Init())

	cases := []struct{ a, b, want int32 }{
		{10, 5, 10},
		{3, 7, 7},
		{4, 4, 4},
	}
	for _, c := range cases {
		res, err := vm.Call("max", api.I32(c.a), api.I32(c.b))
		require.NoError(t, err)
		require.Equal(t, c.want, res.I32())
	}
}

// div(a, b) = a/b, trapping DIVZERO on b==0 and leaving frame_count back at
// zero afterward.
func TestScenarioDivTrap(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType([]api.ValueKind{api.KindI32, api.KindI32}, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.Div32S(0, 0, 1).Ret()
	fi := b.AddFunc(ti, 2, 0, prog.Words())
	b.AddExportFunc(fi, "div")

	_, vm := loadAndNewVM(t, b.Build(), nil)
	require.NoError(t, vm.Init())

	res, err := vm.Call("div", api.I32(10), api.I32(2))
	require.NoError(t, err)
	require.Equal(t, int32(5), res.I32())

	// Repeated traps must not leak call-stack depth: if frame_count weren't
	// restored on recover, this would eventually overflow the default
	// 512-deep stack instead of returning DIVZERO every time.
	for i := 0; i < 1000; i++ {
		_, err := vm.Call("div", api.I32(10), api.I32(0))
		require.Error(t, err)
		require.Equal(t, api.DIVZERO, api.CodeOf(err))
	}

	res, err = vm.Call("div", api.I32(10), api.I32(2))
	require.NoError(t, err)
	require.Equal(t, int32(5), res.I32())
}

// increment() bumps a mutable global by one and returns it, across three
// consecutive calls.
func TestScenarioGlobalsCounter(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType(nil, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.LdGlobal(0, 0).
		LdI32(1, 1).
		Add32(0, 0, 1).
		StGlobal(0, 0).
		Ret()
	fi := b.AddFunc(ti, 2, 0, prog.Words())
	b.AddExportFunc(fi, "increment")
	b.AddGlobal(api.KindI32, true, 0)

	_, vm := loadAndNewVM(t, b.Build(), nil)
	require.NoError(t, vm.Init())

	for _, want := range []int32{1, 2, 3} {
		res, err := vm.Call("increment")
		require.NoError(t, err)
		require.Equal(t, want, res.I32())
	}
}

// loop() never returns; with fuel_limit=100 it must trap FUEL after exactly
// 100 executed instructions.
func TestScenarioFuelLimit(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType(nil, nil)
	prog := asmtest.New()
	prog.Jmp(-2) // branch to self
	fi := b.AddFunc(ti, 0, 0, prog.Words())
	b.AddExportFunc(fi, "loop")

	cfg := rune.NewVMConfig().WithFuelLimit(100)
	_, vm := loadAndNewVM(t, b.Build(), cfg)
	require.NoError(t, vm.Init())

	_, err := vm.Call("loop")
	require.Error(t, err)
	require.Equal(t, api.FUEL, api.CodeOf(err))
	require.Equal(t, uint64(100), vm.Stats().FuelConsumed)
}

// call_twice(a, b) stages both parameters via ARG and dispatches a resolved
// host import through CALL_HOST.
func TestScenarioHostCallRoundTrip(t *testing.T) {
	b := binary.NewBuilder()
	hostTi := b.AddType([]api.ValueKind{api.KindI32, api.KindI32}, []api.ValueKind{api.KindI32})
	importIdx := b.AddImport("env", "add_host", hostTi)

	callTwiceTi := b.AddType([]api.ValueKind{api.KindI32, api.KindI32}, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.Arg(0, 0).
		Arg(1, 1).
		CallHost(0, importIdx).
		Ret()
	fi := b.AddFunc(callTwiceTi, 2, 0, prog.Words())
	b.AddExportFunc(fi, "call_twice")

	_, vm := loadAndNewVM(t, b.Build(), nil)
	err := vm.Register("env", "add_host", func(_ *rune.VM, args []api.Value, result *api.Value, _ any) api.Code {
		*result = api.I32(args[0].I32() + args[1].I32())
		return api.OK
	}, nil)
	require.NoError(t, err)
	require.NoError(t, vm.Init())

	res, callErr := vm.Call("call_twice", api.I32(3), api.I32(7))
	require.NoError(t, callErr)
	require.Equal(t, int32(10), res.I32())
}

// An import left unregistered fails vm_init with NOIMPORT.
func TestScenarioUnresolvedImport(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType(nil, nil)
	b.AddImport("env", "missing", ti)

	_, vm := loadAndNewVM(t, b.Build(), nil)
	err := vm.Init()
	require.Error(t, err)
	require.Equal(t, api.NOIMPORT, api.CodeOf(err))
}

// Module introspection: a host can enumerate exports and required imports
// before deciding whether it can satisfy a module.
func TestModuleIntrospection(t *testing.T) {
	b := binary.NewBuilder()
	hostTi := b.AddType([]api.ValueKind{api.KindI32}, []api.ValueKind{api.KindI32})
	b.AddImport("env", "double", hostTi)
	fnTi := b.AddType(nil, nil)
	fi := b.AddFunc(fnTi, 0, 0, asmtest.New().Ret().Words())
	b.AddExportFunc(fi, "run")
	b.SetMemory(1, 1)
	b.AddExportMemory(0, "mem")
	gi := b.AddGlobal(api.KindI32, true, 0)
	b.AddExportGlobal(gi, "counter")

	rt := rune.NewRuntime()
	mod, err := rt.LoadModule(b.Build())
	require.NoError(t, err)
	require.Equal(t, []string{"run"}, mod.ExportNames())

	imports := mod.Imports()
	require.Len(t, imports, 1)
	require.Equal(t, "env", imports[0].Module)
	require.Equal(t, "double", imports[0].Name)
	require.Equal(t, api.KindI32, imports[0].Type.Result())

	exports := mod.Exports()
	require.Len(t, exports, 3)
	byName := map[string]int{}
	for _, e := range exports {
		byName[e.Name] = int(e.Index)
	}
	_, hasRun := byName["run"]
	_, hasMem := byName["mem"]
	_, hasCounter := byName["counter"]
	require.True(t, hasRun)
	require.True(t, hasMem)
	require.True(t, hasCounter)
}

// A VMConfig logger is wired through to the underlying interpreter without
// affecting execution results.
func TestVMConfigWithLogger(t *testing.T) {
	b := binary.NewBuilder()
	ti := b.AddType(nil, []api.ValueKind{api.KindI32})
	prog := asmtest.New()
	prog.LdI32(0, 7).Ret()
	fi := b.AddFunc(ti, 1, 0, prog.Words())
	b.AddExportFunc(fi, "seven")

	cfg := rune.NewVMConfig().WithLogger(log.New(io.Discard, "", 0))
	_, vm := loadAndNewVM(t, b.Build(), cfg)
	require.NoError(t, vm.Init())

	res, err := vm.Call("seven")
	require.NoError(t, err)
	require.Equal(t, int32(7), res.I32())
}
