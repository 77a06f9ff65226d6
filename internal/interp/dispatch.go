package interp

import (
	"math"
	"math/bits"

	"github.com/venkatezh-13/rune/api"
	"github.com/venkatezh-13/rune/internal/module"
)

// RegisterWindowSize is the fixed number of register slots in every
// activation's window. It is independent of a function's declared
// reg_count, which its u8 encoding already keeps below module.MaxRegisters —
// the window itself is always this size.
const RegisterWindowSize = module.MaxRegisters

// callFunction is the entry point for any call into the VM from the host or
// from Init (for _init). It establishes the panic/recover boundary that
// turns a guest trap into an *api.Error while restoring frame_count to its
// pre-call value.
func (vm *VM) callFunction(fnIdx uint32, args []api.Value) (result api.Value, errOut *api.Error) {
	startDepth := vm.frameCount
	defer func() {
		if v := recover(); v != nil {
			errOut = recoverTrap(v)
			vm.logf("trap: %s", errOut)
			result = api.Void()
			vm.frameCount = startDepth
		}
	}()
	result = vm.invoke(fnIdx, args)
	return
}

// invoke dispatches to either a host callback or a bytecode body, pushing
// a call-stack frame uniformly for both so stack_size bounds re-entrant
// host calls too.
func (vm *VM) invoke(fnIdx uint32, args []api.Value) api.Value {
	fn := &vm.mod.Functions[fnIdx]
	if fn.IsImport {
		return vm.callHost(fn.ImportIdx, args)
	}
	if vm.frameCount >= len(vm.frames) {
		trapStackOverflow(len(vm.frames))
	}
	f := &vm.frames[vm.frameCount]
	f.reset(fnIdx, RegisterWindowSize)
	for i, a := range args {
		if i >= len(f.regs) {
			break
		}
		f.regs[i] = a
	}
	vm.frameCount++
	if vm.frameCount > vm.maxDepth {
		vm.maxDepth = vm.frameCount
	}
	result := vm.runFrame(f, fn)
	vm.frameCount--
	return result
}

func (vm *VM) callHost(importIdx uint32, args []api.Value) api.Value {
	if vm.frameCount >= len(vm.frames) {
		trapStackOverflow(len(vm.frames))
	}
	vm.frameCount++
	entry := vm.resolvedHosts[importIdx]
	var result api.Value
	code := entry.fn(vm, args, &result, entry.user)
	vm.frameCount--
	if code != api.OK {
		imp := vm.mod.Imports[importIdx]
		vm.logf("host function %s::%s returned %s", imp.Module, imp.Name, code)
		trap(code, "host function %s::%s returned %s", imp.Module, imp.Name, code)
	}
	return result
}

func (vm *VM) consumeFuel() {
	if !vm.fuelEnabled {
		return
	}
	if vm.fuelRemaining == 0 {
		trap(api.FUEL, "fuel exhausted")
	}
	vm.fuelRemaining--
}

// stageArgs consumes the VM-wide argument buffer written by ARG
// instructions since the previous CALL/CALL_HOST; the buffer is reset after
// each call dispatch.
func (vm *VM) stageArgs() []api.Value {
	if vm.argMaxSlot < 0 {
		return nil
	}
	n := vm.argMaxSlot + 1
	args := make([]api.Value, n)
	copy(args, vm.argBuf[:n])
	for i := 0; i < n; i++ {
		vm.argBuf[i] = api.Value{}
	}
	vm.argMaxSlot = -1
	return args
}

func decodeWord(raw uint32) (op Op, dst, s1, s2 uint8) {
	op = Op(raw & 0xFF)
	dst = uint8((raw >> 8) & 0xFF)
	s1 = uint8((raw >> 16) & 0xFF)
	s2 = uint8((raw >> 24) & 0xFF)
	return
}

// runFrame executes f's bytecode until RET or an implicit fall-through off
// the end of the code. The return value lives in R[0] either way.
func (vm *VM) runFrame(f *frame, fn *module.Function) api.Value {
	code := fn.Code
	for {
		if int(f.pc) >= len(code) {
			return f.regs[0]
		}
		raw := code[f.pc]
		f.pc++
		op, dst, s1, s2 := decodeWord(raw)
		if !op.Valid() {
			trapBadOpcode(uint8(raw & 0xFF))
		}

		n := immWords(op)
		if int(f.pc)+n > len(code) {
			trap(api.BADOPCODE, "%s: truncated immediate operand", opName(op))
		}
		var imm0, imm1 uint32
		if n >= 1 {
			imm0 = code[f.pc]
		}
		if n >= 2 {
			imm1 = code[f.pc+1]
		}
		f.pc += uint32(n)

		vm.consumeFuel()

		switch op {
		case OpNop:
			// no effect

		case OpTrap:
			trapExplicit()

		case OpRet:
			return f.regs[0]

		case OpJmp:
			f.pc = uint32(int64(f.pc) + int64(int32(imm0)))

		case OpJz:
			if f.regs[s1].IsZero() {
				f.pc = uint32(int64(f.pc) + int64(int32(imm0)))
			}

		case OpJnz:
			if !f.regs[s1].IsZero() {
				f.pc = uint32(int64(f.pc) + int64(int32(imm0)))
			}

		case OpJlt:
			if f.regs[s1].I32() < f.regs[s2].I32() {
				f.pc = uint32(int64(f.pc) + int64(int32(imm0)))
			}

		case OpJle:
			if f.regs[s1].I32() <= f.regs[s2].I32() {
				f.pc = uint32(int64(f.pc) + int64(int32(imm0)))
			}

		case OpCall:
			args := vm.stageArgs()
			f.regs[dst] = vm.invoke(imm0, args)

		case OpCallHost:
			args := vm.stageArgs()
			f.regs[dst] = vm.callHost(imm0, args)

		case OpArg:
			if int(dst) < len(vm.argBuf) {
				vm.argBuf[dst] = f.regs[s1]
				if int(dst) > vm.argMaxSlot {
					vm.argMaxSlot = int(dst)
				}
			}

		case OpLdI32:
			f.regs[dst] = api.I32(int32(imm0))
		case OpLdI64:
			f.regs[dst] = api.I64(int64(imm0) | int64(imm1)<<32)
		case OpLdF32:
			f.regs[dst] = api.FromBits(api.KindF32, uint64(imm0))
		case OpLdF64:
			f.regs[dst] = api.FromBits(api.KindF64, uint64(imm0)|uint64(imm1)<<32)
		case OpLdTrue:
			f.regs[dst] = api.Bool(true)
		case OpLdFalse:
			f.regs[dst] = api.Bool(false)
		case OpLdGlobal:
			f.regs[dst] = vm.globals[imm0]
		case OpStGlobal:
			if !vm.mod.Globals[imm0].Mutable {
				trap(api.TYPE, "%s: global %d is immutable", opName(op), imm0)
			}
			vm.globals[imm0] = api.FromBits(vm.globals[imm0].Kind, f.regs[s1].Bits())
		case OpMov:
			f.regs[dst] = f.regs[s1]

		default:
			vm.dispatchNumericOrMemory(f, op, dst, s1, s2, imm0)
		}
	}
}

// dispatchNumericOrMemory handles every arithmetic, comparison, conversion,
// and memory opcode. Split out of runFrame purely to keep each function a
// readable size; it still runs for every numeric and memory instruction, so it takes the
// frame and decoded fields directly rather than re-decoding.
func (vm *VM) dispatchNumericOrMemory(f *frame, op Op, dst, s1, s2 uint8, imm0 uint32) {
	switch op {
	// ---- i32 ----
	case OpAdd32:
		f.regs[dst] = api.I32(f.regs[s1].I32() + f.regs[s2].I32())
	case OpSub32:
		f.regs[dst] = api.I32(f.regs[s1].I32() - f.regs[s2].I32())
	case OpMul32:
		f.regs[dst] = api.I32(f.regs[s1].I32() * f.regs[s2].I32())
	case OpDiv32S:
		q, _, dz := divRem32S(f.regs[s1].I32(), f.regs[s2].I32())
		if dz {
			trapDivZero(op)
		}
		f.regs[dst] = api.I32(q)
	case OpDiv32U:
		if f.regs[s2].U32() == 0 {
			trapDivZero(op)
		}
		f.regs[dst] = api.U32(f.regs[s1].U32() / f.regs[s2].U32())
	case OpRem32S:
		_, r, dz := divRem32S(f.regs[s1].I32(), f.regs[s2].I32())
		if dz {
			trapDivZero(op)
		}
		f.regs[dst] = api.I32(r)
	case OpRem32U:
		if f.regs[s2].U32() == 0 {
			trapDivZero(op)
		}
		f.regs[dst] = api.U32(f.regs[s1].U32() % f.regs[s2].U32())
	case OpNeg32:
		f.regs[dst] = api.I32(-f.regs[s1].I32())
	case OpAnd32:
		f.regs[dst] = api.U32(f.regs[s1].U32() & f.regs[s2].U32())
	case OpOr32:
		f.regs[dst] = api.U32(f.regs[s1].U32() | f.regs[s2].U32())
	case OpXor32:
		f.regs[dst] = api.U32(f.regs[s1].U32() ^ f.regs[s2].U32())
	case OpShl32:
		f.regs[dst] = api.U32(f.regs[s1].U32() << (f.regs[s2].U32() & 31))
	case OpShr32S:
		f.regs[dst] = api.I32(f.regs[s1].I32() >> (f.regs[s2].U32() & 31))
	case OpShr32U:
		f.regs[dst] = api.U32(f.regs[s1].U32() >> (f.regs[s2].U32() & 31))
	case OpNot32:
		f.regs[dst] = api.U32(^f.regs[s1].U32())
	case OpClz32:
		f.regs[dst] = api.U32(uint32(bits.LeadingZeros32(f.regs[s1].U32())))
	case OpCtz32:
		f.regs[dst] = api.U32(uint32(bits.TrailingZeros32(f.regs[s1].U32())))
	case OpPopcnt32:
		f.regs[dst] = api.U32(uint32(bits.OnesCount32(f.regs[s1].U32())))

	// ---- i64 ----
	case OpAdd64:
		f.regs[dst] = api.I64(f.regs[s1].I64() + f.regs[s2].I64())
	case OpSub64:
		f.regs[dst] = api.I64(f.regs[s1].I64() - f.regs[s2].I64())
	case OpMul64:
		f.regs[dst] = api.I64(f.regs[s1].I64() * f.regs[s2].I64())
	case OpDiv64S:
		q, _, dz := divRem64S(f.regs[s1].I64(), f.regs[s2].I64())
		if dz {
			trapDivZero(op)
		}
		f.regs[dst] = api.I64(q)
	case OpDiv64U:
		if f.regs[s2].U64() == 0 {
			trapDivZero(op)
		}
		f.regs[dst] = api.U64(f.regs[s1].U64() / f.regs[s2].U64())
	case OpRem64S:
		_, r, dz := divRem64S(f.regs[s1].I64(), f.regs[s2].I64())
		if dz {
			trapDivZero(op)
		}
		f.regs[dst] = api.I64(r)
	case OpRem64U:
		if f.regs[s2].U64() == 0 {
			trapDivZero(op)
		}
		f.regs[dst] = api.U64(f.regs[s1].U64() % f.regs[s2].U64())
	case OpNeg64:
		f.regs[dst] = api.I64(-f.regs[s1].I64())
	case OpAnd64:
		f.regs[dst] = api.U64(f.regs[s1].U64() & f.regs[s2].U64())
	case OpOr64:
		f.regs[dst] = api.U64(f.regs[s1].U64() | f.regs[s2].U64())
	case OpXor64:
		f.regs[dst] = api.U64(f.regs[s1].U64() ^ f.regs[s2].U64())
	case OpShl64:
		f.regs[dst] = api.U64(f.regs[s1].U64() << (f.regs[s2].U64() & 63))
	case OpShr64S:
		f.regs[dst] = api.I64(f.regs[s1].I64() >> (f.regs[s2].U64() & 63))
	case OpShr64U:
		f.regs[dst] = api.U64(f.regs[s1].U64() >> (f.regs[s2].U64() & 63))
	case OpNot64:
		f.regs[dst] = api.U64(^f.regs[s1].U64())
	case OpClz64:
		f.regs[dst] = api.U64(uint64(bits.LeadingZeros64(f.regs[s1].U64())))
	case OpCtz64:
		f.regs[dst] = api.U64(uint64(bits.TrailingZeros64(f.regs[s1].U64())))
	case OpPopcnt64:
		f.regs[dst] = api.U64(uint64(bits.OnesCount64(f.regs[s1].U64())))

	// ---- f32 ----
	case OpFAdd32:
		f.regs[dst] = api.F32(f.regs[s1].F32() + f.regs[s2].F32())
	case OpFSub32:
		f.regs[dst] = api.F32(f.regs[s1].F32() - f.regs[s2].F32())
	case OpFMul32:
		f.regs[dst] = api.F32(f.regs[s1].F32() * f.regs[s2].F32())
	case OpFDiv32:
		// IEEE-754 division by zero does not trap; it produces Inf/NaN.
		f.regs[dst] = api.F32(f.regs[s1].F32() / f.regs[s2].F32())
	case OpFAbs32:
		f.regs[dst] = api.F32(float32(math.Abs(float64(f.regs[s1].F32()))))
	case OpFNeg32:
		f.regs[dst] = api.F32(-f.regs[s1].F32())
	case OpFSqrt32:
		f.regs[dst] = api.F32(float32(math.Sqrt(float64(f.regs[s1].F32()))))
	case OpFMin32:
		f.regs[dst] = api.F32(float32(math.Min(float64(f.regs[s1].F32()), float64(f.regs[s2].F32()))))
	case OpFMax32:
		f.regs[dst] = api.F32(float32(math.Max(float64(f.regs[s1].F32()), float64(f.regs[s2].F32()))))
	case OpFFloor32:
		f.regs[dst] = api.F32(float32(math.Floor(float64(f.regs[s1].F32()))))
	case OpFCeil32:
		f.regs[dst] = api.F32(float32(math.Ceil(float64(f.regs[s1].F32()))))
	case OpFRound32:
		f.regs[dst] = api.F32(float32(math.Round(float64(f.regs[s1].F32()))))

	// ---- f64 ----
	case OpFAdd64:
		f.regs[dst] = api.F64(f.regs[s1].F64() + f.regs[s2].F64())
	case OpFSub64:
		f.regs[dst] = api.F64(f.regs[s1].F64() - f.regs[s2].F64())
	case OpFMul64:
		f.regs[dst] = api.F64(f.regs[s1].F64() * f.regs[s2].F64())
	case OpFDiv64:
		f.regs[dst] = api.F64(f.regs[s1].F64() / f.regs[s2].F64())
	case OpFAbs64:
		f.regs[dst] = api.F64(math.Abs(f.regs[s1].F64()))
	case OpFNeg64:
		f.regs[dst] = api.F64(-f.regs[s1].F64())
	case OpFSqrt64:
		f.regs[dst] = api.F64(math.Sqrt(f.regs[s1].F64()))
	case OpFMin64:
		f.regs[dst] = api.F64(math.Min(f.regs[s1].F64(), f.regs[s2].F64()))
	case OpFMax64:
		f.regs[dst] = api.F64(math.Max(f.regs[s1].F64(), f.regs[s2].F64()))
	case OpFFloor64:
		f.regs[dst] = api.F64(math.Floor(f.regs[s1].F64()))
	case OpFCeil64:
		f.regs[dst] = api.F64(math.Ceil(f.regs[s1].F64()))
	case OpFRound64:
		f.regs[dst] = api.F64(math.Round(f.regs[s1].F64()))

	// ---- comparisons ----
	case OpEq32:
		f.regs[dst] = api.Bool(f.regs[s1].I32() == f.regs[s2].I32())
	case OpNe32:
		f.regs[dst] = api.Bool(f.regs[s1].I32() != f.regs[s2].I32())
	case OpLt32S:
		f.regs[dst] = api.Bool(f.regs[s1].I32() < f.regs[s2].I32())
	case OpLt32U:
		f.regs[dst] = api.Bool(f.regs[s1].U32() < f.regs[s2].U32())
	case OpLe32S:
		f.regs[dst] = api.Bool(f.regs[s1].I32() <= f.regs[s2].I32())
	case OpLe32U:
		f.regs[dst] = api.Bool(f.regs[s1].U32() <= f.regs[s2].U32())
	case OpGt32S:
		f.regs[dst] = api.Bool(f.regs[s1].I32() > f.regs[s2].I32())
	case OpGt32U:
		f.regs[dst] = api.Bool(f.regs[s1].U32() > f.regs[s2].U32())
	case OpGe32S:
		f.regs[dst] = api.Bool(f.regs[s1].I32() >= f.regs[s2].I32())
	case OpGe32U:
		f.regs[dst] = api.Bool(f.regs[s1].U32() >= f.regs[s2].U32())
	case OpEq64:
		f.regs[dst] = api.Bool(f.regs[s1].I64() == f.regs[s2].I64())
	case OpNe64:
		f.regs[dst] = api.Bool(f.regs[s1].I64() != f.regs[s2].I64())
	case OpLt64S:
		f.regs[dst] = api.Bool(f.regs[s1].I64() < f.regs[s2].I64())
	case OpLt64U:
		f.regs[dst] = api.Bool(f.regs[s1].U64() < f.regs[s2].U64())
	case OpLe64S:
		f.regs[dst] = api.Bool(f.regs[s1].I64() <= f.regs[s2].I64())
	case OpLe64U:
		f.regs[dst] = api.Bool(f.regs[s1].U64() <= f.regs[s2].U64())
	case OpGt64S:
		f.regs[dst] = api.Bool(f.regs[s1].I64() > f.regs[s2].I64())
	case OpGt64U:
		f.regs[dst] = api.Bool(f.regs[s1].U64() > f.regs[s2].U64())
	case OpGe64S:
		f.regs[dst] = api.Bool(f.regs[s1].I64() >= f.regs[s2].I64())
	case OpGe64U:
		f.regs[dst] = api.Bool(f.regs[s1].U64() >= f.regs[s2].U64())
	case OpFEq32:
		f.regs[dst] = api.Bool(f.regs[s1].F32() == f.regs[s2].F32())
	case OpFLt32:
		f.regs[dst] = api.Bool(f.regs[s1].F32() < f.regs[s2].F32())
	case OpFEq64:
		f.regs[dst] = api.Bool(f.regs[s1].F64() == f.regs[s2].F64())
	case OpFLt64:
		f.regs[dst] = api.Bool(f.regs[s1].F64() < f.regs[s2].F64())

	// ---- conversions ----
	case OpI32ToI64:
		f.regs[dst] = api.I64(int64(f.regs[s1].I32()))
	case OpU32ToI64:
		f.regs[dst] = api.U64(uint64(f.regs[s1].U32()))
	case OpI64ToI32:
		f.regs[dst] = api.I32(int32(f.regs[s1].I64()))
	case OpI32ToF32:
		f.regs[dst] = api.F32(float32(f.regs[s1].I32()))
	case OpI32ToF64:
		f.regs[dst] = api.F64(float64(f.regs[s1].I32()))
	case OpF32ToI32:
		f.regs[dst] = api.I32(satF32ToI32(f.regs[s1].F32()))
	case OpF64ToI32:
		f.regs[dst] = api.I32(satF64ToI32(f.regs[s1].F64()))
	case OpF32ToF64:
		f.regs[dst] = api.F64(float64(f.regs[s1].F32()))
	case OpF64ToF32:
		f.regs[dst] = api.F32(float32(f.regs[s1].F64()))
	case OpI64ToF64:
		f.regs[dst] = api.F64(float64(f.regs[s1].I64()))
	case OpF64ToI64:
		f.regs[dst] = api.I64(satF64ToI64(f.regs[s1].F64()))
	case OpBoolToI32:
		if f.regs[s1].Bool() {
			f.regs[dst] = api.I32(1)
		} else {
			f.regs[dst] = api.I32(0)
		}

	// ---- memory ----
	case OpLoad8, OpLoad8S, OpLoad16, OpLoad16S, OpLoad32, OpLoad32S, OpLoad64, OpLoadF32, OpLoadF64:
		vm.dispatchLoad(f, op, dst, s1, imm0)
	case OpStore8, OpStore16, OpStore32, OpStore64, OpStoreF32, OpStoreF64:
		vm.dispatchStore(f, op, dst, s1, imm0)

	case OpMemSize:
		f.regs[dst] = api.U32(vm.memory.Pages())
	case OpMemGrow:
		prev, ok := vm.memory.Grow(f.regs[s1].U32())
		if !ok {
			f.regs[dst] = api.I32(-1)
		} else {
			f.regs[dst] = api.U32(prev)
		}
	case OpMemCopy:
		if !vm.memory.Copy(f.regs[dst].U32(), f.regs[s1].U32(), f.regs[s2].U32()) {
			trapBounds(op, f.regs[s1].U32(), f.regs[s2].U32(), vm.memory.SizeBytes())
		}
	case OpMemFill:
		if !vm.memory.Fill(f.regs[dst].U32(), byte(f.regs[s1].U32()), f.regs[s2].U32()) {
			trapBounds(op, f.regs[dst].U32(), f.regs[s2].U32(), vm.memory.SizeBytes())
		}

	default:
		trapBadOpcode(uint8(op))
	}
}

func (vm *VM) dispatchLoad(f *frame, op Op, dst, s1 uint8, imm0 uint32) {
	addr := f.regs[s1].U32() + imm0
	var buf [8]byte
	switch op {
	case OpLoad8, OpLoad8S:
		if !vm.memory.Read(addr, buf[:1]) {
			trapBounds(op, addr, 1, vm.memory.SizeBytes())
		}
		if op == OpLoad8S {
			f.regs[dst] = api.I32(int32(int8(buf[0])))
		} else {
			f.regs[dst] = api.U32(uint32(buf[0]))
		}
	case OpLoad16, OpLoad16S:
		if !vm.memory.Read(addr, buf[:2]) {
			trapBounds(op, addr, 2, vm.memory.SizeBytes())
		}
		v := uint16(buf[0]) | uint16(buf[1])<<8
		if op == OpLoad16S {
			f.regs[dst] = api.I32(int32(int16(v)))
		} else {
			f.regs[dst] = api.U32(uint32(v))
		}
	case OpLoad32, OpLoad32S:
		if !vm.memory.Read(addr, buf[:4]) {
			trapBounds(op, addr, 4, vm.memory.SizeBytes())
		}
		v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		if op == OpLoad32S {
			f.regs[dst] = api.I64(int64(int32(v)))
		} else {
			f.regs[dst] = api.U32(v)
		}
	case OpLoad64:
		if !vm.memory.Read(addr, buf[:8]) {
			trapBounds(op, addr, 8, vm.memory.SizeBytes())
		}
		v := uint64(0)
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
		f.regs[dst] = api.U64(v)
	case OpLoadF32:
		if !vm.memory.Read(addr, buf[:4]) {
			trapBounds(op, addr, 4, vm.memory.SizeBytes())
		}
		v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		f.regs[dst] = api.FromBits(api.KindF32, uint64(v))
	case OpLoadF64:
		if !vm.memory.Read(addr, buf[:8]) {
			trapBounds(op, addr, 8, vm.memory.SizeBytes())
		}
		v := uint64(0)
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
		f.regs[dst] = api.FromBits(api.KindF64, v)
	}
}

func (vm *VM) dispatchStore(f *frame, op Op, dst, s1 uint8, imm0 uint32) {
	addr := f.regs[s1].U32() + imm0
	val := f.regs[dst]
	switch op {
	case OpStore8:
		b := [1]byte{byte(val.U32())}
		if !vm.memory.Write(addr, b[:]) {
			trapBounds(op, addr, 1, vm.memory.SizeBytes())
		}
	case OpStore16:
		v := uint16(val.U32())
		b := [2]byte{byte(v), byte(v >> 8)}
		if !vm.memory.Write(addr, b[:]) {
			trapBounds(op, addr, 2, vm.memory.SizeBytes())
		}
	case OpStore32:
		v := val.U32()
		b := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
		if !vm.memory.Write(addr, b[:]) {
			trapBounds(op, addr, 4, vm.memory.SizeBytes())
		}
	case OpStore64:
		v := val.U64()
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
		if !vm.memory.Write(addr, b[:]) {
			trapBounds(op, addr, 8, vm.memory.SizeBytes())
		}
	case OpStoreF32:
		v := uint32(val.Bits())
		b := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
		if !vm.memory.Write(addr, b[:]) {
			trapBounds(op, addr, 4, vm.memory.SizeBytes())
		}
	case OpStoreF64:
		v := val.Bits()
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
		if !vm.memory.Write(addr, b[:]) {
			trapBounds(op, addr, 8, vm.memory.SizeBytes())
		}
	}
}
