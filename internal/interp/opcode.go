package interp

// Op is a single bytecode opcode. Each instruction word is
// (op:u8, dst:u8, s1:u8, s2:u8) little-endian, optionally followed by one
// or two 32-bit immediate words.
//
// Naming and comment style follow the register-VM convention of spelling
// out the operand layout and effect on the same line as the constant, the
// way a register bytecode table typically documents itself.
type Op uint8

const (
	// Control
	OpNop  Op = iota // NOP                       no effect
	OpTrap           // TRAP                      always trap
	OpRet            // RET                       return R[0]
	OpJmp            // JMP imm32                 pc += rel
	OpJz             // JZ s1, imm32              if zero(R[s1]) pc += rel
	OpJnz            // JNZ s1, imm32             if !zero(R[s1]) pc += rel
	OpJlt            // JLT s1,s2, imm32          if R[s1] <  R[s2] (signed i32) pc += rel
	OpJle            // JLE s1,s2, imm32          if R[s1] <= R[s2] (signed i32) pc += rel

	// Calls
	OpCall     // CALL dst, imm32=func_idx        R[dst] = call(func_idx, staged args)
	OpCallHost // CALL_HOST dst, imm32=import_idx R[dst] = call_host(import_idx, staged args)
	OpArg      // ARG dst=slot, s1=reg            argbuf[slot] = R[s1]

	// Loads / stores of immediates, globals, registers
	OpLdI32    // LDI32 dst, imm32
	OpLdI64    // LDI64 dst, imm64 (two imm words)
	OpLdF32    // LDF32 dst, imm32 (bit pattern)
	OpLdF64    // LDF64 dst, imm64 (bit pattern, two imm words)
	OpLdTrue   // LDTRUE dst
	OpLdFalse  // LDFALSE dst
	OpLdGlobal // LDGLOBAL dst, imm32=global_idx
	OpStGlobal // STGLOBAL s1, imm32=global_idx
	OpMov      // MOV dst, s1

	// i32 arithmetic / bitwise
	OpAdd32
	OpSub32
	OpMul32
	OpDiv32S
	OpDiv32U
	OpRem32S
	OpRem32U
	OpNeg32
	OpAnd32
	OpOr32
	OpXor32
	OpShl32
	OpShr32S
	OpShr32U
	OpNot32
	OpClz32
	OpCtz32
	OpPopcnt32

	// i64 arithmetic / bitwise
	OpAdd64
	OpSub64
	OpMul64
	OpDiv64S
	OpDiv64U
	OpRem64S
	OpRem64U
	OpNeg64
	OpAnd64
	OpOr64
	OpXor64
	OpShl64
	OpShr64S
	OpShr64U
	OpNot64
	OpClz64
	OpCtz64
	OpPopcnt64

	// Float f32/f64
	OpFAdd32
	OpFSub32
	OpFMul32
	OpFDiv32
	OpFAbs32
	OpFNeg32
	OpFSqrt32
	OpFMin32
	OpFMax32
	OpFFloor32
	OpFCeil32
	OpFRound32
	OpFAdd64
	OpFSub64
	OpFMul64
	OpFDiv64
	OpFAbs64
	OpFNeg64
	OpFSqrt64
	OpFMin64
	OpFMax64
	OpFFloor64
	OpFCeil64
	OpFRound64

	// Comparisons (result is bool)
	OpEq32
	OpNe32
	OpLt32S
	OpLt32U
	OpLe32S
	OpLe32U
	OpGt32S
	OpGt32U
	OpGe32S
	OpGe32U
	OpEq64
	OpNe64
	OpLt64S
	OpLt64U
	OpLe64S
	OpLe64U
	OpGt64S
	OpGt64U
	OpGe64S
	OpGe64U
	OpFEq32
	OpFLt32
	OpFEq64
	OpFLt64

	// Conversions
	OpI32ToI64
	OpU32ToI64
	OpI64ToI32
	OpI32ToF32
	OpI32ToF64
	OpF32ToI32
	OpF64ToI32
	OpF32ToF64
	OpF64ToF32
	OpI64ToF64
	OpF64ToI64
	OpBoolToI32

	// Memory loads/stores: LOADn/LOADnS, STOREn, LOADF32/64, STOREF32/64
	OpLoad8
	OpLoad8S
	OpLoad16
	OpLoad16S
	OpLoad32
	OpLoad32S
	OpLoad64
	OpStore8
	OpStore16
	OpStore32
	OpStore64
	OpLoadF32
	OpStoreF32
	OpLoadF64
	OpStoreF64

	// Memory system ops
	OpMemSize
	OpMemGrow
	OpMemCopy
	OpMemFill

	opCount // sentinel; not a real opcode
)

// Valid reports whether op is a known opcode; anything else traps with
// BADOPCODE.
func (op Op) Valid() bool {
	return op < opCount
}
