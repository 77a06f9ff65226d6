package interp

// immWords returns how many 32-bit immediate words follow the instruction
// word for op, so the fetch/decode step can advance the PC correctly.
func immWords(op Op) int {
	switch op {
	case OpLdI64, OpLdF64:
		return 2
	case OpJmp, OpJz, OpJnz, OpJlt, OpJle,
		OpCall, OpCallHost,
		OpLdI32, OpLdF32, OpLdGlobal, OpStGlobal,
		OpLoad8, OpLoad8S, OpLoad16, OpLoad16S, OpLoad32, OpLoad32S, OpLoad64,
		OpStore8, OpStore16, OpStore32, OpStore64,
		OpLoadF32, OpStoreF32, OpLoadF64, OpStoreF64:
		return 1
	default:
		return 0
	}
}
