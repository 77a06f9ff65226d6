// Package asmtest is a minimal word-level assembler used only by tests to
// hand-build function bodies for the register VM. It exists purely so
// tests can produce valid code slices without depending on an external
// assembler.
package asmtest

import "github.com/venkatezh-13/rune/internal/interp"

// Prog accumulates 32-bit instruction/immediate words for one function
// body.
type Prog struct {
	words []uint32
}

func New() *Prog { return &Prog{} }

func (p *Prog) Words() []uint32 { return p.words }

// Len returns the current word offset, useful for computing branch targets
// by hand before Jmp/Jz/etc. patches them in.
func (p *Prog) Len() int { return len(p.words) }

// PatchRel overwrites the immediate word of a previously emitted branch
// instruction at word offset instrPos with rel, for forward branches whose
// target isn't known until later code has been emitted.
func (p *Prog) PatchRel(instrPos int, rel int32) {
	p.words[instrPos+1] = uint32(rel)
}

func word(op interp.Op, dst, s1, s2 uint8) uint32 {
	return uint32(op) | uint32(dst)<<8 | uint32(s1)<<16 | uint32(s2)<<24
}

func (p *Prog) emit(op interp.Op, dst, s1, s2 uint8) *Prog {
	p.words = append(p.words, word(op, dst, s1, s2))
	return p
}

func (p *Prog) emitImm(op interp.Op, dst, s1, s2 uint8, imm uint32) *Prog {
	p.emit(op, dst, s1, s2)
	p.words = append(p.words, imm)
	return p
}

func (p *Prog) emitImm64(op interp.Op, dst uint8, imm uint64) *Prog {
	p.emit(op, dst, 0, 0)
	p.words = append(p.words, uint32(imm), uint32(imm>>32))
	return p
}

func (p *Prog) Nop() *Prog  { return p.emit(interp.OpNop, 0, 0, 0) }
func (p *Prog) Trap() *Prog { return p.emit(interp.OpTrap, 0, 0, 0) }
func (p *Prog) Ret() *Prog  { return p.emit(interp.OpRet, 0, 0, 0) }

// Jmp/Jz/Jnz/Jlt/Jle take rel directly — callers compute it, measured in
// words from the word after the immediate, which for a branch-to-self loop
// is simply -2 (back over the immediate and opcode words of the branch
// itself).
func (p *Prog) Jmp(rel int32) *Prog        { return p.emitImm(interp.OpJmp, 0, 0, 0, uint32(rel)) }
func (p *Prog) Jz(s1 uint8, rel int32) *Prog  { return p.emitImm(interp.OpJz, 0, s1, 0, uint32(rel)) }
func (p *Prog) Jnz(s1 uint8, rel int32) *Prog { return p.emitImm(interp.OpJnz, 0, s1, 0, uint32(rel)) }
func (p *Prog) Jlt(s1, s2 uint8, rel int32) *Prog {
	return p.emitImm(interp.OpJlt, 0, s1, s2, uint32(rel))
}
func (p *Prog) Jle(s1, s2 uint8, rel int32) *Prog {
	return p.emitImm(interp.OpJle, 0, s1, s2, uint32(rel))
}

func (p *Prog) Call(dst uint8, funcIdx uint32) *Prog {
	return p.emitImm(interp.OpCall, dst, 0, 0, funcIdx)
}
func (p *Prog) CallHost(dst uint8, importIdx uint32) *Prog {
	return p.emitImm(interp.OpCallHost, dst, 0, 0, importIdx)
}
func (p *Prog) Arg(slot, reg uint8) *Prog { return p.emit(interp.OpArg, slot, reg, 0) }

func (p *Prog) LdI32(dst uint8, v int32) *Prog { return p.emitImm(interp.OpLdI32, dst, 0, 0, uint32(v)) }
func (p *Prog) LdI64(dst uint8, v int64) *Prog { return p.emitImm64(interp.OpLdI64, dst, uint64(v)) }
func (p *Prog) LdTrue(dst uint8) *Prog         { return p.emit(interp.OpLdTrue, dst, 0, 0) }
func (p *Prog) LdFalse(dst uint8) *Prog        { return p.emit(interp.OpLdFalse, dst, 0, 0) }
func (p *Prog) LdGlobal(dst uint8, gi uint32) *Prog {
	return p.emitImm(interp.OpLdGlobal, dst, 0, 0, gi)
}
func (p *Prog) StGlobal(s1 uint8, gi uint32) *Prog {
	return p.emitImm(interp.OpStGlobal, 0, s1, 0, gi)
}
func (p *Prog) Mov(dst, s1 uint8) *Prog { return p.emit(interp.OpMov, dst, s1, 0) }

func (p *Prog) bin(op interp.Op, dst, s1, s2 uint8) *Prog { return p.emit(op, dst, s1, s2) }
func (p *Prog) un(op interp.Op, dst, s1 uint8) *Prog      { return p.emit(op, dst, s1, 0) }

func (p *Prog) Add32(dst, s1, s2 uint8) *Prog  { return p.bin(interp.OpAdd32, dst, s1, s2) }
func (p *Prog) Sub32(dst, s1, s2 uint8) *Prog  { return p.bin(interp.OpSub32, dst, s1, s2) }
func (p *Prog) Mul32(dst, s1, s2 uint8) *Prog  { return p.bin(interp.OpMul32, dst, s1, s2) }
func (p *Prog) Div32S(dst, s1, s2 uint8) *Prog { return p.bin(interp.OpDiv32S, dst, s1, s2) }
func (p *Prog) Div32U(dst, s1, s2 uint8) *Prog { return p.bin(interp.OpDiv32U, dst, s1, s2) }
func (p *Prog) Gt32S(dst, s1, s2 uint8) *Prog  { return p.bin(interp.OpGt32S, dst, s1, s2) }
func (p *Prog) Eq32(dst, s1, s2 uint8) *Prog   { return p.bin(interp.OpEq32, dst, s1, s2) }

func (p *Prog) Store32(valReg, baseReg uint8, offset uint32) *Prog {
	return p.emitImm(interp.OpStore32, valReg, baseReg, 0, offset)
}
func (p *Prog) Load32(dst, baseReg uint8, offset uint32) *Prog {
	return p.emitImm(interp.OpLoad32, dst, baseReg, 0, offset)
}
