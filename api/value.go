// Package api includes the value and error vocabulary shared by the public
// embedding surface and the internal interpreter.
package api

import (
	"fmt"
	"math"
)

// ValueKind discriminates the tagged union a register or global holds.
//
// Note: ptr travels as an i32 offset into linear memory; it is a distinct
// Kind only so hosts can tell a raw integer from a memory offset when
// inspecting call results.
type ValueKind uint8

const (
	KindVoid ValueKind = iota
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindPtr
)

func (k ValueKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindPtr:
		return "ptr"
	default:
		return fmt.Sprintf("kind(%#x)", uint8(k))
	}
}

// Value is a tagged union of {i32, i64, f32, f64, bool, ptr, void}.
//
// All numeric kinds are stored in bits as their raw two's-complement or
// IEEE-754 bit pattern, so values of different kinds with the same bit
// pattern return the same Bits(). Bool stores 0 or 1 in bits.
type Value struct {
	Kind ValueKind
	bits uint64
}

func I32(v int32) Value  { return Value{Kind: KindI32, bits: uint64(uint32(v))} }
func U32(v uint32) Value { return Value{Kind: KindI32, bits: uint64(v)} }
func I64(v int64) Value  { return Value{Kind: KindI64, bits: uint64(v)} }
func U64(v uint64) Value { return Value{Kind: KindI64, bits: v} }
func F32(v float32) Value {
	return Value{Kind: KindF32, bits: uint64(math.Float32bits(v))}
}
func F64(v float64) Value {
	return Value{Kind: KindF64, bits: math.Float64bits(v)}
}
func Bool(v bool) Value {
	if v {
		return Value{Kind: KindBool, bits: 1}
	}
	return Value{Kind: KindBool, bits: 0}
}
func Ptr(off uint32) Value { return Value{Kind: KindPtr, bits: uint64(off)} }
func Void() Value          { return Value{Kind: KindVoid} }

// Bits returns the raw 64-bit pattern backing the value, regardless of kind.
// Register windows and globals are stored in this representation.
func (v Value) Bits() uint64 { return v.bits }

// FromBits reconstructs a Value of the given kind from a raw bit pattern,
// the inverse of Bits. Used when copying register/global storage.
func FromBits(kind ValueKind, bits uint64) Value { return Value{Kind: kind, bits: bits} }

func (v Value) I32() int32     { return int32(uint32(v.bits)) }
func (v Value) U32() uint32    { return uint32(v.bits) }
func (v Value) I64() int64     { return int64(v.bits) }
func (v Value) U64() uint64    { return v.bits }
func (v Value) F32() float32   { return math.Float32frombits(uint32(v.bits)) }
func (v Value) F64() float64   { return math.Float64frombits(v.bits) }
func (v Value) Bool() bool     { return v.bits != 0 }
func (v Value) PtrOffset() uint32 { return uint32(v.bits) }

// IsZero reports whether the value is numerically zero/false, per the
// JZ/JNZ coercion rule: bool as !b, i32/i64 as ==0. Floats compare
// numerically against zero (so -0.0 is zero, NaN is not).
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindBool:
		return v.bits == 0
	case KindF32:
		return math.Float32frombits(uint32(v.bits)) == 0
	case KindF64:
		return math.Float64frombits(v.bits) == 0
	default:
		return v.bits == 0
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindI32:
		return fmt.Sprintf("i32:%d", v.I32())
	case KindI64:
		return fmt.Sprintf("i64:%d", v.I64())
	case KindF32:
		return fmt.Sprintf("f32:%g", v.F32())
	case KindF64:
		return fmt.Sprintf("f64:%g", v.F64())
	case KindBool:
		return fmt.Sprintf("bool:%t", v.Bool())
	case KindPtr:
		return fmt.Sprintf("ptr:%#x", v.PtrOffset())
	default:
		return "void"
	}
}
