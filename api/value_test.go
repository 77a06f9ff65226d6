package api

import (
	"math"
	"testing"
)

func TestValueBitsRoundTrip(t *testing.T) {
	v := I32(-7)
	if got := FromBits(v.Kind, v.Bits()).I32(); got != -7 {
		t.Fatalf("got %d, want -7", got)
	}
}

func TestIsZero(t *testing.T) {
	cases := []struct {
		v    Value
		zero bool
	}{
		{I32(0), true},
		{I32(1), false},
		{Bool(false), true},
		{Bool(true), false},
		{F64(0), true},
		{F64(math.Copysign(0, -1)), true},
	}
	for _, c := range cases {
		if got := c.v.IsZero(); got != c.zero {
			t.Errorf("%v.IsZero() = %v, want %v", c.v, got, c.zero)
		}
	}
}

func TestU32TreatedAsI32Kind(t *testing.T) {
	v := U32(0xFFFFFFFF)
	if v.Kind != KindI32 {
		t.Fatalf("U32 should carry KindI32, got %v", v.Kind)
	}
	if v.I32() != -1 {
		t.Fatalf("got %d, want -1", v.I32())
	}
}
