package api

import (
	"errors"
	"testing"
)

func TestErrorFormatsWithMessage(t *testing.T) {
	err := Newf(DIVZERO, "div32: %d/%d", 1, 0)
	want := "division by zero: div32: 1/0"
	if got := err.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCodeOfDefaultsToTrap(t *testing.T) {
	if got := CodeOf(nil); got != OK {
		t.Fatalf("CodeOf(nil) = %v, want OK", got)
	}
	plain := &Error{Code: BOUNDS}
	if got := CodeOf(plain); got != BOUNDS {
		t.Fatalf("got %v, want BOUNDS", got)
	}
	if got := CodeOf(errors.New("plain")); got != TRAP {
		t.Fatalf("CodeOf(plain error) = %v, want TRAP", got)
	}
}

func TestAs(t *testing.T) {
	var err error = Newf(TYPE, "bad")
	e, ok := As(err)
	if !ok || e.Code != TYPE {
		t.Fatalf("As failed: %v %v", e, ok)
	}
}
