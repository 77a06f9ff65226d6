package interp

import (
	"fmt"

	"github.com/venkatezh-13/rune/api"
)

// trapError is panicked by the dispatch loop on any guest-caused fault and
// recovered at the call boundary: opcode handlers don't thread an error
// return through every case, they just panic a sentinel and let one
// deferred recover turn it into the public result.
type trapError struct {
	code    api.Code
	message string
}

func (t *trapError) Error() string { return t.message }

func trap(code api.Code, format string, args ...any) {
	panic(&trapError{code: code, message: fmt.Sprintf(format, args...)})
}

func trapBounds(op Op, off, length uint32, memSize uint64) {
	trap(api.BOUNDS, "%s: access [%d,%d) exceeds memory size %d", opName(op), off, uint64(off)+uint64(length), memSize)
}

func trapDivZero(op Op) {
	trap(api.DIVZERO, "%s: division by zero", opName(op))
}

func trapBadOpcode(raw uint8) {
	trap(api.BADOPCODE, "unknown opcode %#x", raw)
}

func trapStackOverflow(depth int) {
	trap(api.STACKOVERFLOW, "call stack exceeded depth %d", depth)
}

func trapExplicit() {
	trap(api.TRAP, "TRAP instruction")
}

// recoverTrap converts a panicked trapError (or anything else that
// escaped, treated conservatively as an opaque TRAP) into an *api.Error. It
// must only be called from a deferred function; callers that did not
// recover a panic should pass the recover() result directly.
func recoverTrap(v any) *api.Error {
	if v == nil {
		return nil
	}
	if te, ok := v.(*trapError); ok {
		return &api.Error{Code: te.code, Message: te.message}
	}
	if err, ok := v.(error); ok {
		return api.Newf(api.TRAP, "panic: %s", err)
	}
	return api.Newf(api.TRAP, "panic: %v", v)
}
