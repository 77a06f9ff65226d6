package api

import (
	"errors"
	"fmt"
)

// Code is the closed error enum that crosses the embedding boundary.
// Callers should switch on Code, not on Error.Error().
type Code uint32

const (
	OK Code = iota
	BADMODULE
	BADMAGIC
	VERSION
	OOM
	BOUNDS
	DIVZERO
	TYPE
	NOEXPORT
	NOIMPORT
	STACKOVERFLOW
	TRAP
	FUEL
	BADOPCODE
	HOST_ERROR
)

var codeStrings = [...]string{
	OK:            "ok",
	BADMODULE:     "bad module",
	BADMAGIC:      "bad magic",
	VERSION:       "unsupported version",
	OOM:           "out of memory",
	BOUNDS:        "out of bounds memory access",
	DIVZERO:       "division by zero",
	TYPE:          "type error",
	NOEXPORT:      "no such export",
	NOIMPORT:      "unresolved import",
	STACKOVERFLOW: "call stack overflow",
	TRAP:          "trap",
	FUEL:          "fuel exhausted",
	BADOPCODE:     "bad opcode",
	HOST_ERROR:    "host function error",
}

// String returns the stable, human-readable name of the code, independent
// of any particular VM and unchanged between releases.
func (c Code) String() string {
	if int(c) < len(codeStrings) && codeStrings[c] != "" {
		return codeStrings[c]
	}
	return fmt.Sprintf("code(%d)", uint32(c))
}

// Error is the detailed diagnostic attached to a Code. Code alone is stable
// across versions and suitable for programmatic branching; Message carries
// call-specific context (which opcode, which function, which offset) and
// may change wording between releases.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Newf builds an *Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// As reports whether err (or anything it wraps) is an *Error, mirroring the
// standard errors.As contract without requiring callers to import errors
// just to unwrap a Code.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// CodeOf extracts the Code from err, defaulting to TRAP for errors that did
// not originate from this package (e.g. a plain errors.New value) so the embedding boundary never has to special-case nil Codes.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return TRAP
}
