// Package ascerr implements the closed error taxonomy shared by the codec
// and handlers, and a scoped non-local escape construct (Scope/Throw)
// modeled on the source's Throw/Catch discipline. Go has no non-local goto
// outside of panic/recover, so Scope is built on exactly that: Throw panics
// with a *Fault, and Scope recovers it at the boundary that called Scope,
// leaving any panic of a different kind to propagate untouched.
package ascerr

import "fmt"

// Code is one member of the closed error enumeration (spec.md §7.1).
type Code uint8

const (
	NoError Code = iota // sentinel; never thrown

	DataTooLong // Encode: payload > MAX_DATA_LEN
	ChecksumProblem
	InvalidFrame
	InvalidFramePeriod
	NotHexChar

	CommandNotImplemented
	RegBlockNull
	UnexpectedCommand
	DataTooShort
	RegnumOOB
	RegvalLen

	CBOutOfRange
	CBPopEmpty

	FileRead
	FileWrite
)

var names = map[Code]string{
	NoError:                "NO_ERROR",
	DataTooLong:            "DATA_TOO_LONG",
	ChecksumProblem:        "CHECKSUM_PROBLEM",
	InvalidFrame:           "INVALID_FRAME",
	InvalidFramePeriod:     "INVALID_FRAME_PERIOD",
	NotHexChar:             "NOT_HEX_CHAR",
	CommandNotImplemented:  "COMMAND_NOT_IMPLEMENTED",
	RegBlockNull:           "REG_BLOCK_NULL",
	UnexpectedCommand:      "UNEXPECTED_COMMAND",
	DataTooShort:           "DATA_TOO_SHORT",
	RegnumOOB:              "REGNUM_OOB",
	RegvalLen:              "REGVAL_LEN",
	CBOutOfRange:           "CB_OOB",
	CBPopEmpty:             "CB_POP_EMPTY",
	FileRead:               "FILE_READ",
	FileWrite:              "FILE_WRITE",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return fmt.Sprintf("ASC_ERROR_UNKNOWN(%d)", uint8(c))
}

// Fault is what Throw panics with and Scope recovers.
type Fault struct {
	Code Code
}

func (f *Fault) Error() string { return f.Code.String() }

// Throw raises code as a non-local escape to the nearest enclosing Scope.
func Throw(code Code) {
	panic(&Fault{Code: code})
}

// Scope runs body. If body (at any call depth) calls Throw, Scope recovers
// the Fault and returns its Code with threw set to true; on a clean return
// it returns NoError and false. Any panic that is
// not a *Fault is re-raised unchanged, so genuine programming errors still
// crash rather than being swallowed.
func Scope(body func()) (code Code, threw bool) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Fault)
			if !ok {
				panic(r)
			}
			code, threw = f.Code, true
		}
	}()
	body()
	return NoError, false
}
