package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrUnknownOpcode  = errors.New(f("unknown opcode"))
	ErrDivisionByZero = errors.New(f("division by zero"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrOriginSyntax     = errors.New(f(".org syntax"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrOpcodeInvalid    = errors.New(f("opcode invalid"))
	ErrOperandCount     = errors.New(f("operand count mismatch"))
	ErrRegisterInvalid  = errors.New(f("register invalid"))
	ErrAddressInvalid   = errors.New(f("address invalid"))
	ErrPortInvalid      = errors.New(f("port invalid"))
	ErrImmediateInvalid = errors.New(f("immediate invalid"))
)

// Fault reports a fault kind and the PC at which it occurred. It wraps the
// causing sentinel, so callers classify faults with errors.Is.
type Fault struct {
	Pc  uint32 // PC of the faulting instruction.
	Err error  // The fault cause.
}

func (fault *Fault) Error() string {
	return f("fault at 0x%04x: %v", fault.Pc, fault.Err)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
