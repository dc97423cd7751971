// Package errors defines the error kinds produced by the bfk pipeline.
//
// Every error carries the name of the stage that produced it and a short
// reason. Errors are never retried: the pipeline stops at the first one and
// the CLI turns it into a one-line diagnostic and a process exit code.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes used for failures that happen before execution begins.
const (
	ExitUsage   = 1
	ExitFailure = 2
)

// Kind identifies the category of a pipeline error.
type Kind int

const (
	// KindAllocation indicates a buffer could not grow.
	KindAllocation Kind = iota
	// KindIO indicates a file or stream operation failed.
	KindIO
	// KindParse indicates malformed source, such as unmatched brackets.
	KindParse
	// KindRuntime indicates execution halted with a non-zero code.
	KindRuntime
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindAllocation:
		return "allocation error"
	case KindIO:
		return "io error"
	case KindParse:
		return "parse error"
	case KindRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// StageError is implemented by every error type in this package.
type StageError interface {
	error
	Kind() Kind
	Stage() string
	Reason() string
	ExitCode() int
}

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

type base struct {
	stage  string
	reason string
	err    error
}

func (b *base) Stage() string  { return b.stage }
func (b *base) Reason() string { return b.reason }
func (b *base) Unwrap() error  { return b.err }
func (b *base) IsFatal() bool  { return true }

func (b *base) message() string {
	if b.err != nil && b.reason == "" {
		return fmt.Sprintf("%s: %v", b.stage, b.err)
	}
	if b.err != nil {
		return fmt.Sprintf("%s: %s: %v", b.stage, b.reason, b.err)
	}
	return fmt.Sprintf("%s: %s", b.stage, b.reason)
}

// AllocationError is returned when a buffer cannot obtain the capacity it
// needs. The buffer is left unchanged.
type AllocationError struct {
	base
	Requested int
}

func (e *AllocationError) Error() string { return e.message() }
func (e *AllocationError) Kind() Kind    { return KindAllocation }
func (e *AllocationError) ExitCode() int { return ExitFailure }

// NewAllocationError creates an AllocationError for a request of n bytes.
func NewAllocationError(stage string, n int) *AllocationError {
	return &AllocationError{
		base:      base{stage: stage, reason: fmt.Sprintf("failed to allocate memory: %d bytes needed", n)},
		Requested: n,
	}
}

// IOError wraps a failed file or stream operation.
type IOError struct {
	base
}

func (e *IOError) Error() string { return e.message() }
func (e *IOError) Kind() Kind    { return KindIO }
func (e *IOError) ExitCode() int { return ExitFailure }

// NewIOError creates an IOError wrapping err.
func NewIOError(stage, reason string, err error) *IOError {
	return &IOError{base: base{stage: stage, reason: reason, err: err}}
}

// ParseError is returned by the tokenizer and compiler for structural
// problems in the source. Offset is the index into the filtered instruction
// stream where the problem was found, or -1 when unknown.
type ParseError struct {
	base
	Offset int
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s (offset %d)", e.message(), e.Offset)
	}
	return e.message()
}
func (e *ParseError) Kind() Kind    { return KindParse }
func (e *ParseError) ExitCode() int { return ExitFailure }

// NewParseError creates a ParseError with no known offset.
func NewParseError(stage, reason string) *ParseError {
	return &ParseError{base: base{stage: stage, reason: reason}, Offset: -1}
}

// ParseErrorAt creates a ParseError at the given offset.
func ParseErrorAt(stage, reason string, offset int) *ParseError {
	return &ParseError{base: base{stage: stage, reason: reason}, Offset: offset}
}

// RuntimeError is returned when the virtual machine halts with a non-zero
// code: an out-of-bounds move or a failed read or write. Code is the opcode
// of the instruction that halted the machine and PC its index.
type RuntimeError struct {
	base
	Code int
	PC   int
}

func (e *RuntimeError) Error() string { return e.message() }
func (e *RuntimeError) Kind() Kind    { return KindRuntime }
func (e *RuntimeError) ExitCode() int { return e.Code }

// NewRuntimeError creates a RuntimeError.
func NewRuntimeError(reason string, code, pc int, err error) *RuntimeError {
	return &RuntimeError{
		base: base{stage: "run", reason: reason, err: err},
		Code: code,
		PC:   pc,
	}
}

// ExitCode returns the process exit code for err: 0 for nil, the code
// carried by a StageError, otherwise ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se StageError
	if errors.As(err, &se) {
		return se.ExitCode()
	}
	return ExitFailure
}

// IsKind reports whether any error in err's chain is a StageError of kind k.
func IsKind(err error, k Kind) bool {
	var se StageError
	if errors.As(err, &se) {
		return se.Kind() == k
	}
	return false
}
