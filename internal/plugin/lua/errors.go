package lua

import "errors"

var (
	// ErrStateClosed is returned by every run method after Close.
	ErrStateClosed = errors.New("ustr lua: state closed")

	// ErrExecutionTimeout is returned when a script outlives the state's
	// execution timeout. Pure-Lua loops are only stopped by this limit.
	ErrExecutionTimeout = errors.New("ustr lua: script timed out")

	// ErrInstructionLimit is returned when a script makes more calls into
	// the ustr module and print than the state allows. Lua opcodes
	// themselves are not counted.
	ErrInstructionLimit = errors.New("ustr lua: instruction limit exceeded")
)
