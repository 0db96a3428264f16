package lua

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations and counts calls
// into Go.
type Sandbox struct {
	L *lua.LState

	output io.Writer

	// Instruction limiting. Lua cannot be metered per opcode, so each call
	// bridged into Go counts as one instruction.
	instructionLimit int64
	instructionCount int64
	exceeded         atomic.Bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, instructionLimit int64, output io.Writer) *Sandbox {
	if output == nil {
		output = io.Discard
	}
	return &Sandbox{
		L:                L,
		output:           output,
		instructionLimit: instructionLimit,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installSafeRequire()
}

// installPrint replaces print with a version writing to the sandbox output.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(s.Guard(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	})))
}

// installSafeRequire replaces require with a version that only allows the
// built-in safe modules and the preloaded ustr module. package.path and
// package.cpath are cleared so nothing is loaded from disk.
func (s *Sandbox) installSafeRequire() {
	pkg, ok := s.L.GetGlobal("package").(*lua.LTable)
	if ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	safeModules := map[string]bool{
		"string":   true,
		"table":    true,
		"math":     true,
		ModuleName: true,
	}

	originalRequire := s.L.GetGlobal("require")

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !safeModules[modName] {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}

// Guard wraps fn so that each call counts against the instruction limit.
// A call past the limit raises a Lua error.
func (s *Sandbox) Guard(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		if s.IncrementInstructions(1) {
			s.exceeded.Store(true)
			L.RaiseError("%s (limit %d)", ErrInstructionLimit, s.instructionLimit)
			return 0
		}
		return fn(L)
	}
}

// ResetInstructionCount resets the instruction counter.
func (s *Sandbox) ResetInstructionCount() {
	atomic.StoreInt64(&s.instructionCount, 0)
	s.exceeded.Store(false)
}

// InstructionCount returns the current instruction count.
func (s *Sandbox) InstructionCount() int64 {
	return atomic.LoadInt64(&s.instructionCount)
}

// Exceeded reports whether the current run hit the instruction limit.
func (s *Sandbox) Exceeded() bool {
	return s.exceeded.Load()
}

// IncrementInstructions adds to the instruction count and returns true if limit exceeded.
func (s *Sandbox) IncrementInstructions(n int64) bool {
	if s.instructionLimit <= 0 {
		atomic.AddInt64(&s.instructionCount, n)
		return false
	}
	count := atomic.AddInt64(&s.instructionCount, n)
	return count > s.instructionLimit
}
