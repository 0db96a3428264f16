package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultInstructionLimit = 1_000_000 // bridged calls per run
)

// State wraps gopher-lua with the ustr module preloaded and a sandbox
// installed.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls
// from Go; a State must not be shared with code that uses L directly.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	instructionLimit int64
	output           io.Writer
	logger           *slog.Logger

	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each run. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithInstructionLimit sets the maximum number of bridged calls per run.
// Zero disables the limit.
func WithInstructionLimit(limit int64) StateOption {
	return func(s *State) {
		s.instructionLimit = limit
	}
}

// WithOutput redirects print. The default discards output.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		s.output = w
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(logger *slog.Logger) StateOption {
	return func(s *State) {
		s.logger = logger
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
		output:           io.Discard,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.instructionLimit, state.output)
	state.sandbox.Install()
	OpenModule(L, state.sandbox)

	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug.
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, "string", func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, path, func() error {
		return s.L.DoFile(path)
	})
}

// Call calls a global Lua function and returns its results converted to
// Go values.
func (s *State) Call(ctx context.Context, fn string, args ...any) ([]any, error) {
	var results []any
	err := s.run(ctx, fn, func() error {
		fnVal := s.L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}

		b := NewBridge(s.L)
		stackTop := s.L.GetTop()
		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(b.ToLuaValue(arg))
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		nRet := s.L.GetTop() - stackTop
		results = make([]any, nRet)
		for i := range nRet {
			results[i] = b.ToGoValue(s.L.Get(stackTop + i + 1))
		}
		s.L.Pop(nRet)
		return nil
	})
	return results, err
}

// run executes fn under the lock with the timeout, the instruction
// counter and panic recovery.
func (s *State) run(ctx context.Context, what string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	s.sandbox.ResetInstructionCount()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		err = s.classify(ctx, err)
		s.logger.Debug("lua run",
			"chunk", what,
			"instructions", s.sandbox.InstructionCount(),
			"elapsed", time.Since(start),
			"error", err)
	}()
	return fn()
}

// classify maps an interrupted run to ErrExecutionTimeout or
// ErrInstructionLimit.
func (s *State) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case s.sandbox.Exceeded():
		return fmt.Errorf("%w: %v", ErrInstructionLimit, err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

// SetGlobal converts v with the bridge and sets it as a global.
func (s *State) SetGlobal(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	s.L.SetGlobal(name, NewBridge(s.L).ToLuaValue(v))
	return nil
}

// Sandbox returns the sandbox of the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// Close releases all resources associated with the Lua state.
// After Close, runs return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
