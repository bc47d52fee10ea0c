package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single top-level execution.
const DefaultExecutionTimeout = 5 * time.Second

// State is a sandboxed interpreter safe for use from several
// goroutines. Only the base, table, string and math libraries are
// opened.
//
// Methods ending in Held expect the caller to be inside hold or
// tryHold.
type State struct {
	mu      sync.Mutex
	l       *lua.LState
	sandbox *Sandbox
	timeout time.Duration
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds each top-level execution. Zero disables
// the limit.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState returns a fresh sandboxed state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.l = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.l)
	s.sandbox = NewSandbox(s.l)
	s.sandbox.Install()
	return s
}

// DoString runs code as a chunk named "<string>".
func (s *State) DoString(code string) error {
	return s.DoChunk("<string>", code)
}

// DoChunk compiles and runs code under the given chunk name.
func (s *State) DoChunk(name, code string) error {
	var err error
	s.hold(func() {
		err = s.execHeld(func(L *lua.LState) error {
			fn, err := L.Load(strings.NewReader(code), name)
			if err != nil {
				return err
			}
			L.Push(fn)
			return L.PCall(0, lua.MultRet, nil)
		})
	})
	return err
}

// DoFile runs the script at path.
func (s *State) DoFile(path string) error {
	var err error
	s.hold(func() {
		err = s.execHeld(func(L *lua.LState) error { return L.DoFile(path) })
	})
	return err
}

// Call invokes the global function fn and returns its results, an
// empty slice when there are none.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var (
		out []lua.LValue
		err error
	)
	s.hold(func() { out, err = s.callHeld(fn, args...) })
	return out, err
}

// HasFunction reports whether the global name holds a function.
func (s *State) HasFunction(name string) bool {
	var ok bool
	s.hold(func() { ok = s.hasFunctionHeld(name) })
	return ok
}

// GetGlobal returns the global name, or nil once the state is closed.
func (s *State) GetGlobal(name string) lua.LValue {
	v := lua.LValue(lua.LNil)
	s.hold(func() {
		if !s.closed {
			v = s.l.GetGlobal(name)
		}
	})
	return v
}

// RegisterModule publishes funcs as the global table name, also
// reachable through require.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.hold(func() {
		if s.closed {
			return
		}
		mod := s.l.SetFuncs(s.l.NewTable(), funcs)
		s.l.SetGlobal(name, mod)
		s.sandbox.Provide(name, mod)
	})
}

// Sandbox returns the sandbox guarding this state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	var closed bool
	s.hold(func() { closed = s.closed })
	return closed
}

// Close releases the interpreter. Later calls fail with ErrStateClosed.
func (s *State) Close() error {
	s.hold(func() {
		if !s.closed {
			s.l.Close()
			s.closed = true
		}
	})
	return nil
}

// openSafeLibraries opens base, table, string and math. io, os, debug,
// package, channel and coroutine stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
}

func (s *State) hold(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// tryHold runs fn only if no other goroutine holds the state.
func (s *State) tryHold(fn func()) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	fn()
	return true
}

// execHeld runs fn with panic recovery. The timeout applies only to the
// outermost execution, so Go callbacks that re-enter Lua share it.
func (s *State) execHeld(fn func(L *lua.LState) error) (err error) {
	if s.closed {
		return ErrStateClosed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if s.timeout <= 0 || s.l.Context() != nil {
		return fn(s.l)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.l.SetContext(ctx)
	defer s.l.RemoveContext()

	err = fn(s.l)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v", ErrExecutionTimeout, s.timeout)
	}
	return err
}

func (s *State) hasFunctionHeld(name string) bool {
	return !s.closed && s.l.GetGlobal(name).Type() == lua.LTFunction
}

func (s *State) callHeld(name string, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}

	fn := s.l.GetGlobal(name)
	switch fn.Type() {
	case lua.LTFunction:
	case lua.LTNil:
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	default:
		return nil, fmt.Errorf("%q is a %s, not a function", name, fn.Type())
	}

	base := s.l.GetTop()
	var out []lua.LValue
	err := s.execHeld(func(L *lua.LState) error {
		L.Push(fn)
		for _, a := range args {
			L.Push(a)
		}
		if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}
		n := L.GetTop() - base
		out = make([]lua.LValue, 0, max(n, 0))
		for i := base + 1; i <= L.GetTop(); i++ {
			out = append(out, L.Get(i))
		}
		return nil
	})
	s.l.SetTop(base)
	if err != nil {
		return nil, err
	}
	return out, nil
}
