package lua

import (
	"fmt"
	"io"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	mu     sync.Mutex
	output io.Writer

	// modules available to require
	modules map[string]lua.LValue
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L:       L,
		output:  io.Discard,
		modules: make(map[string]lua.LValue),
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that could be used to bypass the sandbox
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafePrint()
	s.installSafeRequire()
}

// SetOutput redirects print.
func (s *Sandbox) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = w
}

// Provide makes a module loadable through require.
func (s *Sandbox) Provide(name string, mod lua.LValue) {
	s.modules[name] = mod
}

// installSafePrint replaces print with a version writing to the
// sandbox output.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	}))
}

// safeModules are the built-in libraries require may return.
var safeModules = []string{"string", "table", "math"}

// installSafeRequire installs a require that only returns modules
// provided by the host or the opened built-in libraries.
func (s *Sandbox) installSafeRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)

		if mod, ok := s.modules[modName]; ok {
			L.Push(mod)
			return 1
		}
		for _, name := range safeModules {
			if name == modName {
				L.Push(L.GetGlobal(name))
				return 1
			}
		}

		// L.RaiseError does a longjmp, so code after it is unreachable.
		L.RaiseError("module %q is not available", modName)
		return 0
	}))
}
