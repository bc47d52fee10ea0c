package lua

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/logging"
)

// ModuleName is the name of the calculator module.
const ModuleName = "calc"

// ComputeHookName is the global function called after each computation.
const ComputeHookName = "on_compute"

// Host connects a Lua state to a calculator engine.
//
// Computations are queued and delivered to on_compute whenever the
// state is free. A computation triggered by the script itself is
// delivered before calc.press returns.
type Host struct {
	state  *State
	engine *calc.Engine
	logger *logging.Logger

	pendingMu sync.Mutex
	pending   []calc.Computation

	scriptsMu sync.Mutex
	scripts   []string

	hookErrMu sync.Mutex
	hookErr   error
}

// HostOption configures a Host.
type HostOption func(*hostOptions)

type hostOptions struct {
	timeout time.Duration
	output  io.Writer
	logger  *logging.Logger
}

// WithTimeout bounds each script execution and hook call.
func WithTimeout(d time.Duration) HostOption {
	return func(o *hostOptions) {
		o.timeout = d
	}
}

// WithOutput sets where print writes.
func WithOutput(w io.Writer) HostOption {
	return func(o *hostOptions) {
		o.output = w
	}
}

// WithLogger sets the host logger.
func WithLogger(l *logging.Logger) HostOption {
	return func(o *hostOptions) {
		o.logger = l
	}
}

// NewHost creates a sandboxed state bound to engine and subscribes to
// its computations.
func NewHost(engine *calc.Engine, opts ...HostOption) *Host {
	o := hostOptions{
		timeout: DefaultExecutionTimeout,
		output:  io.Discard,
		logger:  logging.Null,
	}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Host{
		state:  NewState(WithExecutionTimeout(o.timeout)),
		engine: engine,
		logger: o.logger.WithComponent("lua"),
	}
	h.state.Sandbox().SetOutput(o.output)
	h.state.RegisterModule(ModuleName, h.moduleFuncs())

	engine.OnCompute(h.enqueue)
	return h
}

// RunFile executes the script at path.
func (h *Host) RunFile(path string) error {
	h.logger.Debug("running script %s", path)
	err := h.run(func(L *lua.LState) error { return L.DoFile(path) })
	if err != nil {
		return &ScriptError{Script: filepath.Base(path), Err: err}
	}
	h.addScript(path)
	return nil
}

// RunString executes code under the given chunk name.
func (h *Host) RunString(name, code string) error {
	err := h.run(func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
	if err != nil {
		return &ScriptError{Script: name, Err: err}
	}
	return nil
}

// run executes fn and then delivers any computations it caused.
func (h *Host) run(fn func(L *lua.LState) error) error {
	var err error
	h.state.hold(func() {
		err = h.state.execHeld(fn)
		h.drainHeld()
	})
	h.flush()
	return err
}

// LoadScripts runs each file in order. Failing scripts are logged and
// reported together; later scripts still run.
func (h *Host) LoadScripts(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := h.RunFile(p); err != nil {
			h.logger.Error("%v", err)
			errs = append(errs, err)
			continue
		}
		h.logger.Info("loaded script %s", p)
	}
	return errors.Join(errs...)
}

// Scripts returns the paths of successfully loaded scripts.
func (h *Host) Scripts() []string {
	h.scriptsMu.Lock()
	defer h.scriptsMu.Unlock()
	out := make([]string, len(h.scripts))
	copy(out, h.scripts)
	return out
}

func (h *Host) addScript(path string) {
	h.scriptsMu.Lock()
	defer h.scriptsMu.Unlock()
	h.scripts = append(h.scripts, path)
}

// HasComputeHook reports whether a script defined on_compute.
func (h *Host) HasComputeHook() bool {
	return h.state.HasFunction(ComputeHookName)
}

// LastHookError returns and clears the last on_compute failure.
func (h *Host) LastHookError() error {
	h.hookErrMu.Lock()
	defer h.hookErrMu.Unlock()
	err := h.hookErr
	h.hookErr = nil
	return err
}

// Close releases the Lua state. Later computations are ignored.
func (h *Host) Close() error {
	return h.state.Close()
}

// enqueue is the engine compute hook.
func (h *Host) enqueue(c calc.Computation) {
	h.pendingMu.Lock()
	h.pending = append(h.pending, c)
	h.pendingMu.Unlock()
	h.flush()
}

// flush delivers queued computations unless another goroutine is
// running Lua, in which case that goroutine picks them up.
func (h *Host) flush() {
	for h.state.tryHold(h.drainHeld) {
		h.pendingMu.Lock()
		empty := len(h.pending) == 0
		h.pendingMu.Unlock()
		if empty {
			return
		}
	}
}

// drainHeld calls on_compute for every queued computation. Entries
// queued after Close are discarded.
func (h *Host) drainHeld() {
	for {
		h.pendingMu.Lock()
		batch := h.pending
		h.pending = nil
		h.pendingMu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, c := range batch {
			if h.state.hasFunctionHeld(ComputeHookName) {
				h.callHookHeld(c)
			}
		}
	}
}

func (h *Host) callHookHeld(c calc.Computation) {
	_, err := h.state.callHeld(ComputeHookName,
		lua.LString(c.Entry),
		lua.LNumber(c.A),
		lua.LString(c.Op.Glyph()),
		lua.LNumber(c.B),
		lua.LNumber(c.Result),
	)
	if err == nil {
		return
	}
	h.logger.Warn("%s failed: %v", ComputeHookName, err)
	h.hookErrMu.Lock()
	h.hookErr = err
	h.hookErrMu.Unlock()
}

// moduleFuncs returns the functions of the calc module.
func (h *Host) moduleFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"press":         h.luaPress,
		"display":       h.luaDisplay,
		"raw":           h.luaRaw,
		"pending":       h.luaPending,
		"history":       h.luaHistory,
		"clear":         h.luaClear,
		"clear_history": h.luaClearHistory,
	}
}

// luaPress presses each argument in order and returns the display.
func (h *Host) luaPress(L *lua.LState) int {
	n := L.GetTop()
	if n == 0 {
		L.ArgError(1, "button label expected")
		return 0
	}
	for i := 1; i <= n; i++ {
		label := L.CheckString(i)
		if err := h.engine.Press(label); err != nil {
			L.ArgError(i, err.Error())
			return 0
		}
		// The script holds the state, so deliver inline.
		h.drainHeld()
	}
	L.Push(lua.LString(h.engine.CurrentDisplay()))
	return 1
}

func (h *Host) luaDisplay(L *lua.LState) int {
	L.Push(lua.LString(h.engine.CurrentDisplay()))
	return 1
}

func (h *Host) luaRaw(L *lua.LState) int {
	L.Push(lua.LString(h.engine.RawDisplay()))
	return 1
}

func (h *Host) luaPending(L *lua.LState) int {
	s := h.engine.State()
	if !s.Pending() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(s.PendingOperator.Glyph()))
	return 1
}

func (h *Host) luaHistory(L *lua.LState) int {
	entries := h.engine.HistoryEntries()
	tbl := L.CreateTable(len(entries), 0)
	for _, e := range entries {
		tbl.Append(lua.LString(e))
	}
	L.Push(tbl)
	return 1
}

func (h *Host) luaClear(L *lua.LState) int {
	h.engine.Clear()
	return 0
}

func (h *Host) luaClearHistory(L *lua.LState) int {
	h.engine.ClearHistory()
	return 0
}
