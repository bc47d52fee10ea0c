package lua

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keycalc/internal/calc"
)

func newTestHost(t *testing.T, opts ...HostOption) (*Host, *calc.Engine) {
	t.Helper()
	engine := calc.New()
	h := NewHost(engine, opts...)
	t.Cleanup(func() { _ = h.Close() })
	return h, engine
}

func writeScript(t *testing.T, name, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHost_Press(t *testing.T) {
	h, engine := newTestHost(t)

	err := h.RunString("press", `
		calc.press("5", "+", "3")
		result = calc.press("=")
		raw = calc.raw()
	`)
	if err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	if got := engine.CurrentDisplay(); got != "8" {
		t.Errorf("engine display = %q, want 8", got)
	}
	if got := h.state.GetGlobal("result").String(); got != "8" {
		t.Errorf("press() returned %q, want 8", got)
	}
	if got := h.state.GetGlobal("raw").String(); got != "8" {
		t.Errorf("raw() = %q, want 8", got)
	}
}

func TestHost_DisplayAndPending(t *testing.T) {
	h, engine := newTestHost(t)

	engine.Press("1")
	engine.Press("2")
	engine.Press("×")

	err := h.RunString("pending", `
		shown = calc.display()
		op = calc.pending()
		calc.clear()
		after = calc.pending()
	`)
	if err != nil {
		t.Fatal(err)
	}

	if got := h.state.GetGlobal("shown").String(); got != "12" {
		t.Errorf("display() = %q, want 12", got)
	}
	if got := h.state.GetGlobal("op").String(); got != "×" {
		t.Errorf("pending() = %q, want ×", got)
	}
	if got := h.state.GetGlobal("after"); got != lua.LNil {
		t.Errorf("pending() after clear = %v, want nil", got)
	}
}

func TestHost_History(t *testing.T) {
	h, engine := newTestHost(t)

	for _, label := range strings.Fields("2 + 2 = × 3 =") {
		if err := engine.Press(label); err != nil {
			t.Fatal(err)
		}
	}

	err := h.RunString("history", `
		local entries = calc.history()
		count = #entries
		newest = entries[1]
		calc.clear_history()
		remaining = #calc.history()
	`)
	if err != nil {
		t.Fatal(err)
	}

	if got := h.state.GetGlobal("count"); got.String() != "2" {
		t.Errorf("#history = %v, want 2", got)
	}
	if got := h.state.GetGlobal("newest").String(); got != "4 × 3 = 12" {
		t.Errorf("history()[1] = %q, want newest entry", got)
	}
	if got := h.state.GetGlobal("remaining"); got.String() != "0" {
		t.Errorf("#history after clear = %v, want 0", got)
	}
	if len(engine.HistoryEntries()) != 0 {
		t.Error("clear_history should clear the engine history")
	}
}

func TestHost_PressInvalidLabel(t *testing.T) {
	h, _ := newTestHost(t)

	err := h.RunString("bad", `calc.press("sqrt")`)
	if err == nil {
		t.Fatal("pressing an unknown label should fail")
	}
	var serr *ScriptError
	if !errors.As(err, &serr) || serr.Script != "bad" {
		t.Errorf("error = %v, want *ScriptError for chunk bad", err)
	}

	if err := h.RunString("empty", `calc.press()`); err == nil {
		t.Error("press() without arguments should fail")
	}
}

func TestHost_ComputeHookFromScript(t *testing.T) {
	h, _ := newTestHost(t)

	err := h.RunString("hook", `
		seen = {}
		function on_compute(entry, a, op, b, result)
			table.insert(seen, string.format("%s|%g|%s|%g|%g", entry, a, op, b, result))
		end
		calc.press("7", "÷", "2", "=")
		first = seen[1]
		count_after_press = #seen
	`)
	if err != nil {
		t.Fatal(err)
	}

	if !h.HasComputeHook() {
		t.Error("HasComputeHook() = false")
	}
	if got := h.state.GetGlobal("count_after_press").String(); got != "1" {
		t.Errorf("hook calls before press returned = %s, want 1", got)
	}
	if got := h.state.GetGlobal("first").String(); got != "7 ÷ 2 = 3.5|7|÷|2|3.5" {
		t.Errorf("hook arguments = %q", got)
	}
}

func TestHost_ComputeHookFromGo(t *testing.T) {
	var out bytes.Buffer
	h, engine := newTestHost(t, WithOutput(&out))

	err := h.RunString("hook", `
		function on_compute(entry)
			print("computed", entry)
		end
	`)
	if err != nil {
		t.Fatal(err)
	}

	for _, label := range strings.Fields("9 - 4 =") {
		if err := engine.Press(label); err != nil {
			t.Fatal(err)
		}
	}

	if got := out.String(); got != "computed\t9 - 4 = 5\n" {
		t.Errorf("print output = %q", got)
	}
}

func TestHost_ComputeHookConcurrent(t *testing.T) {
	h, engine := newTestHost(t)

	if err := h.RunString("count", `
		calls = 0
		function on_compute() calls = calls + 1 end
	`); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_ = engine.Press("1")
				_ = engine.Press("+")
				_ = engine.Press("1")
				_ = engine.Press("=")
			}
		}()
	}
	wg.Wait()
	h.flush()

	want := len(engine.HistoryEntries())
	if got := h.state.GetGlobal("calls").String(); got != strconv.Itoa(want) {
		t.Errorf("on_compute calls = %s, want %d", got, want)
	}
}

func TestHost_ComputeHookError(t *testing.T) {
	h, engine := newTestHost(t)

	if err := h.RunString("broken", `function on_compute() error("boom") end`); err != nil {
		t.Fatal(err)
	}
	for _, label := range strings.Fields("1 + 1 =") {
		_ = engine.Press(label)
	}

	err := h.LastHookError()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("LastHookError() = %v, want boom", err)
	}
	if h.LastHookError() != nil {
		t.Error("LastHookError should clear the error")
	}
	if engine.CurrentDisplay() != "2" {
		t.Error("a failing hook must not affect the engine")
	}
}

func TestHost_RunFileAndLoadScripts(t *testing.T) {
	h, engine := newTestHost(t)

	good := writeScript(t, "good.lua", `local c = require("calc"); c.press("4", "2")`)
	bad := writeScript(t, "bad.lua", `this is not lua`)
	missing := filepath.Join(t.TempDir(), "missing.lua")

	err := h.LoadScripts([]string{bad, good, missing})
	if err == nil {
		t.Fatal("LoadScripts() should report failing scripts")
	}
	if !strings.Contains(err.Error(), "bad.lua") || !strings.Contains(err.Error(), "missing.lua") {
		t.Errorf("LoadScripts() error = %v", err)
	}

	if got := engine.RawDisplay(); got != "42" {
		t.Errorf("display = %q, want 42 from good.lua", got)
	}
	if scripts := h.Scripts(); len(scripts) != 1 || scripts[0] != good {
		t.Errorf("Scripts() = %v, want [%s]", scripts, good)
	}
}

func TestHost_Timeout(t *testing.T) {
	h, _ := newTestHost(t, WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := h.RunString("loop", `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("RunString() error = %v, want ErrExecutionTimeout", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout took too long")
	}

	// The state stays usable.
	if err := h.RunString("after", `x = 1`); err != nil {
		t.Errorf("RunString after timeout error = %v", err)
	}
}

func TestHost_Sandbox(t *testing.T) {
	h, _ := newTestHost(t)

	tests := []struct {
		name string
		code string
	}{
		{"os", `os.exit(1)`},
		{"io", `io.write("x")`},
		{"dofile", `dofile("/etc/passwd")`},
		{"load", `load("return 1")()`},
		{"require os", `require("os")`},
		{"require file", `require("evil")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.RunString(tt.name, tt.code); err == nil {
				t.Errorf("%s should not be available", tt.name)
			}
		})
	}

	if err := h.RunString("libs", `local m = require("math"); assert(m.floor(2.5) == 2); assert(string.upper("a") == "A")`); err != nil {
		t.Errorf("safe libraries should work: %v", err)
	}
}

func TestHost_Closed(t *testing.T) {
	engine := calc.New()
	h := NewHost(engine)
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}

	if err := h.RunString("x", `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("RunString after Close = %v, want ErrStateClosed", err)
	}

	// Computations after Close are ignored.
	for _, label := range strings.Fields("1 + 1 =") {
		_ = engine.Press(label)
	}
	if engine.CurrentDisplay() != "2" {
		t.Error("engine should keep working after the host closes")
	}
}
