package lua

import (
	"bytes"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestSandboxInstall(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	glua.OpenBase(L)

	sandbox := NewSandbox(L)
	sandbox.Install()

	// Verify dangerous functions are removed
	dangerousFuncs := []string{"dofile", "loadfile", "load", "loadstring", "module"}
	for _, fn := range dangerousFuncs {
		v := L.GetGlobal(fn)
		if v != glua.LNil {
			t.Errorf("%s should be removed, got %T", fn, v)
		}
	}
}

func TestSandboxPrint(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	glua.OpenBase(L)

	sandbox := NewSandbox(L)
	sandbox.Install()

	if err := L.DoString(`print("dropped")`); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	sandbox.SetOutput(&out)
	if err := L.DoString(`print("a", 1, true, nil)`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "a\t1\ttrue\tnil\n" {
		t.Errorf("print output = %q", got)
	}

	sandbox.SetOutput(nil)
	if err := L.DoString(`print("x")`); err != nil {
		t.Errorf("print with nil output: %v", err)
	}
}

func TestSandboxRequire(t *testing.T) {
	L := glua.NewState(glua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	sandbox := NewSandbox(L)
	sandbox.Install()
	sandbox.Provide("answers", glua.LNumber(42))

	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"provided module", `assert(require("answers") == 42)`, false},
		{"string library", `assert(require("string").len("abc") == 3)`, false},
		{"table library", `assert(require("table") == table)`, false},
		{"os", `require("os")`, true},
		{"io", `require("io")`, true},
		{"debug", `require("debug")`, true},
		{"no name", `require()`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("DoString(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}
