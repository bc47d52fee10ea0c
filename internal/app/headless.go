package app

import (
	"fmt"

	"github.com/dshills/keycalc/internal/input/keymap"
)

// Result is the calculator state after a headless run.
type Result struct {
	Display string
	History []string
}

// RunKeys feeds each character of keys through the keymap, as if typed
// in the terminal. Spaces are skipped and newlines press enter. A key
// bound to quit stops the run early.
func (app *Application) RunKeys(keys string) (Result, error) {
	km := app.Keymap()
	for _, r := range keys {
		name := string(r)
		switch r {
		case ' ', '\t':
			continue
		case '\n', '\r':
			name = "enter"
		}

		target, ok := km.LookupName(name)
		app.metrics.RecordKey(ok)
		if !ok {
			return app.result(), NewOperationError("press", fmt.Sprintf("%q", name), ErrUnboundKey)
		}
		if target == keymap.ActionQuit {
			break
		}
		if err := app.press(target); err != nil {
			return app.result(), err
		}
	}
	return app.result(), nil
}

// RunScript runs a Lua script against the engine.
func (app *Application) RunScript(path string) (Result, error) {
	if err := app.ensurePlugins().RunFile(path); err != nil {
		return app.result(), err
	}
	return app.result(), nil
}

func (app *Application) result() Result {
	return Result{
		Display: app.engine.CurrentDisplay(),
		History: app.engine.HistoryEntries(),
	}
}
