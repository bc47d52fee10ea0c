package app

import (
	"errors"
	"runtime/debug"
	"strings"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/input/keymap"
	"github.com/dshills/keycalc/internal/renderer"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// Run initializes the terminal and runs the event loop until the user
// quits or Shutdown is called.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.close()
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	if app.Config().UI.Mouse {
		app.backend.EnableMouse()
	}

	app.logger.Info("keycalc started")
	app.render()
	return app.eventLoop()
}

// eventLoop is the main application loop. It blocks on the backend and
// redraws after every event.
func (app *Application) eventLoop() error {
	for {
		select {
		case <-app.done:
			return nil
		default:
		}

		ev := app.backend.PollEvent()

		select {
		case <-app.done:
			return nil
		default:
		}

		if err := app.handleEventSafely(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				app.logger.Info("quit requested")
				return nil
			}
			app.logger.Error("%v", err)
			app.setMessage(firstLine(err.Error()))
		}
		app.render()
	}
}

// handleEventSafely runs handleBackendEvent, turning a panic into an error.
func (app *Application) handleEventSafely(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return app.handleBackendEvent(ev)
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventResize, backend.EventInterrupt:
		// Redrawn by the loop
		return nil
	default:
		return nil
	}
}

// handleKeyEvent resolves the key through the keymap and presses the
// bound button.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	target, ok := app.Keymap().Lookup(ev)
	app.metrics.RecordKey(ok)
	if !ok {
		if name, named := keymap.EventName(ev); named {
			app.logger.Debug("unbound key %s", name)
		}
		app.backend.Beep()
		return nil
	}

	if target == keymap.ActionQuit {
		return ErrQuit
	}
	return app.press(target)
}

// handleMouseEvent presses the button under a left click.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	if ev.MouseButton != backend.MouseLeft || app.renderer == nil {
		return nil
	}

	label, ok := app.renderer.HitTest(ev.MouseX, ev.MouseY)
	if !ok {
		return nil
	}
	app.metrics.RecordClick()
	return app.press(label)
}

// press presses label on the engine and records it as the active button.
func (app *Application) press(label string) error {
	ev, err := calc.ParseEvent(label)
	if err != nil {
		return NewOperationError("press", label, err)
	}
	if err := app.engine.Dispatch(ev); err != nil {
		return NewOperationError("press", label, err)
	}

	msg := ""
	if host := app.Plugins(); host != nil {
		if err := host.LastHookError(); err != nil {
			msg = "on_compute: " + firstLine(err.Error())
		}
	}

	app.mu.Lock()
	app.active = ev.Label()
	app.message = msg
	app.mu.Unlock()
	return nil
}

// Frame returns the frame for the current engine state.
func (app *Application) Frame() renderer.Frame {
	st := app.engine.State()

	app.mu.RLock()
	defer app.mu.RUnlock()

	f := renderer.Frame{
		Display: calc.FormatForDisplay(st.DisplayText),
		History: st.HistoryLog,
		Active:  app.active,
		Message: app.message,
	}
	if st.Pending() {
		f.Pending = st.PendingOperator
	}
	return f
}

// render draws the current frame.
func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	timer := StartTimer()
	app.renderer.Render(app.Frame())
	app.metrics.RecordRender(timer.Elapsed())
}

// firstLine returns s up to its first newline.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
