// Package backend abstracts the display the calculator is drawn on. The
// Terminal backend drives a real terminal through tcell; NullBackend
// keeps the screen in memory for tests and headless runs.
package backend

import "github.com/dshills/keycalc/internal/renderer/core"

// Backend is a cell grid plus an input event source.
//
// Init must be called before anything else. Writes outside the grid are
// dropped. Nothing is visible until Show.
type Backend interface {
	Init() error
	Shutdown()
	Size() (width, height int)

	SetCell(x, y int, cell core.Cell)
	Fill(rect core.ScreenRect, cell core.Cell)
	Clear()
	Show()

	// PollEvent blocks until the next event.
	PollEvent() Event
	// PostEvent queues a synthetic event. It never blocks.
	PostEvent(event Event)

	Beep()
	EnableMouse()
	DisableMouse()
}
