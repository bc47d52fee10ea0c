package backend

import (
	"strings"
	"sync"

	"github.com/dshills/keycalc/internal/renderer/core"
)

const nullQueueSize = 100

// NullBackend is an in-memory Backend. Besides the interface it exposes
// what was drawn and how often Show and Beep ran, so tests can assert
// on the screen.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	grid          []core.Cell
	shows, beeps  int
	mouse         bool
	events        chan Event
}

var _ Backend = (*NullBackend)(nil)

// NewNullBackend returns a width by height screen.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, nullQueueSize),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	b.grid = blankGrid(b.width * b.height)
	b.mu.Unlock()
	return nil
}

func blankGrid(n int) []core.Cell {
	grid := make([]core.Cell, n)
	for i := range grid {
		grid[i] = core.EmptyCell()
	}
	return grid
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) bounds() core.ScreenRect {
	return core.ScreenRect{Right: b.width, Bottom: b.height}
}

// index must be called with mu held. It returns -1 off screen.
func (b *NullBackend) index(x, y int) int {
	if !b.bounds().Contains(x, y) || len(b.grid) == 0 {
		return -1
	}
	return y*b.width + x
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(x, y); i >= 0 {
		b.grid[i] = cell
	}
}

// GetCell returns the cell at x, y, or an empty cell off screen.
func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(x, y); i >= 0 {
		return b.grid[i]
	}
	return core.EmptyCell()
}

// Row returns the text on row y without trailing blanks.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	start := b.index(0, y)
	if start < 0 {
		return ""
	}
	return strings.TrimRight(core.StringFromCells(b.grid[start:start+b.width]), " ")
}

// Screen returns all rows joined with newlines.
func (b *NullBackend) Screen() string {
	_, h := b.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	clip := rect.Intersect(b.bounds())
	for y := clip.Top; y < clip.Bottom; y++ {
		for x := clip.Left; x < clip.Right; x++ {
			b.grid[y*b.width+x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.grid {
		b.grid[i] = core.EmptyCell()
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

// ShowCount returns the number of Show calls.
func (b *NullBackend) ShowCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

// PostEvent drops the event when the queue is full.
func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

func (b *NullBackend) Beep() {
	b.mu.Lock()
	b.beeps++
	b.mu.Unlock()
}

// BeepCount returns the number of Beep calls.
func (b *NullBackend) BeepCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}

func (b *NullBackend) EnableMouse()  { b.setMouse(true) }
func (b *NullBackend) DisableMouse() { b.setMouse(false) }

func (b *NullBackend) setMouse(on bool) {
	b.mu.Lock()
	b.mouse = on
	b.mu.Unlock()
}

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse
}

// Resize replaces the screen with a blank one of the new size and
// queues an EventResize.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.grid = blankGrid(width * height)
	b.mu.Unlock()

	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
