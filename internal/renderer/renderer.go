package renderer

import (
	"strings"
	"sync"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/renderer/backend"
	"github.com/dshills/keycalc/internal/renderer/core"
)

// Labels shown in the history panel.
const (
	historyTitle   = "History"
	clearLabel     = "[Clear]"
	emptyHistory   = "No calculations yet"
	tooSmall       = "Terminal too small"
	defaultKeyHint = "q quit  h clear history"
)

// Frame is the calculator state to draw.
type Frame struct {
	// Display is the formatted display text.
	Display string

	// Pending is the operator waiting for its second operand.
	Pending calc.Operator

	// History holds the computation log, newest first.
	History []string

	// Active is the label of the button to highlight, if any.
	Active string

	// Message replaces the key hint when set, e.g. for script errors.
	Message string
}

// Renderer draws frames onto a backend and remembers where each
// button was drawn for mouse hit testing.
type Renderer struct {
	mu sync.Mutex

	backend     backend.Backend
	theme       *Theme
	showHistory bool

	// Regions from the last Render
	buttons      []Button
	clearHistory core.ScreenRect

	frames uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the color theme.
func WithTheme(t *Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithHistory shows or hides the history panel.
func WithHistory(show bool) Option {
	return func(r *Renderer) {
		r.showHistory = show
	}
}

// New creates a renderer drawing to b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend:     b,
		theme:       DefaultTheme(),
		showHistory: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTheme changes the theme used by the next Render.
func (r *Renderer) SetTheme(t *Theme) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = t
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// SetShowHistory shows or hides the history panel on the next Render.
func (r *Renderer) SetShowHistory(show bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showHistory = show
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Render draws f and flushes it to the backend.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width, height := r.backend.Size()
	t := r.theme

	r.backend.Fill(core.ScreenRect{Right: width, Bottom: height}, core.NewStyledCell(' ', t.Base))

	l, ok := computeLayout(width, height, r.showHistory)
	if !ok {
		r.buttons = nil
		r.clearHistory = core.ScreenRect{}
		r.drawText(0, 0, width, tooSmall, t.Muted)
		r.finish()
		return
	}

	r.buttons = l.buttons
	r.drawDisplay(l.display, f)
	for _, b := range l.buttons {
		r.drawButton(b, b.Label == f.Active)
	}

	if l.hint >= 0 {
		hint := defaultKeyHint
		if f.Message != "" {
			hint = f.Message
		}
		r.drawText(0, l.hint, panelWidth, truncate(hint, panelWidth), t.Muted)
	}

	r.clearHistory = core.ScreenRect{}
	if !l.history.IsEmpty() {
		r.drawHistory(l.history, f.History)
	}

	r.finish()
}

func (r *Renderer) finish() {
	r.backend.Show()
	r.frames++
}

// HitTest returns the label of the button at column x, row y.
// The history panel's clear button reports calc.LabelClearHistory.
func (r *Renderer) HitTest(x, y int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.buttons {
		if b.Rect.Contains(x, y) {
			return b.Label, true
		}
	}
	if r.clearHistory.Contains(x, y) {
		return calc.LabelClearHistory, true
	}
	return "", false
}

// Buttons returns the buttons placed by the last Render.
func (r *Renderer) Buttons() []Button {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Button, len(r.buttons))
	copy(out, r.buttons)
	return out
}

func (r *Renderer) drawDisplay(rect core.ScreenRect, f Frame) {
	t := r.theme
	inner := rect.Width() - 2

	r.drawText(rect.Left, rect.Top, rect.Width(), "┌"+strings.Repeat("─", inner)+"┐", t.Border)
	r.drawText(rect.Left, rect.Top+1, 1, "│", t.Border)
	r.drawText(rect.Right-1, rect.Top+1, 1, "│", t.Border)
	r.drawText(rect.Left, rect.Top+2, rect.Width(), "└"+strings.Repeat("─", inner)+"┘", t.Border)

	if f.Pending.Valid() {
		r.drawText(rect.Left+2, rect.Top+1, 1, f.Pending.Glyph(), t.Pending)
	}

	// Right-aligned with one cell of padding, after the operator column
	avail := inner - 4
	text := truncate(f.Display, avail)
	x := rect.Right - 2 - core.StringWidth(text)
	r.drawText(x, rect.Top+1, avail, text, t.Display)
}

func (r *Renderer) drawButton(b Button, active bool) {
	style := r.buttonStyle(b.Kind)
	if active {
		style = r.theme.Active
	}
	r.backend.Fill(b.Rect, core.NewStyledCell(' ', style))

	w := core.StringWidth(b.Label)
	x := b.Rect.Left + (b.Rect.Width()-w)/2
	r.drawText(x, b.Rect.Top, b.Rect.Width(), b.Label, style)
}

func (r *Renderer) buttonStyle(kind ButtonKind) core.Style {
	switch kind {
	case ButtonOperator:
		return r.theme.Operator
	case ButtonFunction:
		return r.theme.Function
	case ButtonEquals:
		return r.theme.Equals
	default:
		return r.theme.Digit
	}
}

func (r *Renderer) drawHistory(rect core.ScreenRect, entries []string) {
	t := r.theme
	w := rect.Width()

	r.drawText(rect.Left, rect.Top, w, historyTitle, t.Header)
	clearX := rect.Right - core.StringWidth(clearLabel)
	r.drawText(clearX, rect.Top, len(clearLabel), clearLabel, t.Function)
	r.clearHistory = core.RectFromSize(rect.Top, clearX, 1, core.StringWidth(clearLabel))

	r.drawText(rect.Left, rect.Top+1, w, strings.Repeat("─", w), t.Border)

	top := rect.Top + 2
	if len(entries) == 0 {
		r.drawText(rect.Left, top, w, truncate(emptyHistory, w), t.Muted)
		return
	}
	for i, entry := range entries {
		y := top + i
		if y >= rect.Bottom {
			break
		}
		r.drawText(rect.Left, y, w, truncate(entry, w), t.Entry)
	}
}

// drawText writes s starting at (x, y), clipped to maxWidth columns.
func (r *Renderer) drawText(x, y, maxWidth int, s string, style core.Style) {
	col := 0
	for _, cell := range core.CellsFromString(s, style) {
		if cell.IsContinuation() {
			r.backend.SetCell(x+col-1, y, cell)
			continue
		}
		if col+cell.Width > maxWidth {
			break
		}
		r.backend.SetCell(x+col, y, cell)
		col += cell.Width
	}
}

// truncate shortens s to at most width columns, marking the cut with "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if core.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := core.RuneWidth(r)
		if used+rw > width-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	b.WriteString("…")
	return b.String()
}
