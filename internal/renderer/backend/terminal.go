package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keycalc/internal/renderer/core"
)

// Terminal draws on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal creates a terminal backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// newTerminalWithScreen wraps an existing screen, e.g. a simulation screen.
func newTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// locked runs fn with exclusive access to the screen.
func (t *Terminal) locked(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

func (t *Terminal) Init() error {
	var err error
	t.locked(func(s tcell.Screen) {
		if err = s.Init(); err != nil {
			return
		}
		s.SetStyle(tcell.StyleDefault)
		s.HideCursor()
	})
	return err
}

func (t *Terminal) Shutdown() {
	t.locked(func(s tcell.Screen) { s.Fini() })
}

func (t *Terminal) Size() (width, height int) {
	t.locked(func(s tcell.Screen) { width, height = s.Size() })
	return width, height
}

// SetCell draws cell at x, y. Continuation cells are skipped since tcell
// lays out wide runes itself.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	t.locked(func(s tcell.Screen) {
		s.SetContent(x, y, cell.Rune, nil, tcellStyle(cell.Style))
	})
}

func (t *Terminal) Fill(rect core.ScreenRect, cell core.Cell) {
	style := tcellStyle(cell.Style)
	t.locked(func(s tcell.Screen) {
		w, h := s.Size()
		clip := rect.Intersect(core.ScreenRect{Right: w, Bottom: h})
		for y := clip.Top; y < clip.Bottom; y++ {
			for x := clip.Left; x < clip.Right; x++ {
				s.SetContent(x, y, cell.Rune, nil, style)
			}
		}
	})
}

func (t *Terminal) Clear() {
	t.locked(func(s tcell.Screen) { s.Clear() })
}

func (t *Terminal) Show() {
	t.locked(func(s tcell.Screen) { s.Show() })
}

// PollEvent blocks for the next terminal event. After Shutdown it
// returns EventInterrupt.
func (t *Terminal) PollEvent() Event {
	raw := t.screen.PollEvent()
	if raw == nil {
		return Event{Type: EventInterrupt}
	}

	ev := fromTcell(raw)
	if ev.Type == EventResize {
		t.locked(func(s tcell.Screen) { s.Sync() })
	}
	return ev
}

// PostEvent queues a key or interrupt event. Other event types and a
// full queue are ignored.
func (t *Terminal) PostEvent(ev Event) {
	var raw tcell.Event
	switch ev.Type {
	case EventKey:
		raw = tcell.NewEventKey(toTcellKey(ev.Key), ev.Rune, toTcellMod(ev.Mod))
	case EventInterrupt:
		raw = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(raw)
}

func (t *Terminal) Beep() {
	t.locked(func(s tcell.Screen) { _ = s.Beep() })
}

func (t *Terminal) EnableMouse() {
	t.locked(func(s tcell.Screen) { s.EnableMouse(tcell.MouseButtonEvents) })
}

func (t *Terminal) DisableMouse() {
	t.locked(func(s tcell.Screen) { s.DisableMouse() })
}

// tcellStyle maps a cell style onto tcell.
func tcellStyle(st core.Style) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellColor(st.Foreground)).
		Background(tcellColor(st.Background)).
		Bold(st.Attributes.Has(core.AttrBold)).
		Dim(st.Attributes.Has(core.AttrDim)).
		Underline(st.Attributes.Has(core.AttrUnderline)).
		Reverse(st.Attributes.Has(core.AttrReverse))
}

func tcellColor(c core.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// fromTcell translates a tcell event.
func fromTcell(raw tcell.Event) Event {
	switch e := raw.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e.Key()), Rune: e.Rune(), Mod: convertMod(e.Modifiers())}
	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{Type: EventMouse, MouseX: x, MouseY: y, MouseButton: convertMouseButton(e.Buttons()), Mod: convertMod(e.Modifiers())}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}
	}
	return Event{Type: EventNone}
}

// tcellKeys lists the keys the calculator understands. tcell reports
// backspace as either BS or DEL depending on the terminal.
var tcellKeys = map[tcell.Key]Key{
	tcell.KeyRune:       KeyRune,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyCtrlC:      KeyCtrlC,
	tcell.KeyCtrlD:      KeyCtrlD,
	tcell.KeyCtrlL:      KeyCtrlL,
	tcell.KeyCtrlQ:      KeyCtrlQ,
}

func convertKey(k tcell.Key) Key {
	if key, ok := tcellKeys[k]; ok {
		return key
	}
	return KeyNone
}

func toTcellKey(k Key) tcell.Key {
	if k == KeyBackspace {
		return tcell.KeyBackspace2
	}
	for tk, key := range tcellKeys {
		if key == k {
			return tk
		}
	}
	return tcell.KeyRune
}

var modPairs = []struct {
	tcell tcell.ModMask
	mod   ModMask
}{
	{tcell.ModShift, ModShift},
	{tcell.ModCtrl, ModCtrl},
	{tcell.ModAlt, ModAlt},
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, p := range modPairs {
		if m&p.tcell != 0 {
			out |= p.mod
		}
	}
	return out
}

func toTcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	for _, p := range modPairs {
		if m&p.mod != 0 {
			out |= p.tcell
		}
	}
	return out
}

// convertMouseButton reports the pressed button; tcell numbers the
// secondary (right) button before the middle one.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return MouseLeft
	case b&tcell.ButtonSecondary != 0:
		return MouseRight
	case b&tcell.ButtonMiddle != 0:
		return MouseMiddle
	}
	return MouseNone
}
