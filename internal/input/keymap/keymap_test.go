package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

func runeEvent(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func keyEvent(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func TestDefaultBindings(t *testing.T) {
	km := Default()

	tests := []struct {
		name string
		ev   backend.Event
		want string
	}{
		{"digit", runeEvent('7'), "7"},
		{"zero", runeEvent('0'), "0"},
		{"decimal", runeEvent('.'), calc.LabelDecimal},
		{"comma decimal", runeEvent(','), calc.LabelDecimal},
		{"plus", runeEvent('+'), "+"},
		{"minus", runeEvent('-'), "-"},
		{"star", runeEvent('*'), "×"},
		{"x", runeEvent('x'), "×"},
		{"slash", runeEvent('/'), "÷"},
		{"percent", runeEvent('%'), "%"},
		{"equals", runeEvent('='), calc.LabelEquals},
		{"enter", keyEvent(backend.KeyEnter), calc.LabelEquals},
		{"backspace", keyEvent(backend.KeyBackspace), calc.LabelDelete},
		{"escape", keyEvent(backend.KeyEscape), calc.LabelClear},
		{"c", runeEvent('c'), calc.LabelClear},
		{"h", runeEvent('h'), calc.LabelClearHistory},
		{"q", runeEvent('q'), ActionQuit},
		{"ctrl+c", keyEvent(backend.KeyCtrlC), ActionQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.Lookup(tt.ev)
			if !ok {
				t.Fatalf("Lookup(%+v) not bound", tt.ev)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultTargetsValid(t *testing.T) {
	for _, b := range Default().Bindings() {
		if !ValidTarget(b.Target) {
			t.Errorf("default binding %q has invalid target %q", b.Key, b.Target)
		}
		if b.Source != "default" {
			t.Errorf("binding %q source = %q, want default", b.Key, b.Source)
		}
	}
}

func TestLookup_Unbound(t *testing.T) {
	km := Default()

	if _, ok := km.Lookup(runeEvent('z')); ok {
		t.Error("'z' should not be bound")
	}
	if _, ok := km.Lookup(keyEvent(backend.KeyTab)); ok {
		t.Error("tab should not be bound")
	}
	if _, ok := km.Lookup(backend.Event{Type: backend.EventMouse}); ok {
		t.Error("mouse events never match")
	}
}

func TestBind(t *testing.T) {
	km := Default()

	if err := km.Bind("k", calc.LabelDelete); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if got, _ := km.Lookup(runeEvent('k')); got != calc.LabelDelete {
		t.Errorf("Lookup('k') = %q, want DEL", got)
	}

	// Rebinding replaces the default.
	if err := km.Bind("Ctrl+D", ActionQuit); err != nil {
		t.Fatal(err)
	}
	if got, _ := km.Lookup(keyEvent(backend.KeyCtrlD)); got != ActionQuit {
		t.Errorf("Lookup(ctrl+d) = %q, want quit", got)
	}
	if err := km.Bind("q", "7"); err != nil {
		t.Fatal(err)
	}
	if got, _ := km.LookupName("q"); got != "7" {
		t.Errorf("LookupName(q) = %q, want 7", got)
	}
}

func TestBind_Errors(t *testing.T) {
	km := New()

	if err := km.Bind("k", "sqrt"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Bind(unknown target) = %v, want ErrUnknownTarget", err)
	}
	if err := km.Bind("hyper+k", "7"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Bind(unknown key) = %v, want ErrUnknownKey", err)
	}
	if err := km.Bind("", "7"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Bind(empty key) = %v, want ErrUnknownKey", err)
	}
	if km.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after failed binds", km.Len())
	}
}

func TestApply(t *testing.T) {
	km := Default()

	err := km.Apply(map[string]string{
		"k":     calc.LabelDelete,
		"bad":   "7",
		"j":     "nope",
		"alt+p": "+",
	})
	if err == nil {
		t.Fatal("Apply() should report invalid entries")
	}
	if !errors.Is(err, ErrUnknownKey) || !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Apply() error = %v, want both key and target errors", err)
	}

	if got, _ := km.LookupName("k"); got != calc.LabelDelete {
		t.Errorf("valid override not applied, k = %q", got)
	}
	ev := runeEvent('p')
	ev.Mod = backend.ModAlt
	if got, _ := km.Lookup(ev); got != "+" {
		t.Errorf("Lookup(alt+p) = %q, want +", got)
	}
}

func TestUnbind(t *testing.T) {
	km := Default()
	km.Unbind("Q")
	if _, ok := km.LookupName("q"); !ok {
		t.Error("Unbind is case sensitive for printable keys")
	}
	km.Unbind("q")
	if _, ok := km.LookupName("q"); ok {
		t.Error("q should be unbound")
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a", "a", false},
		{"A", "A", false},
		{"÷", "÷", false},
		{"Enter", "enter", false},
		{"RETURN", "enter", false},
		{"esc", "escape", false},
		{"Del", "delete", false},
		{"space", " ", false},
		{"CTRL+C", "ctrl+c", false},
		{"Alt+X", "alt+X", false},
		{"f13", "", true},
		{"alt+xy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		ev     backend.Event
		want   string
		wantOK bool
	}{
		{runeEvent('5'), "5", true},
		{keyEvent(backend.KeyEnter), "enter", true},
		{keyEvent(backend.KeyCtrlQ), "ctrl+q", true},
		{backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'y', Mod: backend.ModAlt}, "alt+y", true},
		{keyEvent(backend.KeyNone), "", false},
		{runeEvent(0), "", false},
	}

	for _, tt := range tests {
		got, ok := EventName(tt.ev)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("EventName(%+v) = (%q, %v), want (%q, %v)", tt.ev, got, ok, tt.want, tt.wantOK)
		}
	}
}
