package renderer

import (
	"strings"
	"testing"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

func newTestRenderer(t *testing.T, width, height int, opts ...Option) (*Renderer, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(width, height)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	return New(b, opts...), b
}

func TestRender_Display(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)

	r.Render(Frame{Display: "1234", Pending: calc.OpMultiply})

	row := b.Row(1)
	if !strings.HasPrefix(row, "│ ×") {
		t.Errorf("display row = %q, want pending glyph after the border", row)
	}
	if !strings.Contains(row, "1234 │") {
		t.Errorf("display row = %q, want right-aligned value", row)
	}
	if !strings.HasPrefix(b.Row(0), "┌───") || !strings.HasPrefix(b.Row(2), "└───") {
		t.Errorf("display border missing:\n%s", b.Screen())
	}
	if b.ShowCount() != 1 || r.FrameCount() != 1 {
		t.Errorf("ShowCount = %d, FrameCount = %d, want 1", b.ShowCount(), r.FrameCount())
	}
}

func TestRender_NoPendingOperator(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)

	r.Render(Frame{Display: "0"})

	if row := b.Row(1); strings.ContainsAny(row, "+-×÷%") {
		t.Errorf("display row = %q, want no operator glyph", row)
	}
}

func TestRender_Keypad(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)
	r.Render(Frame{Display: "0"})

	rows := map[int][]string{
		4:  {"C", "DEL", "%", "÷"},
		6:  {"7", "8", "9", "×"},
		8:  {"4", "5", "6", "-"},
		10: {"1", "2", "3", "+"},
		12: {"0", ".", "="},
	}
	for y, labels := range rows {
		row := b.Row(y)
		// Keep only the calculator side of the screen.
		if len([]rune(row)) > panelWidth {
			row = string([]rune(row)[:panelWidth])
		}
		if got := strings.Fields(row); strings.Join(got, " ") != strings.Join(labels, " ") {
			t.Errorf("row %d = %v, want %v", y, got, labels)
		}
	}
}

func TestRender_History(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)

	r.Render(Frame{
		Display: "36",
		History: []string{"12 × 3 = 36", "5 + 3 = 8"},
	})

	header := b.Row(0)
	if !strings.Contains(header, "History") || !strings.HasSuffix(header, "[Clear]") {
		t.Errorf("history header = %q", header)
	}
	if !strings.HasSuffix(b.Row(2), "12 × 3 = 36") {
		t.Errorf("row 2 = %q, want newest entry", b.Row(2))
	}
	if !strings.HasSuffix(b.Row(3), "5 + 3 = 8") {
		t.Errorf("row 3 = %q, want older entry", b.Row(3))
	}
}

func TestRender_EmptyHistory(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)
	r.Render(Frame{Display: "0"})

	if !strings.HasSuffix(b.Row(2), emptyHistory) {
		t.Errorf("row 2 = %q, want %q", b.Row(2), emptyHistory)
	}
}

func TestRender_HistoryTruncation(t *testing.T) {
	r, b := newTestRenderer(t, 45, 14)

	entries := make([]string, 40)
	for i := range entries {
		entries[i] = "123456789 × 987654321 = 1.219e+17"
	}
	r.Render(Frame{Display: "0", History: entries})

	last := b.Row(13)
	if !strings.HasSuffix(last, "…") {
		t.Errorf("long entry should be cut with an ellipsis, got %q", last)
	}
	// Panel is 45 - 31 = 14 columns wide.
	if got := strings.TrimLeft(string([]rune(last)[31:]), " "); len([]rune(got)) != 14 {
		t.Errorf("truncated entry = %q, want 14 columns", got)
	}
}

func TestRender_HistoryHidden(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16, WithHistory(false))
	r.Render(Frame{Display: "0", History: []string{"1 + 1 = 2"}})

	if strings.Contains(b.Screen(), "History") {
		t.Error("history panel should be hidden")
	}
	if _, ok := r.HitTest(55, 0); ok {
		t.Error("hidden panel should have no clear button")
	}

	r.SetShowHistory(true)
	r.Render(Frame{Display: "0", History: []string{"1 + 1 = 2"}})
	if !strings.Contains(b.Screen(), "1 + 1 = 2") {
		t.Error("history panel should be visible after SetShowHistory(true)")
	}
}

func TestRender_HintAndMessage(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)

	r.Render(Frame{Display: "0"})
	if got := b.Row(15); got != defaultKeyHint {
		t.Errorf("hint row = %q, want %q", got, defaultKeyHint)
	}

	r.Render(Frame{Display: "0", Message: "script error"})
	if got := b.Row(15); got != "script error" {
		t.Errorf("hint row = %q, want message", got)
	}
}

func TestRender_TooSmall(t *testing.T) {
	r, b := newTestRenderer(t, 20, 5)
	r.Render(Frame{Display: "0"})

	if got := b.Row(0); got != tooSmall {
		t.Errorf("row 0 = %q, want %q", got, tooSmall)
	}
	if _, ok := r.HitTest(2, 4); ok {
		t.Error("HitTest should miss when nothing is drawn")
	}
}

func TestRender_Active(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)
	r.Render(Frame{Display: "0", Active: calc.LabelEquals})

	var eq Button
	for _, btn := range r.Buttons() {
		if btn.Label == calc.LabelEquals {
			eq = btn
		}
	}
	cell := b.GetCell(eq.Rect.Left, eq.Rect.Top)
	if cell.Style != r.Theme().Active {
		t.Errorf("active button style = %+v, want %+v", cell.Style, r.Theme().Active)
	}

	seven := b.GetCell(1, 6)
	if seven.Style != r.Theme().Digit {
		t.Errorf("digit button style = %+v, want %+v", seven.Style, r.Theme().Digit)
	}
}

func TestHitTest(t *testing.T) {
	r, _ := newTestRenderer(t, 60, 16)
	r.Render(Frame{Display: "0"})

	tests := []struct {
		x, y   int
		want   string
		wantOK bool
	}{
		{1, 4, calc.LabelClear, true},
		{10, 4, calc.LabelDelete, true},
		{2, 6, "7", true},
		{24, 6, "×", true},
		{1, 12, "0", true},
		{13, 12, "0", true},
		{15, 12, ".", true},
		{27, 12, "=", true},
		{55, 0, calc.LabelClearHistory, true},
		{7, 4, "", false},  // gap between buttons
		{3, 5, "", false},  // gap between rows
		{0, 0, "", false},  // display border
		{40, 8, "", false}, // history body
	}

	for _, tt := range tests {
		got, ok := r.HitTest(tt.x, tt.y)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("HitTest(%d, %d) = (%q, %v), want (%q, %v)", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKeypadLabels(t *testing.T) {
	labels := KeypadLabels()
	want := "C DEL % ÷ 7 8 9 × 4 5 6 - 1 2 3 + 0 . ="
	if got := strings.Join(labels, " "); got != want {
		t.Errorf("KeypadLabels() = %q, want %q", got, want)
	}

	for _, label := range labels {
		if _, err := calc.ParseEvent(label); err != nil {
			t.Errorf("keypad label %q does not parse: %v", label, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"12345", 5, "12345"},
		{"123456", 5, "1234…"},
		{"abc", 0, ""},
		{"abc", 1, "…"},
	}

	for _, tt := range tests {
		if got := truncate(tt.s, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	if got := strings.Join(ThemeNames(), ","); got != "dark,light,mono" {
		t.Errorf("ThemeNames() = %q", got)
	}
	for _, name := range ThemeNames() {
		theme, err := ThemeByName(name)
		if err != nil {
			t.Fatalf("ThemeByName(%q) error = %v", name, err)
		}
		if theme.Name != name {
			t.Errorf("theme.Name = %q, want %q", theme.Name, name)
		}
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("ThemeByName should reject unknown names")
	}
	if DefaultTheme().Name != ThemeDark {
		t.Errorf("DefaultTheme() = %q, want dark", DefaultTheme().Name)
	}
}

func TestSetTheme(t *testing.T) {
	r, b := newTestRenderer(t, 60, 16)
	light, _ := ThemeByName(ThemeLight)

	r.SetTheme(light)
	r.Render(Frame{Display: "0"})

	if got := b.GetCell(40, 10).Style; got != light.Base {
		t.Errorf("background style = %+v, want light base", got)
	}
	r.SetTheme(nil)
	if r.Theme() != light {
		t.Error("SetTheme(nil) should keep the current theme")
	}
}
