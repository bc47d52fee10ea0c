package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"#1e1e2e", Color{R: 0x1e, G: 0x1e, B: 0x2e}, false},
		{"ff8800", Color{R: 0xff, G: 0x88}, false},
		{"#fff", Color{R: 0xff, G: 0xff, B: 0xff}, false},
		{"#a1b", Color{R: 0xaa, G: 0x11, B: 0xbb}, false},
		{"#12345", Color{}, true},
		{"#zzzzzz", Color{}, true},
		{"", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ColorFromHex(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColorFromHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMustHex_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustHex should panic on bad input")
		}
	}()
	MustHex("nope")
}

func TestColor_String(t *testing.T) {
	if got := ColorDefault.String(); got != "default" {
		t.Errorf("ColorDefault.String() = %q", got)
	}
	if got := MustHex("#0102ff").String(); got != "#0102ff" {
		t.Errorf("String() = %q", got)
	}
}

func TestStyle_Attributes(t *testing.T) {
	s := DefaultStyle().Bold().Reverse()
	if !s.Attributes.Has(AttrBold) || !s.Attributes.Has(AttrReverse) {
		t.Errorf("Attributes = %b, want bold and reverse", s.Attributes)
	}
	if s.Attributes.Has(AttrDim) || s.Attributes.Has(AttrUnderline) {
		t.Error("unexpected attribute")
	}
	if !s.Foreground.IsDefault() || !s.Background.IsDefault() {
		t.Error("DefaultStyle should use default colors")
	}
}

func TestWidths(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"123", 3},
		{"÷×", 2},
		{"計算", 4},
		{"", 0},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.s); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}

	if RuneWidth('\t') != 0 || RuneWidth(0x7f) != 0 {
		t.Error("control runes should have zero width")
	}
	if NewStyledCell('計', DefaultStyle()).Width != 2 {
		t.Error("wide rune cell should have width 2")
	}
}

func TestCellsRoundTrip(t *testing.T) {
	cells := CellsFromString("a計\tb", DefaultStyle())
	if len(cells) != 4 {
		t.Fatalf("len(cells) = %d, want 4", len(cells))
	}
	if !cells[2].IsContinuation() {
		t.Error("wide rune should be followed by a continuation cell")
	}
	if EmptyCell().IsContinuation() {
		t.Error("an empty cell is not a continuation")
	}
	if got := StringFromCells(cells); got != "a計b" {
		t.Errorf("StringFromCells() = %q, want a計b", got)
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5)
	if r.Width() != 5 || r.Height() != 4 {
		t.Errorf("size = %dx%d, want 5x4", r.Width(), r.Height())
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{3, 2, true},
		{7, 5, true},
		{8, 5, false},
		{3, 6, false},
		{2, 2, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if !(ScreenRect{Top: 3, Bottom: 1, Right: 4}).IsEmpty() {
		t.Error("inverted rect should be empty")
	}
}

func TestScreenRect_Intersect(t *testing.T) {
	screen := ScreenRect{Right: 10, Bottom: 5}

	tests := []struct {
		name string
		r    ScreenRect
		want ScreenRect
	}{
		{"inside", RectFromSize(1, 1, 2, 2), RectFromSize(1, 1, 2, 2)},
		{"clipped", ScreenRect{Top: -2, Left: 8, Bottom: 3, Right: 20}, ScreenRect{Left: 8, Bottom: 3, Right: 10}},
		{"disjoint", RectFromSize(6, 0, 1, 1), ScreenRect{}},
	}
	for _, tt := range tests {
		if got := tt.r.Intersect(screen); got != tt.want {
			t.Errorf("%s: Intersect() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}
