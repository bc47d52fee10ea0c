package core

import "github.com/rivo/uniseg"

// Cell is one terminal column. A wide rune occupies its own cell plus a
// continuation cell with a zero rune and zero width.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell is a blank in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell returns a cell showing r.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// IsContinuation reports whether c is the right half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Rune == 0 && c.Width == 0
}

// RuneWidth returns the number of columns r occupies. Control runes
// take none.
func RuneWidth(r rune) int {
	if r < 0x20 || r == 0x7f {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// StringWidth returns the number of columns s occupies.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// CellsFromString lays s out as cells, dropping zero-width runes.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	for _, r := range s {
		w := RuneWidth(r)
		switch w {
		case 0:
			continue
		case 2:
			cells = append(cells, Cell{Rune: r, Width: 2, Style: style}, Cell{Style: style})
		default:
			cells = append(cells, Cell{Rune: r, Width: w, Style: style})
		}
	}
	return cells
}

// StringFromCells is the inverse of CellsFromString.
func StringFromCells(cells []Cell) string {
	var b []rune
	for _, c := range cells {
		if c.Rune != 0 {
			b = append(b, c.Rune)
		}
	}
	return string(b)
}
