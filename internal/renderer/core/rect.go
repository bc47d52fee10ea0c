package core

// ScreenRect is a half-open region: rows [Top, Bottom) and columns
// [Left, Right).
type ScreenRect struct {
	Top, Left     int
	Bottom, Right int
}

// RectFromSize returns the rectangle at top, left with the given size.
func RectFromSize(top, left, height, width int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the number of columns, never negative.
func (r ScreenRect) Width() int {
	return max(r.Right-r.Left, 0)
}

// Height returns the number of rows, never negative.
func (r ScreenRect) Height() int {
	return max(r.Bottom-r.Top, 0)
}

// IsEmpty reports whether r covers no cell.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains reports whether column x, row y lies in r.
func (r ScreenRect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Intersect returns the overlap of r and o, empty when they are disjoint.
func (r ScreenRect) Intersect(o ScreenRect) ScreenRect {
	out := ScreenRect{
		Top:    max(r.Top, o.Top),
		Left:   max(r.Left, o.Left),
		Bottom: min(r.Bottom, o.Bottom),
		Right:  min(r.Right, o.Right),
	}
	if out.IsEmpty() {
		return ScreenRect{}
	}
	return out
}
