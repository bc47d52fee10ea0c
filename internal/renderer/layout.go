package renderer

import (
	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/renderer/core"
)

// Layout metrics in terminal cells.
const (
	buttonWidth  = 6
	buttonGap    = 1
	keypadCols   = 4
	keypadRowCnt = 5
	keypadWidth  = keypadCols*buttonWidth + (keypadCols-1)*buttonGap
	panelWidth   = keypadWidth + 2
	displayRows  = 3
	keypadTop    = displayRows + 1
	keypadRowGap = 2

	historyGap      = 2
	historyMinWidth = 12

	// MinWidth and MinHeight are the smallest screen that fits the keypad.
	MinWidth  = panelWidth
	MinHeight = keypadTop + (keypadRowCnt-1)*keypadRowGap + 1
)

// keypadRows lists button labels row by row. Repeated adjacent labels
// form one wider button.
var keypadRows = [keypadRowCnt][]string{
	{calc.LabelClear, calc.LabelDelete, calc.OpModulo.Glyph(), calc.OpDivide.Glyph()},
	{"7", "8", "9", calc.OpMultiply.Glyph()},
	{"4", "5", "6", calc.OpSubtract.Glyph()},
	{"1", "2", "3", calc.OpAdd.Glyph()},
	{"0", "0", calc.LabelDecimal, calc.LabelEquals},
}

// ButtonKind groups buttons that share a style.
type ButtonKind int

const (
	ButtonDigit ButtonKind = iota
	ButtonOperator
	ButtonFunction
	ButtonEquals
)

// Button is a keypad button placed on screen.
type Button struct {
	Label string
	Kind  ButtonKind
	Rect  core.ScreenRect
}

// KeypadLabels returns every keypad label in reading order.
func KeypadLabels() []string {
	var labels []string
	for _, row := range keypadRows {
		for i, label := range row {
			if i > 0 && row[i-1] == label {
				continue
			}
			labels = append(labels, label)
		}
	}
	return labels
}

func buttonKind(label string) ButtonKind {
	switch label {
	case calc.LabelClear, calc.LabelDelete:
		return ButtonFunction
	case calc.LabelEquals:
		return ButtonEquals
	}
	if _, err := calc.ParseOperator(label); err == nil {
		return ButtonOperator
	}
	return ButtonDigit
}

// layoutKeypad places the keypad buttons with their top-left at (left, top).
func layoutKeypad(left, top int) []Button {
	var buttons []Button
	for r, row := range keypadRows {
		y := top + r*keypadRowGap
		for c := 0; c < len(row); {
			span := 1
			for c+span < len(row) && row[c+span] == row[c] {
				span++
			}
			x := left + c*(buttonWidth+buttonGap)
			width := span*buttonWidth + (span-1)*buttonGap
			buttons = append(buttons, Button{
				Label: row[c],
				Kind:  buttonKind(row[c]),
				Rect:  core.RectFromSize(y, x, 1, width),
			})
			c += span
		}
	}
	return buttons
}

// screenLayout holds the regions computed for one screen size.
type screenLayout struct {
	display core.ScreenRect
	buttons []Button
	history core.ScreenRect // empty when the panel is hidden
	hint    int             // row for the key hint, -1 when there is no room
}

func computeLayout(width, height int, showHistory bool) (screenLayout, bool) {
	if width < MinWidth || height < MinHeight {
		return screenLayout{}, false
	}

	l := screenLayout{
		display: core.RectFromSize(0, 0, displayRows, panelWidth),
		buttons: layoutKeypad(1, keypadTop),
		hint:    -1,
	}

	if height >= MinHeight+2 {
		l.hint = height - 1
	}

	histLeft := panelWidth + historyGap
	if showHistory && width-histLeft >= historyMinWidth {
		l.history = core.ScreenRect{Top: 0, Left: histLeft, Bottom: height, Right: width}
	}
	return l, true
}
