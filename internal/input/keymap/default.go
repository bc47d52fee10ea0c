package keymap

import (
	"github.com/dshills/keycalc/internal/calc"
)

// defaultBindings returns the built-in key bindings.
func defaultBindings() []Binding {
	bindings := make([]Binding, 0, 32)

	for d := '0'; d <= '9'; d++ {
		bindings = append(bindings, Binding{Key: string(d), Target: string(d), Description: "Enter digit"})
	}

	add := func(key, target, desc string) {
		bindings = append(bindings, Binding{Key: key, Target: target, Description: desc})
	}

	// Decimal point
	add(".", calc.LabelDecimal, "Decimal point")
	add(",", calc.LabelDecimal, "Decimal point")

	// Operators
	add("+", calc.OpAdd.Glyph(), "Add")
	add("-", calc.OpSubtract.Glyph(), "Subtract")
	add("*", calc.OpMultiply.Glyph(), "Multiply")
	add("x", calc.OpMultiply.Glyph(), "Multiply")
	add("/", calc.OpDivide.Glyph(), "Divide")
	add("%", calc.OpModulo.Glyph(), "Modulo")

	// Evaluation and editing
	add("=", calc.LabelEquals, "Compute result")
	add("enter", calc.LabelEquals, "Compute result")
	add("backspace", calc.LabelDelete, "Delete last character")
	add("delete", calc.LabelDelete, "Delete last character")
	add("escape", calc.LabelClear, "Clear entry")
	add("c", calc.LabelClear, "Clear entry")
	add("C", calc.LabelClear, "Clear entry")
	add("h", calc.LabelClearHistory, "Clear history")

	// Application
	add("q", ActionQuit, "Quit")
	add("ctrl+c", ActionQuit, "Quit")
	add("ctrl+q", ActionQuit, "Quit")

	return bindings
}
