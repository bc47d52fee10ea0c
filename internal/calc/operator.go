package calc

import (
	"fmt"
	"math"
)

// Operator is a binary arithmetic operator.
type Operator int

const (
	// OpNone means no operator is pending.
	OpNone Operator = iota
	// OpAdd is a + b.
	OpAdd
	// OpSubtract is a - b.
	OpSubtract
	// OpMultiply is a × b.
	OpMultiply
	// OpDivide is a ÷ b, with a zero divisor giving 0.
	OpDivide
	// OpModulo is the remainder of a ÷ b, NaN for a zero divisor.
	OpModulo
)

// Operators lists every real operator in keypad order.
var Operators = []Operator{OpModulo, OpDivide, OpMultiply, OpSubtract, OpAdd}

// Glyph returns the symbol used in history entries and on the keypad.
func (op Operator) Glyph() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	case OpModulo:
		return "%"
	default:
		return ""
	}
}

// String returns the operator name.
func (op Operator) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	case OpModulo:
		return "modulo"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Valid reports whether op is one of the five arithmetic operators.
func (op Operator) Valid() bool {
	return op >= OpAdd && op <= OpModulo
}

// Apply computes a op b.
// Division by zero yields 0. Modulo uses math.Mod, so the sign of the
// result follows a and a zero divisor yields NaN.
func (op Operator) Apply(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return 0
		}
		return a / b
	case OpModulo:
		return math.Mod(a, b)
	default:
		return b
	}
}

// ParseOperator maps a keypad or keyboard label to an Operator.
func ParseOperator(label string) (Operator, error) {
	switch label {
	case "+":
		return OpAdd, nil
	case "-", "−":
		return OpSubtract, nil
	case "×", "*", "x":
		return OpMultiply, nil
	case "÷", "/":
		return OpDivide, nil
	case "%":
		return OpModulo, nil
	default:
		return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperator, label)
	}
}
