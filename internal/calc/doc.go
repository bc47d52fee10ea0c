// Package calc implements the calculator engine: a small state machine
// that accumulates numeric entry as text, applies binary operators left to
// right, and keeps a newest-first log of completed computations.
//
// # State
//
// A State holds the display text, the pending operator with its stored
// left-hand operand, the new-entry flag, and the history log. States are
// values; Apply never mutates its input:
//
//	s := calc.NewState()
//	s = calc.Apply(s, calc.MustDigit('5'))
//	s = calc.Apply(s, calc.OperatorEvent(calc.OpAdd))
//	s = calc.Apply(s, calc.MustDigit('3'))
//	s = calc.Apply(s, calc.EqualsEvent)
//	// s.DisplayText == "8", s.HistoryLog == []string{"5 + 3 = 8"}
//
// # Engine
//
// Engine wraps a State for interactive use. It exposes one method per
// button, formats the display for rendering, and notifies compute hooks
// after every completed computation.
//
// # Arithmetic policy
//
// Operators chain left to right without precedence, so 5 + 3 × 2 = 16.
// Division by zero yields 0. Modulo is the floating remainder whose sign
// follows the dividend.
//
// # Display formatting
//
// FormatForDisplay is applied at render time only. Magnitudes of at least
// 1e12, or below 1e-12, render in exponential form with three fractional
// digits; other text longer than twelve characters is sliced, never
// rounded.
package calc
