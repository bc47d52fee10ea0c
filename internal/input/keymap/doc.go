// Package keymap maps terminal key presses to calculator buttons.
//
// A binding connects a key name to a target. Targets are button labels
// understood by calc.ParseEvent ("7", "×", "DEL") or the quit action.
//
// # Key Names
//
// Printable keys are named by their character and are case sensitive
// ("c" and "C" differ). Special keys use lower-case names, with
// modifiers joined by "+":
//
//	enter, escape, tab, backspace, delete, space
//	ctrl+c, ctrl+d, ctrl+l, ctrl+q, alt+x
//
// Names are normalized on input, so "Ctrl+C", "CTRL+c" and "esc" are
// accepted.
package keymap
