// Package lua runs user scripts against the calculator engine.
//
// Scripts execute in a sandboxed gopher-lua state with only the base,
// table, string and math libraries. File loading, io and os are not
// available. Each top-level execution runs under a timeout.
//
// # The calc module
//
// The global table calc (also available through require("calc")) drives
// the shared engine:
//
//	calc.press("7")            -- press one button
//	calc.press("5", "+", "3")  -- press several; returns the display
//	calc.display()             -- formatted display text
//	calc.raw()                 -- unformatted display text
//	calc.pending()             -- pending operator glyph or nil
//	calc.history()             -- array of entries, newest first
//	calc.clear()               -- C button
//	calc.clear_history()       -- empty the history
//
// # Hooks
//
// A script may define a global on_compute function. It is called after
// every computation, whether triggered by the script itself, the
// keypad or another client of the engine:
//
//	function on_compute(entry, a, op, b, result)
//	  print(entry)
//	end
package lua
