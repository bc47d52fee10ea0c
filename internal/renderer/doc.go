// Package renderer draws the calculator on a terminal backend.
//
// The screen is split into two areas:
//
//	┌───────────────────────────┐ History        [Clear]
//	│ ×                    1234 │ ─────────────────────
//	└───────────────────────────┘ 12 × 3 = 36
//	                              5 + 3 = 8
//	  C    DEL    %      ÷
//	  7     8     9      ×
//	  4     5     6      -
//	  1     2     3      +
//	      0       .      =
//
// The keypad follows a fixed button order; HitTest maps a mouse
// position back to the label of the button drawn there.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	_ = b.Init()
//	r := renderer.New(b, renderer.WithTheme(renderer.ThemeLight))
//	r.Render(renderer.Frame{Display: engine.CurrentDisplay()})
package renderer
