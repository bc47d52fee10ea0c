// Package core holds the value types shared by the renderer and its
// backends: colors, styles, cells and screen rectangles.
package core
