package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit color or the terminal's default color.
type Color struct {
	R, G, B uint8
	Default bool
}

// ColorDefault leaves the color to the terminal.
var ColorDefault = Color{Default: true}

// ColorFromHex parses "#rrggbb" or the short "#rgb" form. The leading
// '#' is optional.
func ColorFromHex(hex string) (Color, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) == 3 {
		digits = strings.Repeat(digits[0:1], 2) + strings.Repeat(digits[1:2], 2) + strings.Repeat(digits[2:3], 2)
	}
	if len(digits) != 6 {
		return Color{}, fmt.Errorf("color %q: want 3 or 6 hex digits", hex)
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", hex, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ColorFromHex for theme constants. It panics on bad input.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool {
	return c.Default
}

func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Attribute is a set of text attributes.
type Attribute uint8

// Text attributes.
const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrUnderline
	AttrReverse
)

// Has reports whether attr is set.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style is a foreground, background and attribute set.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses the terminal's colors without attributes.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle returns a style with the given colors.
func NewStyle(fg, bg Color) Style {
	return Style{Foreground: fg, Background: bg}
}

// Bold returns s with bold text.
func (s Style) Bold() Style { return s.with(AttrBold) }

// Dim returns s with faint text.
func (s Style) Dim() Style { return s.with(AttrDim) }

// Reverse returns s with foreground and background swapped.
func (s Style) Reverse() Style { return s.with(AttrReverse) }

func (s Style) with(attr Attribute) Style {
	s.Attributes |= attr
	return s
}
