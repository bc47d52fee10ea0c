package renderer

import (
	"fmt"
	"sort"

	"github.com/dshills/keycalc/internal/renderer/core"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeMono  = "mono"
)

// Theme defines the styles used to draw the calculator.
type Theme struct {
	// Name is the theme identifier used in configuration.
	Name string

	Base     core.Style // Screen background
	Border   core.Style
	Display  core.Style // Display text
	Pending  core.Style // Pending operator glyph inside the display
	Digit    core.Style // Digit and decimal buttons
	Operator core.Style // Operator buttons
	Function core.Style // C and DEL
	Equals   core.Style
	Header   core.Style // History panel header
	Entry    core.Style // History entries
	Muted    core.Style // Hints and empty-history text
	Active   core.Style // Button that was just pressed
}

var themes = map[string]*Theme{
	ThemeDark:  darkTheme(),
	ThemeLight: lightTheme(),
	ThemeMono:  monoTheme(),
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns the named theme.
func ThemeByName(name string) (*Theme, error) {
	t, ok := themes[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return t, nil
}

// DefaultTheme returns the dark theme.
func DefaultTheme() *Theme {
	return themes[ThemeDark]
}

func darkTheme() *Theme {
	bg := core.MustHex("#1e1e2e")
	fg := core.MustHex("#cdd6f4")
	return &Theme{
		Name:     ThemeDark,
		Base:     core.NewStyle(fg, bg),
		Border:   core.NewStyle(core.MustHex("#585b70"), bg),
		Display:  core.NewStyle(core.MustHex("#f5e0dc"), bg).Bold(),
		Pending:  core.NewStyle(core.MustHex("#fab387"), bg),
		Digit:    core.NewStyle(fg, core.MustHex("#313244")),
		Operator: core.NewStyle(core.MustHex("#1e1e2e"), core.MustHex("#fab387")).Bold(),
		Function: core.NewStyle(core.MustHex("#1e1e2e"), core.MustHex("#a6adc8")),
		Equals:   core.NewStyle(core.MustHex("#1e1e2e"), core.MustHex("#a6e3a1")).Bold(),
		Header:   core.NewStyle(core.MustHex("#89b4fa"), bg).Bold(),
		Entry:    core.NewStyle(fg, bg),
		Muted:    core.NewStyle(core.MustHex("#6c7086"), bg),
		Active:   core.NewStyle(fg, bg).Reverse(),
	}
}

func lightTheme() *Theme {
	bg := core.MustHex("#eff1f5")
	fg := core.MustHex("#4c4f69")
	return &Theme{
		Name:     ThemeLight,
		Base:     core.NewStyle(fg, bg),
		Border:   core.NewStyle(core.MustHex("#9ca0b0"), bg),
		Display:  core.NewStyle(core.MustHex("#11111b"), bg).Bold(),
		Pending:  core.NewStyle(core.MustHex("#fe640b"), bg),
		Digit:    core.NewStyle(fg, core.MustHex("#ccd0da")),
		Operator: core.NewStyle(core.MustHex("#eff1f5"), core.MustHex("#fe640b")).Bold(),
		Function: core.NewStyle(fg, core.MustHex("#acb0be")),
		Equals:   core.NewStyle(core.MustHex("#eff1f5"), core.MustHex("#40a02b")).Bold(),
		Header:   core.NewStyle(core.MustHex("#1e66f5"), bg).Bold(),
		Entry:    core.NewStyle(fg, bg),
		Muted:    core.NewStyle(core.MustHex("#8c8fa1"), bg),
		Active:   core.NewStyle(fg, bg).Reverse(),
	}
}

// monoTheme uses only the terminal's own colors.
func monoTheme() *Theme {
	plain := core.DefaultStyle()
	return &Theme{
		Name:     ThemeMono,
		Base:     plain,
		Border:   plain,
		Display:  plain.Bold(),
		Pending:  plain,
		Digit:    plain,
		Operator: plain.Bold(),
		Function: plain,
		Equals:   plain.Bold(),
		Header:   plain.Bold(),
		Entry:    plain,
		Muted:    plain.Dim(),
		Active:   plain.Reverse(),
	}
}
