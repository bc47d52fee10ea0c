package keymap

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/keycalc/internal/renderer/backend"
)

// specialKeys maps special key names to backend keys.
var specialKeys = map[string]backend.Key{
	"enter":     backend.KeyEnter,
	"escape":    backend.KeyEscape,
	"tab":       backend.KeyTab,
	"backspace": backend.KeyBackspace,
	"delete":    backend.KeyDelete,
	"ctrl+c":    backend.KeyCtrlC,
	"ctrl+d":    backend.KeyCtrlD,
	"ctrl+l":    backend.KeyCtrlL,
	"ctrl+q":    backend.KeyCtrlQ,
}

// keyNames is the reverse of specialKeys.
var keyNames = func() map[backend.Key]string {
	m := make(map[backend.Key]string, len(specialKeys))
	for name, k := range specialKeys {
		m[k] = name
	}
	return m
}()

var aliases = map[string]string{
	"esc":    "escape",
	"return": "enter",
	"cr":     "enter",
	"bs":     "backspace",
	"del":    "delete",
}

// NormalizeKey returns the canonical form of a key name.
func NormalizeKey(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownKey)
	}
	if utf8.RuneCountInString(s) == 1 {
		return s, nil
	}

	lower := strings.ToLower(s)
	if alias, ok := aliases[lower]; ok {
		lower = alias
	}
	if lower == "space" {
		return " ", nil
	}
	if _, ok := specialKeys[lower]; ok {
		return lower, nil
	}

	// alt+<char> keeps the character as written
	if prefix, rest, ok := strings.Cut(s, "+"); ok && strings.EqualFold(prefix, "alt") && utf8.RuneCountInString(rest) == 1 {
		return "alt+" + rest, nil
	}

	return "", fmt.Errorf("%w %q", ErrUnknownKey, s)
}

// EventName returns the key name of a key event.
func EventName(ev backend.Event) (string, bool) {
	if ev.Key == backend.KeyRune {
		if ev.Rune == 0 {
			return "", false
		}
		if ev.Mod.Has(backend.ModAlt) {
			return "alt+" + string(ev.Rune), true
		}
		return string(ev.Rune), true
	}
	name, ok := keyNames[ev.Key]
	return name, ok
}
