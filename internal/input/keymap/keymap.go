package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/renderer/backend"
)

// ActionQuit is the target that exits the application.
const ActionQuit = "quit"

// Errors returned when binding keys.
var (
	ErrUnknownKey    = errors.New("unknown key")
	ErrUnknownTarget = errors.New("unknown target")
)

// Binding maps one key to a target.
type Binding struct {
	// Key is the normalized key name.
	Key string

	// Target is a button label or ActionQuit.
	Target string

	// Description is shown in help output.
	Description string

	// Source indicates where this binding was defined: "default" or "user".
	Source string
}

// Keymap holds key bindings.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[string]Binding)}
}

// Default creates a keymap with the built-in bindings.
func Default() *Keymap {
	k := New()
	for _, b := range defaultBindings() {
		b.Source = "default"
		k.bindings[b.Key] = b
	}
	return k
}

// ValidTarget reports whether target can be bound.
func ValidTarget(target string) bool {
	if target == ActionQuit {
		return true
	}
	_, err := calc.ParseEvent(target)
	return err == nil
}

// Bind maps key to target, replacing any existing binding.
func (k *Keymap) Bind(key, target string) error {
	name, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	if !ValidTarget(target) {
		return fmt.Errorf("%w %q for key %q", ErrUnknownTarget, target, key)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[name] = Binding{Key: name, Target: target, Source: "user"}
	return nil
}

// Unbind removes the binding for key.
func (k *Keymap) Unbind(key string) {
	name, err := NormalizeKey(key)
	if err != nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.bindings, name)
}

// Apply binds every entry of overrides. Invalid entries are skipped
// and reported together; valid ones are still applied.
func (k *Keymap) Apply(overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		if err := k.Bind(key, overrides[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LookupName returns the target bound to the named key.
func (k *Keymap) LookupName(key string) (string, bool) {
	name, err := NormalizeKey(key)
	if err != nil {
		return "", false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	b, ok := k.bindings[name]
	return b.Target, ok
}

// Lookup returns the target bound to a terminal key event.
func (k *Keymap) Lookup(ev backend.Event) (string, bool) {
	if ev.Type != backend.EventKey {
		return "", false
	}
	name, ok := EventName(ev)
	if !ok {
		return "", false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	b, found := k.bindings[name]
	return b.Target, found
}

// Bindings returns all bindings sorted by key name.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.bindings)
}
