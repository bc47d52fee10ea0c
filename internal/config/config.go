package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dshills/keycalc/internal/calc"
	"github.com/dshills/keycalc/internal/config/loader"
)

// Known values for enumerated settings.
var (
	LogLevels = []string{"debug", "info", "warn", "error"}
	Themes    = []string{"dark", "light", "mono"}
)

// ActionQuit is the keymap target that exits the application.
const ActionQuit = "quit"

// Config is the decoded keycalc configuration.
type Config struct {
	Logging LoggingConfig
	History HistoryConfig
	UI      UIConfig
	// Keymap maps a key name ("k", "enter", "ctrl+d") to a button label
	// or ActionQuit. Entries override the built-in bindings.
	Keymap  map[string]string
	Plugins PluginsConfig

	// Source is the file the config was read from, empty for defaults.
	Source string
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level string
	// File receives log output. Empty means stderr for headless runs
	// and no logging in the terminal UI.
	File string
}

// HistoryConfig controls the calculation history.
type HistoryConfig struct {
	// Limit caps the number of entries; zero keeps all of them.
	Limit int
}

// UIConfig controls the terminal UI.
type UIConfig struct {
	Theme       string
	ShowHistory bool
	Mouse       bool
}

// PluginsConfig controls Lua scripts.
type PluginsConfig struct {
	Scripts []string
	Timeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(defaultSettings())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// defaultSettings returns the default configuration values.
func defaultSettings() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"history": map[string]any{
			"limit": int64(0),
		},
		"ui": map[string]any{
			"theme":       "dark",
			"showHistory": true,
			"mouse":       true,
		},
		"keymap": map[string]any{},
		"plugins": map[string]any{
			"scripts": []any{},
			"timeout": "5s",
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	env       loader.Loader
	skipEnv   bool
	overrides map[string]any
}

// WithFS reads config files from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment loader.
func WithEnv(env loader.Loader) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithoutEnv ignores environment variables.
func WithoutEnv() Option {
	return func(o *options) {
		o.skipEnv = true
	}
}

// WithOverrides applies settings above every other layer, e.g. from
// command line flags. Keys are dotted paths such as "logging.level".
func WithOverrides(overrides map[string]any) Option {
	return func(o *options) {
		o.overrides = overrides
	}
}

// Load reads the file at path (if non-empty and present), layers the
// environment over it, and returns the validated result.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := defaultSettings()

	source := ""
	if path != "" {
		fileLoader, err := loader.NewFileLoader(o.fs, path)
		if err != nil {
			return nil, err
		}
		fileSettings, err := fileLoader.Load()
		if err != nil {
			return nil, err
		}
		if fileSettings != nil {
			source = path
			merged = loader.DeepMerge(merged, fileSettings)
		}
	}

	if !o.skipEnv && o.env != nil {
		envSettings, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envSettings)
	}

	if len(o.overrides) > 0 {
		layer := make(map[string]any)
		for p, v := range o.overrides {
			if err := setPath(layer, p, v); err != nil {
				return nil, fmt.Errorf("override %s: %w", p, err)
			}
		}
		merged = loader.DeepMerge(merged, layer)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the first existing config file in the user config
// directory, or the TOML path when none exists.
func DefaultPath() string {
	dir := defaultUserConfigDir()
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, "config.toml")
}

func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keycalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keycalc")
}

// Validate checks enumerated settings and keymap targets.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if !slices.Contains(LogLevels, c.Logging.Level) {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be one of " + strings.Join(LogLevels, ", "),
			Value:   c.Logging.Level,
		})
	}
	if c.History.Limit < 0 {
		errs = append(errs, &ValidationError{
			Path:    "history.limit",
			Message: "must not be negative",
			Value:   c.History.Limit,
		})
	}
	if !slices.Contains(Themes, c.UI.Theme) {
		errs = append(errs, &ValidationError{
			Path:    "ui.theme",
			Message: "must be one of " + strings.Join(Themes, ", "),
			Value:   c.UI.Theme,
		})
	}
	if c.Plugins.Timeout <= 0 {
		errs = append(errs, &ValidationError{
			Path:    "plugins.timeout",
			Message: "must be positive",
			Value:   c.Plugins.Timeout,
		})
	}

	keys := make([]string, 0, len(c.Keymap))
	for k := range c.Keymap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		target := c.Keymap[k]
		if target == ActionQuit {
			continue
		}
		if _, err := calc.ParseEvent(target); err != nil {
			errs = append(errs, &ValidationError{
				Path:    "keymap." + k,
				Message: "unknown button",
				Value:   target,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// decode converts a merged settings map into a Config.
func decode(m map[string]any) (*Config, error) {
	cfg := &Config{Keymap: make(map[string]string)}
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	cfg.Logging.Level, err = getString(m, "logging.level")
	collect(err)
	cfg.Logging.File, err = getString(m, "logging.file")
	collect(err)
	cfg.History.Limit, err = getInt(m, "history.limit")
	collect(err)
	cfg.UI.Theme, err = getString(m, "ui.theme")
	collect(err)
	cfg.UI.ShowHistory, err = getBool(m, "ui.showHistory")
	collect(err)
	cfg.UI.Mouse, err = getBool(m, "ui.mouse")
	collect(err)
	cfg.Plugins.Scripts, err = getStringSlice(m, "plugins.scripts")
	collect(err)
	cfg.Plugins.Timeout, err = getDuration(m, "plugins.timeout")
	collect(err)

	if raw, ok := getPath(m, "keymap"); ok {
		table, isTable := raw.(map[string]any)
		if !isTable {
			collect(&TypeError{Path: "keymap", Want: "table", Got: raw})
		}
		for k, v := range table {
			s, isString := v.(string)
			if !isString {
				collect(&TypeError{Path: "keymap." + k, Want: "string", Got: v})
				continue
			}
			cfg.Keymap[k] = s
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getString(m map[string]any, path string) (string, error) {
	v, ok := getPath(m, path)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Want: "string", Got: v}
	}
	return s, nil
}

func getInt(m map[string]any, path string) (int, error) {
	v, ok := getPath(m, path)
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, &TypeError{Path: path, Want: "integer", Got: v}
}

func getBool(m map[string]any, path string) (bool, error) {
	v, ok := getPath(m, path)
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Want: "bool", Got: v}
	}
	return b, nil
}

func getStringSlice(m map[string]any, path string) ([]string, error) {
	v, ok := getPath(m, path)
	if !ok {
		return nil, nil
	}
	switch list := v.(type) {
	case string:
		if list == "" {
			return nil, nil
		}
		return []string{list}, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Want: "array of strings", Got: v}
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, &TypeError{Path: path, Want: "array of strings", Got: v}
}

func getDuration(m map[string]any, path string) (time.Duration, error) {
	v, ok := getPath(m, path)
	if !ok {
		return 0, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, &TypeError{Path: path, Want: "duration", Got: v}
		}
		return parsed, nil
	case int64:
		// Bare integers are seconds.
		return time.Duration(d) * time.Second, nil
	}
	return 0, &TypeError{Path: path, Want: "duration", Got: v}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	current := any(m)
	for _, part := range strings.Split(path, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := strings.Split(path, ".")
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not a table", part)
		}
		current = nextMap
	}
	current[parts[len(parts)-1]] = value
	return nil
}
