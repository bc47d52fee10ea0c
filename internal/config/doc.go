// Package config provides the configuration system for keycalc.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Overrides  │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYCALC_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/keycalc/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The file may be TOML (.toml) or YAML (.yaml, .yml). A missing file is
// not an error; the defaults are used.
//
// # Sub-packages
//
//   - loader: Configuration file loading (TOML, YAML, environment variables)
//   - watcher: File watching for live reload
//
// # Example
//
//	[logging]
//	level = "debug"
//	file = "/tmp/keycalc.log"
//
//	[history]
//	limit = 50
//
//	[ui]
//	theme = "light"
//	showHistory = true
//
//	[keymap]
//	"ctrl+d" = "DEL"
//	"q" = "quit"
//
//	[plugins]
//	scripts = ["~/.config/keycalc/audit.lua"]
//	timeout = "2s"
package config
