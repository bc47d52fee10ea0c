// Package logging provides the leveled logger shared by keycalc
// components.
//
// Loggers derived with WithField or WithComponent write through their
// parent's sink, so SetLevel on any of them affects the whole family.
// Lines look like
//
//	2026-01-02T15:04:05.000 [INFO] keycalc: loaded script a.lua {component=lua}
package logging

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level is a message severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel accepts level names in any case, plus "warning". Anything
// else is LevelInfo.
func ParseLevel(s string) Level {
	s = strings.ToUpper(s)
	if s == "WARNING" {
		return LevelWarn
	}
	if i := slices.Index(levelNames[:], s); i >= 0 {
		return Level(i)
	}
	return LevelInfo
}

type sink struct {
	mu       sync.Mutex
	out      io.Writer
	level    Level
	disabled bool
}

// Logger writes leveled, printf-style messages with sorted fields.
type Logger struct {
	sink   *sink
	prefix string
	fields map[string]any
}

// Config configures New.
type Config struct {
	Level  Level
	Output io.Writer // nil means os.Stderr
	Prefix string
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr, Prefix: "keycalc"}
}

// New returns a logger for cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &sink{out: cfg.Output, level: cfg.Level},
		prefix: cfg.Prefix,
	}
}

// OpenFile returns a logger appending to path, creating missing
// directories. Closing the returned closer closes the file.
func OpenFile(path string, level Level) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Output = f
	return New(cfg), f, nil
}

// Null discards everything.
var Null = &Logger{sink: &sink{disabled: true}}

// WithField returns a child logger carrying key=value.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a child logger carrying every entry of fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return &Logger{sink: l.sink, prefix: l.prefix, fields: merged}
}

// WithComponent tags messages with the subsystem that wrote them.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *Logger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// Disable silences the logger and everything sharing its sink.
func (l *Logger) Disable() { l.setDisabled(true) }

// Enable undoes Disable.
func (l *Logger) Enable() { l.setDisabled(false) }

func (l *Logger) setDisabled(v bool) {
	l.sink.mu.Lock()
	l.sink.disabled = v
	l.sink.mu.Unlock()
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args) }

func (l *Logger) log(level Level, format string, args []any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled || s.out == nil || level < s.level {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] ", time.Now().Format("2006-01-02T15:04:05.000"), level)
	if l.prefix != "" {
		b.WriteString(l.prefix + ": ")
	}
	b.WriteString(msg)
	if len(l.fields) > 0 {
		pairs := make([]string, 0, len(l.fields))
		for _, k := range slices.Sorted(maps.Keys(l.fields)) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		b.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(s.out, b.String())
}
