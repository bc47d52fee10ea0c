// Package app wires the calculator engine to the terminal UI, the
// configuration, the Lua host and the config watcher.
package app

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuit ends Run without an error.
	ErrQuit = errors.New("quit requested")

	ErrAlreadyRunning = errors.New("application already running")
	ErrNoBackend      = errors.New("no terminal backend")
	ErrUnboundKey     = errors.New("key is not bound")
)

// OperationError records which user-facing operation failed and on
// what, e.g. pressing a key or reloading a file.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError wraps err.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteString(" " + e.Target)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InitError is a failed bootstrap step.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// RecoveredPanicError carries a panic caught while handling an event.
type RecoveredPanicError struct {
	Value any
	Stack string
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
}
