package calc

import "sync"

// ComputeHook is called after every completed computation.
type ComputeHook func(c Computation)

// Engine is an interactive calculator instance.
//
// Each method runs one transition to completion under the engine lock.
// Compute hooks run after the lock is released, so a hook may read the
// engine or press further buttons.
type Engine struct {
	mu sync.Mutex

	state State

	// historyLimit caps HistoryLog; zero keeps every entry.
	historyLimit int

	hooks []ComputeHook
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit keeps at most n history entries. Zero or negative n
// keeps all of them.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = 0
		}
		e.historyLimit = n
	}
}

// WithComputeHook registers a hook run after every computation.
func WithComputeHook(hook ComputeHook) Option {
	return func(e *Engine) {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
}

// New creates an engine in the initial state.
func New(opts ...Option) *Engine {
	e := &Engine{state: NewState()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnCompute registers an additional compute hook.
func (e *Engine) OnCompute(hook ComputeHook) {
	if hook == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, hook)
}

// SetHistoryLimit changes the history cap and trims the log if needed.
func (e *Engine) SetHistoryLimit(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 0 {
		n = 0
	}
	e.historyLimit = n
	e.state.HistoryLog = e.trimHistory(e.state.HistoryLog)
}

// HistoryLimit returns the history cap, zero meaning unbounded.
func (e *Engine) HistoryLimit() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.historyLimit
}

// Dispatch validates and applies ev.
func (e *Engine) Dispatch(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	e.apply(ev)
	return nil
}

// Press applies the event for a button label such as "7", "÷" or "DEL".
func (e *Engine) Press(label string) error {
	ev, err := ParseEvent(label)
	if err != nil {
		return err
	}
	e.apply(ev)
	return nil
}

// Digit presses digit d ('0'..'9').
func (e *Engine) Digit(d byte) error {
	ev, err := DigitEvent(d)
	if err != nil {
		return err
	}
	e.apply(ev)
	return nil
}

// Decimal presses the decimal point.
func (e *Engine) Decimal() { e.apply(DecimalEvent) }

// Operator presses op. Invalid operators are ignored.
func (e *Engine) Operator(op Operator) { e.apply(OperatorEvent(op)) }

// OperatorLabel presses the operator with the given label.
func (e *Engine) OperatorLabel(label string) error {
	op, err := ParseOperator(label)
	if err != nil {
		return err
	}
	e.apply(OperatorEvent(op))
	return nil
}

// Equals completes the pending computation, if any.
func (e *Engine) Equals() { e.apply(EqualsEvent) }

// Clear resets the entry and pending computation. History is kept.
func (e *Engine) Clear() { e.apply(ClearEvent) }

// DeleteLast removes the last character of the display.
func (e *Engine) DeleteLast() { e.apply(DeleteEvent) }

// ClearHistory empties the history log.
func (e *Engine) ClearHistory() { e.apply(ClearHistoryEvent) }

// CurrentDisplay returns the display text formatted for rendering.
func (e *Engine) CurrentDisplay() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FormatForDisplay(e.state.DisplayText)
}

// RawDisplay returns the unformatted display text.
func (e *Engine) RawDisplay() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.DisplayText
}

// HistoryEntries returns a copy of the history log, newest first.
func (e *Engine) HistoryEntries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append(make([]string, 0, len(e.state.HistoryLog)), e.state.HistoryLog...)
}

// State returns a snapshot of the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Reset returns the engine to its initial state, history included.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = NewState()
}

func (e *Engine) apply(ev Event) {
	e.mu.Lock()
	next, done := step(e.state, ev)
	if done != nil {
		next.HistoryLog = e.trimHistory(next.HistoryLog)
	}
	e.state = next
	hooks := e.hooks
	e.mu.Unlock()

	if done == nil {
		return
	}
	for _, hook := range hooks {
		hook(*done)
	}
}

// trimHistory drops the oldest entries beyond the limit. Caller holds mu.
func (e *Engine) trimHistory(history []string) []string {
	if e.historyLimit <= 0 || len(history) <= e.historyLimit {
		return history
	}
	return history[:e.historyLimit]
}
