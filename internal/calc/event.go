package calc

import (
	"fmt"
	"strings"
)

// EventKind identifies a button press.
type EventKind int

const (
	// EventDigit appends or starts a number with Event.Digit.
	EventDigit EventKind = iota
	// EventDecimal adds a decimal point.
	EventDecimal
	// EventOperator selects Event.Op as the pending operator.
	EventOperator
	// EventEquals computes the pending operation.
	EventEquals
	// EventClear resets the entry and pending operation.
	EventClear
	// EventDelete removes the last typed character.
	EventDelete
	// EventClearHistory empties the history log.
	EventClearHistory
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventDigit:
		return "digit"
	case EventDecimal:
		return "decimal"
	case EventOperator:
		return "operator"
	case EventEquals:
		return "equals"
	case EventClear:
		return "clear"
	case EventDelete:
		return "delete"
	case EventClearHistory:
		return "clear-history"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one input to the state machine.
// Digit is set for EventDigit, Op for EventOperator.
type Event struct {
	Kind  EventKind
	Digit byte
	Op    Operator
}

// Events without payload.
var (
	DecimalEvent      = Event{Kind: EventDecimal}
	EqualsEvent       = Event{Kind: EventEquals}
	ClearEvent        = Event{Kind: EventClear}
	DeleteEvent       = Event{Kind: EventDelete}
	ClearHistoryEvent = Event{Kind: EventClearHistory}
)

// Button labels for the non-numeric, non-operator keys.
const (
	LabelDecimal      = "."
	LabelEquals       = "="
	LabelClear        = "C"
	LabelDelete       = "DEL"
	LabelClearHistory = "CH"
)

// DigitEvent returns the event for pressing digit d.
func DigitEvent(d byte) (Event, error) {
	if !isDigit(d) {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidDigit, d)
	}
	return Event{Kind: EventDigit, Digit: d}, nil
}

// MustDigit is like DigitEvent but panics on an invalid digit.
func MustDigit(d byte) Event {
	ev, err := DigitEvent(d)
	if err != nil {
		panic(err)
	}
	return ev
}

// OperatorEvent returns the event for pressing op.
func OperatorEvent(op Operator) Event {
	return Event{Kind: EventOperator, Op: op}
}

// Validate reports whether ev carries a usable payload.
func (ev Event) Validate() error {
	switch ev.Kind {
	case EventDigit:
		if !isDigit(ev.Digit) {
			return fmt.Errorf("%w: %q", ErrInvalidDigit, ev.Digit)
		}
	case EventOperator:
		if !ev.Op.Valid() {
			return fmt.Errorf("%w: %v", ErrUnknownOperator, ev.Op)
		}
	case EventDecimal, EventEquals, EventClear, EventDelete, EventClearHistory:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownLabel, ev.Kind)
	}
	return nil
}

// Label returns the keypad label that produces ev.
func (ev Event) Label() string {
	switch ev.Kind {
	case EventDigit:
		return string(ev.Digit)
	case EventDecimal:
		return LabelDecimal
	case EventOperator:
		return ev.Op.Glyph()
	case EventEquals:
		return LabelEquals
	case EventClear:
		return LabelClear
	case EventDelete:
		return LabelDelete
	case EventClearHistory:
		return LabelClearHistory
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (ev Event) String() string {
	return ev.Kind.String() + "(" + ev.Label() + ")"
}

// ParseEvent maps a button label to its event. Word labels (C, DEL, CH,
// AC) are case-insensitive.
func ParseEvent(label string) (Event, error) {
	if len(label) == 1 && isDigit(label[0]) {
		return Event{Kind: EventDigit, Digit: label[0]}, nil
	}
	switch label {
	case LabelDecimal:
		return DecimalEvent, nil
	case LabelEquals:
		return EqualsEvent, nil
	}
	if op, err := ParseOperator(label); err == nil {
		return OperatorEvent(op), nil
	}
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case LabelClear, "AC":
		return ClearEvent, nil
	case LabelDelete, "BACKSPACE":
		return DeleteEvent, nil
	case LabelClearHistory:
		return ClearHistoryEvent, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}
