package calc

// State is the complete calculator state. It is a value: copies share the
// HistoryLog backing array, but Apply always builds a new slice before
// changing it.
type State struct {
	// DisplayText is the number being entered or the last result, kept
	// as raw text so leading zeros and trailing points survive entry.
	DisplayText string

	// PendingOperator is the operator waiting for its right operand.
	PendingOperator Operator

	// StoredOperand is the left operand; meaningful only when
	// HasStoredOperand is set.
	StoredOperand    float64
	HasStoredOperand bool

	// AwaitingNewEntry makes the next digit replace DisplayText.
	AwaitingNewEntry bool

	// HistoryLog holds rendered computations, newest first.
	HistoryLog []string
}

// NewState returns the initial state: display "0", nothing pending.
func NewState() State {
	return State{
		DisplayText: "0",
		HistoryLog:  []string{},
	}
}

// Pending reports whether a computation is waiting for its right operand.
func (s State) Pending() bool {
	return s.PendingOperator != OpNone && s.HasStoredOperand
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	c := s
	c.HistoryLog = append(make([]string, 0, len(s.HistoryLog)), s.HistoryLog...)
	return c
}
