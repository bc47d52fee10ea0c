package calc

// Computation describes one completed a op b = result step.
type Computation struct {
	A, B   float64
	Op     Operator
	Result float64
	// Entry is the rendered history line, "<a> <op> <b> = <result>".
	Entry string
}

// String returns the history entry.
func (c Computation) String() string {
	return c.Entry
}

// Apply returns the state that follows s after ev. Invalid events leave
// the state unchanged.
func Apply(s State, ev Event) State {
	next, _ := step(s, ev)
	return next
}

// step applies ev and reports the computation it completed, if any.
func step(s State, ev Event) (State, *Computation) {
	switch ev.Kind {
	case EventDigit:
		if !isDigit(ev.Digit) {
			return s, nil
		}
		return pressDigit(s, ev.Digit), nil
	case EventDecimal:
		return pressDecimal(s), nil
	case EventOperator:
		if !ev.Op.Valid() {
			return s, nil
		}
		return pressOperator(s, ev.Op)
	case EventEquals:
		return compute(s)
	case EventClear:
		return clearEntry(s), nil
	case EventDelete:
		return deleteLast(s), nil
	case EventClearHistory:
		s.HistoryLog = []string{}
		return s, nil
	default:
		return s, nil
	}
}

func pressDigit(s State, d byte) State {
	switch {
	case s.AwaitingNewEntry:
		s.DisplayText = string(d)
		s.AwaitingNewEntry = false
	case s.DisplayText == "0":
		s.DisplayText = string(d)
	default:
		s.DisplayText += string(d)
	}
	return s
}

func pressDecimal(s State) State {
	if s.AwaitingNewEntry {
		s.DisplayText = "0."
		s.AwaitingNewEntry = false
		return s
	}
	for i := 0; i < len(s.DisplayText); i++ {
		if s.DisplayText[i] == '.' {
			return s
		}
	}
	s.DisplayText += "."
	return s
}

// pressOperator evaluates a pending computation when a second operand has
// been typed, then captures the display as the new left operand. Chaining
// is strictly left to right.
func pressOperator(s State, op Operator) (State, *Computation) {
	var done *Computation
	if s.PendingOperator != OpNone && !s.AwaitingNewEntry {
		s, done = compute(s)
	}
	s.StoredOperand = ParseNumber(s.DisplayText)
	s.HasStoredOperand = true
	s.PendingOperator = op
	s.AwaitingNewEntry = true
	return s, done
}

func compute(s State) (State, *Computation) {
	if s.PendingOperator == OpNone || !s.HasStoredOperand {
		return s, nil
	}

	a := s.StoredOperand
	b := ParseNumber(s.DisplayText)
	op := s.PendingOperator
	result := op.Apply(a, b)

	c := &Computation{A: a, B: b, Op: op, Result: result}
	c.Entry = FormatNumber(a) + " " + op.Glyph() + " " + FormatNumber(b) + " = " + FormatNumber(result)

	history := make([]string, 0, len(s.HistoryLog)+1)
	history = append(history, c.Entry)
	history = append(history, s.HistoryLog...)

	s.HistoryLog = history
	s.DisplayText = FormatNumber(result)
	s.PendingOperator = OpNone
	s.StoredOperand = 0
	s.HasStoredOperand = false
	s.AwaitingNewEntry = true
	return s, c
}

func clearEntry(s State) State {
	s.DisplayText = "0"
	s.PendingOperator = OpNone
	s.StoredOperand = 0
	s.HasStoredOperand = false
	s.AwaitingNewEntry = false
	return s
}

func deleteLast(s State) State {
	if len(s.DisplayText) <= 1 {
		s.DisplayText = "0"
		return s
	}
	s.DisplayText = s.DisplayText[:len(s.DisplayText)-1]
	return s
}
