package calc

import (
	"math/rand/v2"
	"regexp"
	"slices"
	"testing"
)

// applyLabels runs labels through Apply starting from s.
func applyLabels(t *testing.T, s State, labels ...string) State {
	t.Helper()
	for _, label := range labels {
		ev, err := ParseEvent(label)
		if err != nil {
			t.Fatalf("ParseEvent(%q) failed: %v", label, err)
		}
		s = Apply(s, ev)
	}
	return s
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s.DisplayText != "0" {
		t.Errorf("DisplayText = %q, want %q", s.DisplayText, "0")
	}
	if s.PendingOperator != OpNone || s.HasStoredOperand {
		t.Error("new state should have nothing pending")
	}
	if s.AwaitingNewEntry {
		t.Error("new state should not await new entry")
	}
	if len(s.HistoryLog) != 0 {
		t.Errorf("HistoryLog = %v, want empty", s.HistoryLog)
	}
}

func TestApply_Sequences(t *testing.T) {
	tests := []struct {
		name        string
		labels      []string
		wantDisplay string
		wantHistory []string
	}{
		{
			name:        "addition",
			labels:      []string{"5", "+", "3", "="},
			wantDisplay: "8",
			wantHistory: []string{"5 + 3 = 8"},
		},
		{
			name:        "division by zero yields zero",
			labels:      []string{"5", "÷", "0", "="},
			wantDisplay: "0",
			wantHistory: []string{"5 ÷ 0 = 0"},
		},
		{
			name:        "left to right chaining",
			labels:      []string{"5", "+", "3", "×", "2", "="},
			wantDisplay: "16",
			wantHistory: []string{"8 × 2 = 16", "5 + 3 = 8"},
		},
		{
			name:        "subtraction to negative",
			labels:      []string{"3", "-", "1", "0", "="},
			wantDisplay: "-7",
			wantHistory: []string{"3 - 10 = -7"},
		},
		{
			name:        "fractional division",
			labels:      []string{"1", "÷", "4", "="},
			wantDisplay: "0.25",
			wantHistory: []string{"1 ÷ 4 = 0.25"},
		},
		{
			name:        "modulo",
			labels:      []string{"7", "%", "3", "="},
			wantDisplay: "1",
			wantHistory: []string{"7 % 3 = 1"},
		},
		{
			name:        "modulo keeps fraction",
			labels:      []string{"5", ".", "5", "%", "2", "="},
			wantDisplay: "1.5",
			wantHistory: []string{"5.5 % 2 = 1.5"},
		},
		{
			name:        "modulo sign follows dividend",
			labels:      []string{"3", "-", "1", "0", "=", "%", "3", "="},
			wantDisplay: "-1",
			wantHistory: []string{"-7 % 3 = -1", "3 - 10 = -7"},
		},
		{
			name:        "modulo by zero is not a number",
			labels:      []string{"5", "%", "0", "="},
			wantDisplay: "NaN",
			wantHistory: []string{"5 % 0 = NaN"},
		},
		{
			name:        "floating point noise is kept",
			labels:      []string{".", "1", "+", ".", "2", "="},
			wantDisplay: "0.30000000000000004",
			wantHistory: []string{"0.1 + 0.2 = 0.30000000000000004"},
		},
		{
			name:        "equals reuses display as right operand",
			labels:      []string{"5", "+", "="},
			wantDisplay: "10",
			wantHistory: []string{"5 + 5 = 10"},
		},
		{
			name:        "operator replaced before second operand",
			labels:      []string{"5", "+", "×", "3", "="},
			wantDisplay: "15",
			wantHistory: []string{"5 × 3 = 15"},
		},
		{
			name:        "result feeds next operator",
			labels:      []string{"2", "+", "2", "=", "×", "5", "="},
			wantDisplay: "20",
			wantHistory: []string{"4 × 5 = 20", "2 + 2 = 4"},
		},
		{
			name:        "digit after result starts new entry",
			labels:      []string{"2", "+", "2", "=", "9"},
			wantDisplay: "9",
			wantHistory: []string{"2 + 2 = 4"},
		},
		{
			name:        "equals without operator is a no-op",
			labels:      []string{"4", "2", "=", "="},
			wantDisplay: "42",
			wantHistory: []string{},
		},
		{
			name:        "trailing point operand",
			labels:      []string{"0", ".", "+", "5", "="},
			wantDisplay: "5",
			wantHistory: []string{"0 + 5 = 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := applyLabels(t, NewState(), tt.labels...)
			if s.DisplayText != tt.wantDisplay {
				t.Errorf("DisplayText = %q, want %q", s.DisplayText, tt.wantDisplay)
			}
			if !slices.Equal(s.HistoryLog, tt.wantHistory) {
				t.Errorf("HistoryLog = %q, want %q", s.HistoryLog, tt.wantHistory)
			}
		})
	}
}

func TestApply_DigitEntry(t *testing.T) {
	tests := []struct {
		labels []string
		want   string
	}{
		{[]string{"0"}, "0"},
		{[]string{"0", "0", "7"}, "7"},
		{[]string{"1", "2", "3"}, "123"},
		{[]string{"."}, "0."},
		{[]string{".", "5"}, "0.5"},
		{[]string{"1", ".", ".", "2", "."}, "1.2"},
		{[]string{"1", "+", "."}, "0."},
		{[]string{"9", "9", "9", "9", "9", "9", "9", "9", "9", "9", "9", "9", "9", "9"}, "99999999999999"},
	}

	for _, tt := range tests {
		s := applyLabels(t, NewState(), tt.labels...)
		if s.DisplayText != tt.want {
			t.Errorf("%v: DisplayText = %q, want %q", tt.labels, s.DisplayText, tt.want)
		}
	}
}

func TestApply_Clear(t *testing.T) {
	s := applyLabels(t, NewState(), "5", "+", "3", "=", "7", "×", "2", "C")

	if s.DisplayText != "0" {
		t.Errorf("DisplayText = %q, want %q", s.DisplayText, "0")
	}
	if s.PendingOperator != OpNone || s.HasStoredOperand {
		t.Error("clear should drop the pending computation")
	}
	if s.AwaitingNewEntry {
		t.Error("clear should reset the new-entry flag")
	}
	if want := []string{"5 + 3 = 8"}; !slices.Equal(s.HistoryLog, want) {
		t.Errorf("HistoryLog = %q, want %q", s.HistoryLog, want)
	}
}

func TestApply_DeleteLast(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"12", "1"},
		{"1", "0"},
		{"0", "0"},
		{"0.", "0"},
		{"3.5", "3."},
		{"-7", "-"},
	}

	for _, tt := range tests {
		s := NewState()
		s.DisplayText = tt.display
		s = Apply(s, DeleteEvent)
		if s.DisplayText != tt.want {
			t.Errorf("delete on %q = %q, want %q", tt.display, s.DisplayText, tt.want)
		}
	}
}

func TestApply_DeleteKeepsPending(t *testing.T) {
	s := applyLabels(t, NewState(), "9", "-", "4", "2", "DEL")

	if s.DisplayText != "4" {
		t.Errorf("DisplayText = %q, want %q", s.DisplayText, "4")
	}
	if s.PendingOperator != OpSubtract || !s.HasStoredOperand || s.StoredOperand != 9 {
		t.Errorf("pending computation changed: %+v", s)
	}

	s = Apply(s, EqualsEvent)
	if s.DisplayText != "5" {
		t.Errorf("DisplayText = %q, want %q", s.DisplayText, "5")
	}
}

func TestApply_ClearHistoryIdempotent(t *testing.T) {
	s := applyLabels(t, NewState(), "1", "+", "1", "=", "4")

	s = Apply(s, ClearHistoryEvent)
	if len(s.HistoryLog) != 0 {
		t.Fatalf("HistoryLog = %q after first clear", s.HistoryLog)
	}
	s = Apply(s, ClearHistoryEvent)
	if len(s.HistoryLog) != 0 {
		t.Fatalf("HistoryLog = %q after second clear", s.HistoryLog)
	}
	if s.DisplayText != "4" {
		t.Errorf("clear history changed display to %q", s.DisplayText)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	before := applyLabels(t, NewState(), "1", "+", "1", "=")
	snapshot := before.Clone()

	_ = applyLabels(t, before, "+", "2", "=", "CH")

	if before.DisplayText != snapshot.DisplayText || !slices.Equal(before.HistoryLog, snapshot.HistoryLog) {
		t.Errorf("input state changed: got %+v, want %+v", before, snapshot)
	}
}

func TestApply_InvalidEventsIgnored(t *testing.T) {
	s := applyLabels(t, NewState(), "4")

	for _, ev := range []Event{
		{Kind: EventDigit, Digit: 'x'},
		{Kind: EventOperator, Op: OpNone},
		{Kind: EventKind(99)},
	} {
		next := Apply(s, ev)
		if next.DisplayText != "4" || next.PendingOperator != OpNone {
			t.Errorf("Apply(%v) changed state to %+v", ev, next)
		}
	}
}

var numeralPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$`)

func TestApply_EntryStaysNumeral(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	entry := []Event{DecimalEvent}
	for d := byte('0'); d <= '9'; d++ {
		entry = append(entry, MustDigit(d))
	}

	for run := 0; run < 200; run++ {
		s := NewState()
		n := rng.IntN(30) + 1
		for i := 0; i < n; i++ {
			s = Apply(s, entry[rng.IntN(len(entry))])
			if !numeralPattern.MatchString(s.DisplayText) {
				t.Fatalf("run %d: display %q is not a numeral", run, s.DisplayText)
			}
			if FormatForDisplay(s.DisplayText) == "" {
				t.Fatalf("run %d: empty formatted display for %q", run, s.DisplayText)
			}
		}
	}
}

func TestApply_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	events := []Event{DecimalEvent, EqualsEvent, ClearEvent, DeleteEvent, ClearHistoryEvent}
	for d := byte('0'); d <= '9'; d++ {
		events = append(events, MustDigit(d))
	}
	for _, op := range Operators {
		events = append(events, OperatorEvent(op))
	}

	for run := 0; run < 200; run++ {
		s := NewState()
		computations := 0
		for i := 0; i < 50; i++ {
			ev := events[rng.IntN(len(events))]
			next, done := step(s, ev)
			if done != nil {
				computations++
				if next.HistoryLog[0] != done.Entry {
					t.Fatalf("newest history entry %q, want %q", next.HistoryLog[0], done.Entry)
				}
			}
			if ev.Kind == EventClearHistory {
				computations = 0
			}
			s = next

			if s.HasStoredOperand != (s.PendingOperator != OpNone) {
				t.Fatalf("run %d step %d: operand/operator mismatch: %+v", run, i, s)
			}
			if s.DisplayText == "" {
				t.Fatalf("run %d step %d: empty display", run, i)
			}
			if len(s.HistoryLog) != computations {
				t.Fatalf("run %d step %d: history length %d, want %d", run, i, len(s.HistoryLog), computations)
			}
		}
	}
}
