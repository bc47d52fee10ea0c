package calc

import "errors"

// Input errors. The engine itself never fails; these only surface when a
// caller builds events from untrusted labels.
var (
	// ErrInvalidDigit indicates a digit event outside '0'..'9'.
	ErrInvalidDigit = errors.New("invalid digit")

	// ErrUnknownOperator indicates an operator label with no mapping.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownLabel indicates a button label with no mapping.
	ErrUnknownLabel = errors.New("unknown button label")
)
