package sighash

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoSection is returned by Preimage when neither SectionInputs nor
// SectionOutputs is requested.
var ErrNoSection = errors.New("no preimage section selected")

// SighashError is returned when a preimage cannot be built for an input.
type SighashError struct {
	InputIndex int    // Index of the input that caused the error
	Message    string // Human-readable error message
	Cause      error  // Underlying error (if any)
}

func (e *SighashError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sighash error at input %d: %s: %v", e.InputIndex, e.Message, e.Cause)
	}
	return fmt.Sprintf("sighash error at input %d: %s", e.InputIndex, e.Message)
}

func (e *SighashError) Unwrap() error {
	return e.Cause
}
