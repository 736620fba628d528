package pptx

import (
	"errors"
	"fmt"
)

// ErrNoRecords indicates generation was invoked with no rows to process.
var ErrNoRecords = errors.New("no slide records provided")

// GenerationError represents a fatal, run-aborting generation failure.
// Per-row failures never produce a GenerationError; they are recorded on
// the row's SlideResult and the run continues.
type GenerationError struct {
	Op  string // "load_template", "create_presentation"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
