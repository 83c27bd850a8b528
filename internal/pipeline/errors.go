package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a run configuration that cannot be processed.
	ErrConfiguration = errors.New("invalid run configuration")
	// ErrSourceRead marks a file that could not be read or mapped.
	ErrSourceRead = errors.New("source read failed")
	// ErrClassification marks a row the oracle could not classify.
	ErrClassification = errors.New("classification failed")
	// ErrAggregationInvariant marks totals that disagree with each other.
	ErrAggregationInvariant = errors.New("aggregation invariant violated")
	// ErrAllSourcesFailed is returned when no input file could be processed.
	ErrAllSourcesFailed = errors.New("all input files failed")
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// SourceReadError is fatal for one file; the run continues with the rest.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrSourceRead and the cause to errors.Is.
func (e *SourceReadError) Unwrap() []error {
	return []error{ErrSourceRead, e.Err}
}

// ClassificationError is recorded per row; the row is ignored.
type ClassificationError struct {
	Description string
	Err         error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classifying %q: %v", e.Description, e.Err)
}

// Unwrap exposes both ErrClassification and the cause to errors.Is.
func (e *ClassificationError) Unwrap() []error {
	return []error{ErrClassification, e.Err}
}
