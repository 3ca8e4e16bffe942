package pipeline

import "fmt"

// SourceReadError signals that the raw input could not be read as a table.
// It aborts extraction only.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("cannot read source %q: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// PipelineStateError signals that a phase was invoked before its
// prerequisite phase produced output.
type PipelineStateError struct {
	Phase    string
	Requires string
}

func (e *PipelineStateError) Error() string {
	return fmt.Sprintf("cannot run %s: %s has not produced output yet", e.Phase, e.Requires)
}

// EmptyTableError marks a zero-row table. It is recorded in the affected
// report rather than surfaced as a fatal failure.
type EmptyTableError struct {
	Phase string
}

func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("%s received an empty table", e.Phase)
}
