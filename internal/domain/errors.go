package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent the fatal error conditions of the pipeline.
// All of them are unrecoverable at the pipeline level: there is no retry
// logic anywhere in this system, and a failure aborts the entire run
// rather than producing a partial artifact. These errors are returned by
// the public API and can be checked with errors.Is.
var (
	// ErrConfigNotFound is returned when the simulation parameter file is
	// missing. Reported before any work begins.
	ErrConfigNotFound = errors.New("picmovie: simulation config not found")

	// ErrSeriesNotFound is returned when the expected data directory is
	// absent or no subdirectory contains a matching snapshot file.
	ErrSeriesNotFound = errors.New("picmovie: series not found")

	// ErrSliceNotFound is returned when the series exists but holds no
	// snapshot for the requested slice orientation.
	ErrSliceNotFound = errors.New("picmovie: no snapshot matches slice")

	// ErrOutputPathInvalid is returned when the requested output is a
	// directory or lacks a known video extension. Checked before any
	// rendering work starts.
	ErrOutputPathInvalid = errors.New("picmovie: invalid output path")

	// ErrCancelled is returned when the run context is cancelled before
	// the encoder is invoked.
	ErrCancelled = errors.New("picmovie: run cancelled")
)

// RenderError reports the failure of a single frame render. A single
// failing frame is fatal to the whole run.
type RenderError struct {
	// Index is the frame index of the failed task.
	Index int

	// Path is the snapshot file being rendered.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("picmovie: render frame %d (%s): %v", e.Index, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// EncodingError reports a failed external encoder invocation, carrying the
// tool's diagnostic output for the user.
type EncodingError struct {
	// Output is the captured stderr of the encoder process.
	Output string

	// Err is the process error (non-zero exit, missing binary, ...).
	Err error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("picmovie: encoding failed: %v", e.Err)
	}
	return fmt.Sprintf("picmovie: encoding failed: %v\n%s", e.Err, e.Output)
}

// Unwrap returns the process error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}
