package models

import (
	"errors"
	"fmt"
)

// Errors reported while decoding the note header.
var (
	ErrEmptyNote      = errors.New("empty note")
	ErrInvalidHeader  = errors.New("invalid note header")
	ErrInvalidVersion = errors.New("invalid note version")
	ErrInvalidTotal   = errors.New("invalid note total")
)

// Errors reported while decoding a single file entry.
var (
	ErrNotEnoughEntries      = errors.New("not enough entries in file line")
	ErrUnrecognizedFilepath  = errors.New("unrecognized file path")
	ErrInvalidTimelineFormat = errors.New("invalid timeline entry format")
)

// InvalidTimespentError wraps the numeric error of a timeline seconds value.
type InvalidTimespentError struct {
	Err error
}

func (e *InvalidTimespentError) Error() string {
	return fmt.Sprintf("invalid time spent in timeline entry: %s", e.Err)
}

func (e *InvalidTimespentError) Unwrap() error { return e.Err }

// InvalidTotalTimespentError wraps the numeric error of a file total.
type InvalidTotalTimespentError struct {
	Err error
}

func (e *InvalidTotalTimespentError) Error() string {
	return fmt.Sprintf("invalid total time spent: %s", e.Err)
}

func (e *InvalidTotalTimespentError) Unwrap() error { return e.Err }

type StatusNotRecognizedError struct {
	Got string
}

func (e *StatusNotRecognizedError) Error() string {
	return fmt.Sprintf("status not recognized: %q", e.Got)
}

// InvalidFileError is returned by DecodeNote for the first bad file line.
// Line is 1-based and counts the header.
type InvalidFileError struct {
	Line int
	Err  error
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid file entry on line %d: %s", e.Line, e.Err)
}

func (e *InvalidFileError) Unwrap() error { return e.Err }
