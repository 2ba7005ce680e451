package bmslog

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is wrapped by a ParseError when a required column is absent from the header row.
var ErrMissingColumn = errors.New("missing required column")

// ParseError reports a file that could not be read or does not match the expected layout.
// Line is 1-based and counts the skipped header block; it is 0 when the error is not tied to a line.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(":%d", e.Line)
	}
	if e.Column != "" {
		msg += " column " + e.Column
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDataError reports a log without data rows after the header block.
type EmptyDataError struct {
	Path string
}

func (e *EmptyDataError) Error() string {
	if e.Path == "" {
		return "no data rows"
	}
	return fmt.Sprintf("%s: no data rows", e.Path)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsEmptyData reports whether err is or wraps an *EmptyDataError.
func IsEmptyData(err error) bool {
	var ee *EmptyDataError
	return errors.As(err, &ee)
}
