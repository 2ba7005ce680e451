package plot

import (
	"errors"
	"fmt"
)

// ErrRangeTooWide marks a column whose values span more than a float64 can represent.
var ErrRangeTooWide = errors.New("value range too wide to plot")

// RenderError reports a panel that could not be drawn, typically because its column is missing.
type RenderError struct {
	Column string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("render: %v", e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Column, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
