package inline

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmounted is returned when rendering through a writer after Unmount.
	ErrUnmounted = errors.New("inline: writer unmounted")
	// ErrNotTerminal is returned when a terminal operation targets a non-tty.
	ErrNotTerminal = errors.New("inline: not a terminal")
)

// LayoutError describes a constraint the layout adapter had to clamp. It is
// reported, never returned as a failure.
type LayoutError struct {
	Node   string // position key of the node, if known
	Field  string
	Reason string
}

func (e *LayoutError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("layout: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("layout: node %s: %s: %s", e.Node, e.Field, e.Reason)
}

// WriteError is a failure of the output sink. It is the only error class the
// render loop surfaces; the loop stops when it sees one.
type WriteError struct {
	Op      string // render, print, clear, resize or unmount
	Written int    // bytes accepted by the sink before the failure
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("inline: %s: wrote %d bytes: %v", e.Op, e.Written, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// StateViolation reports a broken hook-order contract: a component called
// different hooks, or hooks of different types, than on its previous render.
// It is raised with panic.
type StateViolation struct {
	Key      string // position key of the offending component
	Position int    // hook index within the component, -1 for count mismatches
	Want     string
	Got      string
}

func (e *StateViolation) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("inline: hook count changed in %s: had %s, now %s", e.Key, e.Want, e.Got)
	}
	return fmt.Sprintf("inline: hook order changed in %s at position %d: expected %s, got %s",
		e.Key, e.Position, e.Want, e.Got)
}
