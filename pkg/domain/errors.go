package domain

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned when no line of the storage declares the requested id.
var ErrNodeNotFound = errors.New("node not found")

// ErrMalformedNode is returned when the line declaring an id matches neither node grammar.
var ErrMalformedNode = errors.New("malformed node")

// ErrMalformedCondition is returned when a condition fragment is not <feature><op><value>.
var ErrMalformedCondition = errors.New("malformed condition")

// ErrVisitLimit is returned when a traversal visits more nodes than allowed.
var ErrVisitLimit = errors.New("node visit limit exceeded")

// NodeError attaches the node id (and the offending line, if any) to a lookup failure.
type NodeError struct {
	ID   NodeID
	Line string
	Err  error
}

func (e *NodeError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("node %d: %v: %q", e.ID, e.Err, e.Line)
	}
	return fmt.Sprintf("node %d: %v", e.ID, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// ConditionError carries the fragment that failed to parse.
type ConditionError struct {
	Fragment string
	Err      error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Fragment)
}

func (e *ConditionError) Unwrap() error { return e.Err }

// IsInputError reports whether err is caused by the tree content rather than
// by I/O or cancellation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrMalformedNode) ||
		errors.Is(err, ErrMalformedCondition) ||
		errors.Is(err, ErrVisitLimit)
}
