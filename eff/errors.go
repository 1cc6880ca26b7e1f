package eff

import (
	"context"
	"errors"
	"fmt"
)

// PanicError is the failure produced when a leaf operation panics instead
// of returning an error.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the value passed to panic if it was an error, else nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// BranchError tags a failure surfacing from a parallel combinator with
// the branch that produced it ("left", "right", or the element index for
// sequence forms).
type BranchError struct {
	Branch string
	Err    error
}

func (e *BranchError) Error() string {
	return fmt.Sprintf("branch %s: %v", e.Branch, e.Err)
}

func (e *BranchError) Unwrap() error { return e.Err }

// IsCancellation reports whether err records a branch being torn down
// rather than failing. Parallel combinators use it to keep a cancelled
// sibling's wind-down from being reported as the outcome.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func branchIndex(i int) string {
	return fmt.Sprintf("%d", i)
}
