package classify

import (
	"errors"
	"fmt"
)

var (
	ErrFinalBound = errors.New("the last group's upper bound is fixed at the maximum")
	ErrBoundIndex = errors.New("group index out of range")
	ErrBelowLower = errors.New("upper bound must be greater than the group's lower bound")
	ErrAboveNext  = errors.New("upper bound must be less than the next group's upper bound")
)

// BoundError describes a rejected manual bound edit.
type BoundError struct {
	Index int
	Value float64
	Limit float64
	Err   error
}

func (e *BoundError) Error() string {
	switch {
	case errors.Is(e.Err, ErrBelowLower), errors.Is(e.Err, ErrAboveNext):
		return fmt.Sprintf("group %d: %v (got %g, limit %g)", e.Index, e.Err, e.Value, e.Limit)
	default:
		return fmt.Sprintf("group %d: %v", e.Index, e.Err)
	}
}

func (e *BoundError) Unwrap() error { return e.Err }
