package research

import (
	"errors"
	"fmt"
)

// ErrRefinementUnavailable matches every *RefinementUnavailableError via errors.Is.
var ErrRefinementUnavailable = errors.New("refinement unavailable")

// DecisionMalformedError reports structured decision output that could not be parsed.
// It never leaves the decision policy.
type DecisionMalformedError struct {
	Raw string
	Err error
}

func (e *DecisionMalformedError) Error() string {
	return fmt.Sprintf("malformed decision output: %v", e.Err)
}

func (e *DecisionMalformedError) Unwrap() error { return e.Err }

// SearchFailure wraps a provider error. The executor degrades it into a sentinel string.
type SearchFailure struct {
	Query string
	Err   error
}

func (e *SearchFailure) Error() string {
	if e.Err == nil {
		return "search failed"
	}
	return e.Err.Error()
}

func (e *SearchFailure) Unwrap() error { return e.Err }

type RefinementUnavailableError struct {
	Err error
}

func (e *RefinementUnavailableError) Error() string {
	return fmt.Sprintf("refinement unavailable: %v", e.Err)
}

func (e *RefinementUnavailableError) Unwrap() error { return e.Err }

func (e *RefinementUnavailableError) Is(target error) bool {
	return target == ErrRefinementUnavailable
}
