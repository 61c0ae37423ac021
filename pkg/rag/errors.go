package rag

import (
	"errors"
	"fmt"

	"citystyle-be/pkg/llm"
	"citystyle-be/pkg/search"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnsupportedIntent = fmt.Errorf("%w: unsupported query type", ErrInvalidRequest)
	ErrDeadlineExceeded  = errors.New("pipeline deadline exceeded")

	ErrSearchUnavailable     = search.ErrSearchUnavailable
	ErrCompletionUnavailable = llm.ErrCompletionUnavailable
)

// StageError records the state a run failed in and the states visited before it.
type StageError struct {
	Stage State
	Err   error
	Trace Trace
}

func (e *StageError) Error() string {
	return fmt.Sprintf("rag %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
