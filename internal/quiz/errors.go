package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyAnswered is returned when a question that already has an
	// answer receives another selection.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrFinished is returned for operations on a finished session.
	ErrFinished = errors.New("session finished")

	// ErrNotAnswered is returned by Advance before the current question has
	// been answered.
	ErrNotAnswered = errors.New("current question not answered")

	// ErrUnknownOption is returned when the selected text is not one of the
	// current question's options.
	ErrUnknownOption = errors.New("option not offered for this question")
)

// ValidationError reports invalid user input. Message is suitable for display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrMalformedTransfer indicates a screen transfer payload that could not be
// decoded or violates a SessionResult invariant.
type ErrMalformedTransfer struct {
	Reason string
	Err    error
}

func (e *ErrMalformedTransfer) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed transfer: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed transfer: %s", e.Reason)
}

func (e *ErrMalformedTransfer) Unwrap() error { return e.Err }
