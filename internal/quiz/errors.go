package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned before any network call when resume or job description is blank.
	ErrMissingInput = errors.New("Missing resume or job description")
	// ErrNoQuestions is returned when a runner is built without questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrIndexOutOfRange is returned for question indexes outside [0, N).
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrChoiceOutOfRange is returned for option indexes outside the question's options.
	ErrChoiceOutOfRange = errors.New("answer choice out of range")
	// ErrCurrentUnanswered is returned by Next when the current question has no answer.
	ErrCurrentUnanswered = errors.New("answer the current question before continuing")
	// ErrComplete is returned for any mutation after the quiz has been scored.
	ErrComplete = errors.New("quiz already submitted")
)

// ParseError means the model response held no parseable JSON array.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "Failed to parse quiz data"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError names the question that failed validation.
// Index is -1 when the problem concerns the list as a whole.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("Invalid quiz: %s", e.Reason)
	}
	return fmt.Sprintf("Invalid question object at index %d", e.Index)
}

// UnansweredError blocks submission while questions remain unanswered.
type UnansweredError struct {
	Remaining int
}

func (e *UnansweredError) Error() string {
	return fmt.Sprintf("Please answer all questions (%d remaining)", e.Remaining)
}
