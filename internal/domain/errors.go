package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the root of every validation failure; see ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAnswerNotFound indicates the chosen answer does not exist.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrQuizzNotFound indicates the quizz does not exist or is not published.
	ErrQuizzNotFound = errors.New("quizz not found")
	// ErrQuestionNotFound indicates a question ID is unknown within its quizz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound indicates the referenced attempt does not belong to the player and quizz.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptAlreadyCompleted is returned by every mutation of a completed attempt.
	ErrAttemptAlreadyCompleted = errors.New("attempt is already completed")
	// ErrAttemptConflict is returned when an attempt was saved by someone else since it was loaded.
	// Callers may reload and retry.
	ErrAttemptConflict = errors.New("attempt was modified concurrently")
	// ErrDuplicateResponse indicates the question was already answered within the attempt.
	ErrDuplicateResponse = errors.New("question already answered in this attempt")
	// ErrPlayerEmailTaken indicates another player was registered with the same email.
	ErrPlayerEmailTaken = errors.New("player email already registered")
)

// ValidationError describes a rejected input field. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
