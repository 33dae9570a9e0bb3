package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task does not exist or belongs to
	// another user
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyCompleted is returned when completing a task that is
	// already completed; the transition is a benign no-op and no second
	// completion record is written
	ErrTaskAlreadyCompleted = errors.New("task already completed")

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrNoteNotFound is returned when a note does not exist or belongs to
	// another user
	ErrNoteNotFound = errors.New("note not found")
)
