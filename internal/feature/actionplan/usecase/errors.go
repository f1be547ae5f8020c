// Package usecase implements the business logic for the actionplan feature.
package usecase

import "errors"

var (
	// ErrTaskNotFound is returned when no task exists for the given company and ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidStatus is returned when a status value is not one of the known states.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrTaskAlreadyTerminal is returned when transitioning a task that is already
	// in a terminal state (terminal states are absorbing).
	ErrTaskAlreadyTerminal = errors.New("task is already in a terminal state")

	// ErrInvalidDueDate is returned when a generate request's due date falls
	// outside the allowed window (today through 90 days out, inclusive).
	ErrInvalidDueDate = errors.New("due date must be between today and 90 days from today")
)
