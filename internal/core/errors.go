package core

import (
	"errors"
	"fmt"

	"worktracker.service/internal/ports/repository"
)

var (
	// ErrValidation wraps every input problem caught before persistence.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is the repository's not-found error, re-exported for callers of core.
	ErrNotFound          = repository.ErrNotFound
	ErrAlreadyCheckedOut = errors.New("already checked out for today")
	ErrNotCheckedIn      = errors.New("not checked in today")
	ErrSessionInProgress = errors.New("a work session is already in progress")
	ErrNoActiveSession   = errors.New("no active work session")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
