package repository

import (
	"errors"
	"fmt"

	"internship_service/internal/domain"
)

var ErrNotFound = errors.New("not found")

// StateConflictError is returned when a conditional write finds the
// submission in a status its transition predicate does not accept. The
// service layer turns it into a domain.InvalidStateError.
type StateConflictError struct {
	Current domain.SubmissionStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("submission is in status %q", e.Current)
}
