package domain

import "fmt"

// ValidationError reports malformed or precondition-violating input. Field
// names the offending field so the caller can render a precise message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to a task, submission or student that
// does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidStateError reports an operation attempted from a lifecycle state
// that does not permit it, e.g. reviewing a task that is still in progress or
// resubmitting an approved one. Current and Expected are status names (or a
// short state description for non-submission states such as "task has
// submissions").
type InvalidStateError struct {
	Op       string
	Current  string
	Expected string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not permitted: current state %q, expected %s", e.Op, e.Current, e.Expected)
}

// AuthorizationError reports an actor whose role or identity does not match
// what the operation requires.
type AuthorizationError struct {
	Role   UserRole
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q: %s", e.Role, e.Reason)
}
