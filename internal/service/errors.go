package service

import (
	"errors"
	"strings"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
)

// mapStateErr converts repository lookup/transition errors into the typed
// domain errors the callers render from.
func mapStateErr(err error, op, resource, id string, expected ...domain.SubmissionStatus) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	var conflict *repository.StateConflictError
	if errors.As(err, &conflict) {
		return &domain.InvalidStateError{
			Op:       op,
			Current:  string(conflict.Current),
			Expected: statusList(expected),
		}
	}
	return err
}

func statusList(statuses []domain.SubmissionStatus) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, " or ")
}
