package service

import (
	"context"

	"internship_service/internal/domain"
)

// AssignmentResolver expands a task into the set of students it applies to.
// The assignment is a derived relationship, recomputed on every call since
// the roster can change between calls; nothing is cached or persisted.
type AssignmentResolver struct {
	roster RosterClient
}

func NewAssignmentResolver(roster RosterClient) *AssignmentResolver {
	return &AssignmentResolver{roster: roster}
}

// ResolveAssignees returns the active students the task applies to: every
// active student for a general task, otherwise those whose major is in the
// task's target set.
func (r *AssignmentResolver) ResolveAssignees(ctx context.Context, task *domain.Task) ([]domain.Student, error) {
	students, err := r.roster.ListActiveStudents(ctx)
	if err != nil {
		return nil, err
	}

	assignees := make([]domain.Student, 0, len(students))
	for _, student := range students {
		if !student.Active {
			continue
		}
		if task.AppliesTo(student.Major, student.Cohort) {
			assignees = append(assignees, student)
		}
	}
	return assignees, nil
}
