package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work a mentor assigns to some or all students.
// TargetMajors is an OR-set of major codes; an empty set means the task is
// general and applies to every active student.
type Task struct {
	ID            uuid.UUID
	Title         string
	Description   string
	DueDate       time.Time
	TargetMajors  []string
	RubricIDs     []uuid.UUID
	AttachmentIDs []uuid.UUID
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	EditedAt      time.Time
}

// IsGeneral reports whether the task applies to the whole roster.
func (t *Task) IsGeneral() bool {
	return len(t.TargetMajors) == 0
}

// AppliesTo reports whether a student's major or cohort is in the task's
// target set.
func (t *Task) AppliesTo(major, cohort string) bool {
	if t.IsGeneral() {
		return true
	}
	for _, m := range t.TargetMajors {
		if m == major || (cohort != "" && m == cohort) {
			return true
		}
	}
	return false
}

// TaskUpdate carries the partially-set fields of an update; nil means
// "leave unchanged".
type TaskUpdate struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	TargetMajors  *[]string
	RubricIDs     *[]uuid.UUID
	AttachmentIDs *[]uuid.UUID
}
