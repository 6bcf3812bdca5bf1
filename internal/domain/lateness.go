package domain

import "time"

// IsLate reports whether a submission timestamp falls strictly after the due
// date. Submitting exactly at the due date is on time. The check is
// re-evaluated on every submit, always against the task's original due date,
// so a resubmission after a rejection can be flagged late even when the first
// attempt was on time.
func IsLate(submittedAt, dueDate time.Time) bool {
	return submittedAt.After(dueDate)
}
