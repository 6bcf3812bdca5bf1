package domain

// SubmissionStatus is the lifecycle state of a task for one student.
// StatusTodo is never stored; it is the implicit state of a (task, student)
// pair with no submission row.
type SubmissionStatus string

const (
	StatusTodo       SubmissionStatus = "todo"
	StatusInProgress SubmissionStatus = "in_progress"
	StatusSubmitted  SubmissionStatus = "submitted"
	StatusApproved   SubmissionStatus = "approved"
	StatusRejected   SubmissionStatus = "rejected"
)

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// CanSubmit reports whether a submit call is permitted from this state.
// Approved is terminal; submitted rows belong to the reviewer until a
// decision comes back.
func (s SubmissionStatus) CanSubmit() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusRejected:
		return true
	default:
		return false
	}
}

// CanReview reports whether a mentor decision is permitted from this state.
func (s SubmissionStatus) CanReview() bool {
	return s == StatusSubmitted
}

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleMentor  UserRole = "mentor"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleStudent, UserRoleMentor, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// CanReviewTasks reports whether the role may apply review decisions and read
// monitoring aggregates.
func (r UserRole) CanReviewTasks() bool {
	return r == UserRoleMentor || r == UserRoleAdmin
}
