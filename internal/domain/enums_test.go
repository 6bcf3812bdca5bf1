package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"internship_service/internal/domain"
)

func TestSubmissionStatusTransitions(t *testing.T) {
	canSubmit := map[domain.SubmissionStatus]bool{
		domain.StatusTodo:       true,
		domain.StatusInProgress: true,
		domain.StatusSubmitted:  false,
		domain.StatusApproved:   false,
		domain.StatusRejected:   true,
	}
	for status, want := range canSubmit {
		assert.Equal(t, want, status.CanSubmit(), "CanSubmit(%s)", status)
	}

	for _, status := range []domain.SubmissionStatus{
		domain.StatusTodo, domain.StatusInProgress, domain.StatusApproved, domain.StatusRejected,
	} {
		assert.False(t, status.CanReview(), "CanReview(%s)", status)
	}
	assert.True(t, domain.StatusSubmitted.CanReview())
}

func TestSubmissionStatusIsValid(t *testing.T) {
	assert.True(t, domain.StatusTodo.IsValid())
	assert.True(t, domain.StatusRejected.IsValid())
	assert.False(t, domain.SubmissionStatus("done").IsValid())
	assert.False(t, domain.SubmissionStatus("").IsValid())
}

func TestUserRole(t *testing.T) {
	assert.True(t, domain.UserRoleMentor.CanReviewTasks())
	assert.True(t, domain.UserRoleAdmin.CanReviewTasks())
	assert.False(t, domain.UserRoleStudent.CanReviewTasks())

	assert.True(t, domain.UserRoleStudent.IsValid())
	assert.False(t, domain.UserRole("intern").IsValid())
}

func TestTaskAppliesTo(t *testing.T) {
	general := domain.Task{}
	assert.True(t, general.IsGeneral())
	assert.True(t, general.AppliesTo("Informatics", "2024A"))

	targeted := domain.Task{TargetMajors: []string{"Informatics", "Design"}}
	assert.False(t, targeted.IsGeneral())
	assert.True(t, targeted.AppliesTo("Design", ""))
	assert.False(t, targeted.AppliesTo("Business", "2024A"))

	byCohort := domain.Task{TargetMajors: []string{"2024A"}}
	assert.True(t, byCohort.AppliesTo("Business", "2024A"))
}
