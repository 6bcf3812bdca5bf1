package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
	"internship_service/internal/repository/mocks"
)

func newMonitoringFixture(t *testing.T, roster *mockRoster) (MonitoringServiceInterface, *mocks.TaskRepository, *mocks.SubmissionRepository) {
	t.Helper()
	taskRepo := new(mocks.TaskRepository)
	submissionRepo := new(mocks.SubmissionRepository)
	svc := NewMonitoringService(taskRepo, submissionRepo, NewAssignmentResolver(roster))
	return svc, taskRepo, submissionRepo
}

func cohortStudents(n int) []domain.Student {
	students := make([]domain.Student, n)
	for i := range students {
		students[i] = domain.Student{
			ID:     uuid.New(),
			Code:   string(rune('A' + i)),
			Name:   "Student " + string(rune('A'+i)),
			Major:  "Informatics",
			Active: true,
		}
	}
	return students
}

func TestGetTaskStats(t *testing.T) {
	task := &domain.Task{ID: uuid.New(), Title: "Weekly report"}

	t.Run("BucketsPartitionAssignees", func(t *testing.T) {
		svc, taskRepo, submissionRepo := newMonitoringFixture(t, rosterOf(cohortStudents(10)...))

		taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		submissionRepo.On("CountByStatus", mock.Anything, task.ID).Return(map[domain.SubmissionStatus]int{
			domain.StatusSubmitted: 3,
			domain.StatusApproved:  1,
			domain.StatusRejected:  1,
		}, nil)

		stats, err := svc.GetTaskStats(context.Background(), mentorActor(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, &domain.TaskStats{
			Total:     10,
			Todo:      5,
			Submitted: 3,
			Approved:  1,
			Rejected:  1,
		}, stats)
		assert.Equal(t, stats.Total,
			stats.Todo+stats.InProgress+stats.Submitted+stats.Approved+stats.Rejected)
	})

	t.Run("SubmittedCountsOnlyAwaitingReview", func(t *testing.T) {
		svc, taskRepo, submissionRepo := newMonitoringFixture(t, rosterOf(cohortStudents(4)...))

		taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		submissionRepo.On("CountByStatus", mock.Anything, task.ID).Return(map[domain.SubmissionStatus]int{
			domain.StatusInProgress: 1,
			domain.StatusApproved:   2,
		}, nil)

		stats, err := svc.GetTaskStats(context.Background(), mentorActor(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Submitted)
		assert.Equal(t, 1, stats.Todo)
	})

	t.Run("TodoClampedWhenRowsOutnumberAssignees", func(t *testing.T) {
		// Rows from students who have since left the target filter.
		svc, taskRepo, submissionRepo := newMonitoringFixture(t, rosterOf(cohortStudents(2)...))

		taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		submissionRepo.On("CountByStatus", mock.Anything, task.ID).Return(map[domain.SubmissionStatus]int{
			domain.StatusApproved: 3,
		}, nil)

		stats, err := svc.GetTaskStats(context.Background(), mentorActor(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Todo)
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		svc, _, _ := newMonitoringFixture(t, new(mockRoster))

		_, err := svc.GetTaskStats(context.Background(), studentActor(), task.ID)
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("TaskNotFound", func(t *testing.T) {
		svc, taskRepo, _ := newMonitoringFixture(t, new(mockRoster))

		taskRepo.On("GetByID", mock.Anything, task.ID).Return(nil, repository.ErrNotFound)

		_, err := svc.GetTaskStats(context.Background(), mentorActor(), task.ID)
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestListSubmissions(t *testing.T) {
	task := &domain.Task{ID: uuid.New(), Title: "Weekly report"}

	t.Run("MergesLedgerWithAssignees", func(t *testing.T) {
		withRow := domain.Student{ID: uuid.New(), Code: "S-002", Name: "Sari", Major: "Informatics", Active: true}
		withoutRow := domain.Student{ID: uuid.New(), Code: "S-001", Name: "Budi", Major: "Informatics", Active: true}
		svc, taskRepo, submissionRepo := newMonitoringFixture(t, rosterOf(withRow, withoutRow))
		submittedAt := time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)
		score := 85

		taskRepo.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		submissionRepo.On("ListByTask", mock.Anything, task.ID).Return([]*domain.Submission{
			{
				TaskID:      task.ID,
				StudentID:   withRow.ID,
				Status:      domain.StatusApproved,
				IsLate:      true,
				SubmittedAt: &submittedAt,
				Score:       &score,
			},
		}, nil)

		summaries, err := svc.ListSubmissions(context.Background(), mentorActor(), task.ID)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		// Ordered by student code; the rowless assignee reads as todo.
		assert.Equal(t, "S-001", summaries[0].StudentCode)
		assert.Equal(t, domain.StatusTodo, summaries[0].Status)
		assert.Nil(t, summaries[0].SubmittedAt)

		assert.Equal(t, "S-002", summaries[1].StudentCode)
		assert.Equal(t, domain.StatusApproved, summaries[1].Status)
		assert.True(t, summaries[1].IsLate)
		require.NotNil(t, summaries[1].Score)
		assert.Equal(t, 85, *summaries[1].Score)
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		svc, _, _ := newMonitoringFixture(t, new(mockRoster))

		_, err := svc.ListSubmissions(context.Background(), studentActor(), task.ID)
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})
}
