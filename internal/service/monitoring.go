package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
)

type MonitoringServiceInterface interface {
	GetTaskStats(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.TaskStats, error)
	ListSubmissions(ctx context.Context, actor domain.Actor, taskID uuid.UUID) ([]domain.SubmissionSummary, error)
}

type monitoringService struct {
	taskRepo       repository.TaskRepositoryInterface
	submissionRepo repository.SubmissionRepositoryInterface
	resolver       *AssignmentResolver
}

func NewMonitoringService(
	taskRepo repository.TaskRepositoryInterface,
	submissionRepo repository.SubmissionRepositoryInterface,
	resolver *AssignmentResolver,
) MonitoringServiceInterface {
	return &monitoringService{
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
		resolver:       resolver,
	}
}

// GetTaskStats counts the resolved assignees by submission state. Students
// with no submission row fall into the todo bucket, so the buckets partition
// the assignee population: total == todo + in_progress + submitted +
// approved + rejected. The submitted bucket counts only rows awaiting review.
func (s *monitoringService) GetTaskStats(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.TaskStats, error) {
	if !actor.Role.CanReviewTasks() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "only mentors and admins may read task stats"}
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: taskID.String()}
		}
		return nil, err
	}

	assignees, err := s.resolver.ResolveAssignees(ctx, task)
	if err != nil {
		return nil, err
	}

	counts, err := s.submissionRepo.CountByStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}

	stats := &domain.TaskStats{
		Total:      len(assignees),
		InProgress: counts[domain.StatusInProgress],
		Submitted:  counts[domain.StatusSubmitted],
		Approved:   counts[domain.StatusApproved],
		Rejected:   counts[domain.StatusRejected],
	}
	stats.Todo = stats.Total - stats.InProgress - stats.Submitted - stats.Approved - stats.Rejected
	if stats.Todo < 0 {
		// Stale rows from students who left the target filter; keep the
		// partition property over the remaining buckets.
		stats.Todo = 0
	}
	return stats, nil
}

// ListSubmissions returns one row per resolved assignee, merged with the
// ledger and ordered by student code. Assignees without a submission row are
// reported as todo.
func (s *monitoringService) ListSubmissions(ctx context.Context, actor domain.Actor, taskID uuid.UUID) ([]domain.SubmissionSummary, error) {
	if !actor.Role.CanReviewTasks() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "only mentors and admins may list submissions"}
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: taskID.String()}
		}
		return nil, err
	}

	assignees, err := s.resolver.ResolveAssignees(ctx, task)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]*domain.Submission, len(submissions))
	for _, submission := range submissions {
		byStudent[submission.StudentID] = submission
	}

	summaries := make([]domain.SubmissionSummary, 0, len(assignees))
	for _, student := range assignees {
		summary := domain.SubmissionSummary{
			StudentID:   student.ID,
			StudentCode: student.Code,
			StudentName: student.Name,
			Status:      domain.StatusTodo,
		}
		if submission, ok := byStudent[student.ID]; ok {
			summary.Status = submission.Status
			summary.IsLate = submission.IsLate
			summary.SubmittedAt = submission.SubmittedAt
			summary.Score = submission.Score
			summary.Files = submission.Files
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StudentCode < summaries[j].StudentCode
	})
	return summaries, nil
}
