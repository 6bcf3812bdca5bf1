package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
)

type TaskServiceInterface interface {
	CreateTask(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	ListTasks(ctx context.Context, actor domain.Actor) ([]*domain.Task, error)
}

// CreateTaskInput is the creation payload. TargetMajors empty means the task
// is general.
type CreateTaskInput struct {
	Title         string
	Description   string
	DueDate       time.Time
	TargetMajors  []string
	RubricIDs     []uuid.UUID
	AttachmentIDs []uuid.UUID
}

type taskService struct {
	taskRepo       repository.TaskRepositoryInterface
	submissionRepo repository.SubmissionRepositoryInterface
	roster         RosterClient
	now            func() time.Time
}

func NewTaskService(
	taskRepo repository.TaskRepositoryInterface,
	submissionRepo repository.SubmissionRepositoryInterface,
	roster RosterClient,
) TaskServiceInterface {
	return &taskService{
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
		roster:         roster,
		now:            time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error) {
	if !actor.Role.CanReviewTasks() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "only mentors and admins may create tasks"}
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, &domain.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if input.DueDate.IsZero() {
		return nil, &domain.ValidationError{Field: "due_date", Reason: "is required"}
	}
	// Creation-time guard only; a stored due date may fall into the past as
	// time advances.
	if input.DueDate.Before(s.now()) {
		return nil, &domain.ValidationError{Field: "due_date", Reason: "must not be in the past"}
	}

	task := &domain.Task{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		DueDate:       input.DueDate,
		TargetMajors:  normalizeMajors(input.TargetMajors),
		RubricIDs:     input.RubricIDs,
		AttachmentIDs: input.AttachmentIDs,
		CreatedBy:     actor.ID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: id.String()}
		}
		return nil, err
	}
	return task, nil
}

// UpdateTask applies the set fields of the update. Editing a task that
// already has submissions is permitted; is_late flags recorded against the
// old due date are deliberately not recalculated.
func (s *taskService) UpdateTask(ctx context.Context, actor domain.Actor, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error) {
	if !actor.Role.CanReviewTasks() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "only mentors and admins may edit tasks"}
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: id.String()}
		}
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		if strings.TrimSpace(*update.Description) == "" {
			return nil, &domain.ValidationError{Field: "description", Reason: "must not be empty"}
		}
		task.Description = *update.Description
	}
	if update.DueDate != nil {
		if update.DueDate.IsZero() {
			return nil, &domain.ValidationError{Field: "due_date", Reason: "is required"}
		}
		task.DueDate = *update.DueDate
	}
	if update.TargetMajors != nil {
		task.TargetMajors = normalizeMajors(*update.TargetMajors)
	}
	if update.RubricIDs != nil {
		task.RubricIDs = *update.RubricIDs
	}
	if update.AttachmentIDs != nil {
		task.AttachmentIDs = *update.AttachmentIDs
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: id.String()}
		}
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. Deletion is blocked while any submission
// references the task; terminal records must be cleared administratively
// first.
func (s *taskService) DeleteTask(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if !actor.Role.CanReviewTasks() {
		return &domain.AuthorizationError{Role: actor.Role, Reason: "only mentors and admins may delete tasks"}
	}

	hasSubmissions, err := s.submissionRepo.HasAnyForTask(ctx, id)
	if err != nil {
		return err
	}
	if hasSubmissions {
		return &domain.InvalidStateError{
			Op:       "delete task",
			Current:  "task has submissions",
			Expected: "no submissions",
		}
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.NotFoundError{Resource: "task", ID: id.String()}
		}
		return err
	}
	return nil
}

// ListTasks returns all tasks for mentors and admins. Students only see the
// tasks that apply to them, scoped by their major and cohort.
func (s *taskService) ListTasks(ctx context.Context, actor domain.Actor) ([]*domain.Task, error) {
	if actor.Role != domain.UserRoleStudent {
		return s.taskRepo.List(ctx)
	}

	student, err := s.roster.GetStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.taskRepo.ListForStudent(ctx, student.Major, student.Cohort)
}

// normalizeMajors flattens the target filter into a clean OR set. Elements
// may themselves be comma-separated ("RPL,TKJ"); blanks are dropped.
func normalizeMajors(majors []string) []string {
	out := make([]string, 0, len(majors))
	for _, element := range majors {
		for _, m := range strings.Split(element, ",") {
			m = strings.TrimSpace(m)
			if m != "" {
				out = append(out, m)
			}
		}
	}
	return out
}
