package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
	"internship_service/pkg/logger"
)

type SubmissionServiceInterface interface {
	Start(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Submission, error)
	Submit(ctx context.Context, actor domain.Actor, taskID uuid.UUID, files []domain.SubmissionFile, note *string) (*domain.Submission, error)
	DeleteDraft(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error
	GetStudentTaskView(ctx context.Context, actor domain.Actor, taskID, studentID uuid.UUID) (*domain.StudentTaskView, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepositoryInterface
	taskRepo       repository.TaskRepositoryInterface
	roster         RosterClient
	files          FileClient
	producer       EventProducer
	log            *logger.Logger
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	roster RosterClient,
	files FileClient,
	producer EventProducer,
	log *logger.Logger,
) SubmissionServiceInterface {
	return &submissionService{
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		roster:         roster,
		files:          files,
		producer:       producer,
		log:            log,
		now:            time.Now,
	}
}

// Start marks the task as begun for the acting student. It is the only way a
// row enters in_progress; submitting straight from todo is equally valid.
func (s *submissionService) Start(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Submission, error) {
	task, err := s.requireAssignedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.Start(ctx, task.ID, actor.ID)
	if err != nil {
		return nil, mapStateErr(err, "start task", "submission", taskID.String(),
			domain.StatusTodo, domain.StatusInProgress)
	}
	return submission, nil
}

// Submit records the student's deliverable, replacing any prior content for
// this (task, student) pair. Permitted from todo, in_progress and rejected;
// submitted rows belong to the reviewer and approved is terminal. The call is
// all-or-nothing: on any precondition violation the ledger is unchanged.
func (s *submissionService) Submit(ctx context.Context, actor domain.Actor, taskID uuid.UUID, files []domain.SubmissionFile, note *string) (*domain.Submission, error) {
	if len(files) == 0 {
		return nil, &domain.ValidationError{Field: "files", Reason: "at least one file is required"}
	}
	for _, file := range files {
		if file.URL == "" {
			return nil, &domain.ValidationError{Field: "files", Reason: "file url must not be empty"}
		}
	}

	task, err := s.requireAssignedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	submittedAt := s.now()
	submission := &domain.Submission{
		TaskID:      task.ID,
		StudentID:   actor.ID,
		Status:      domain.StatusSubmitted,
		Note:        note,
		Files:       files,
		SubmittedAt: &submittedAt,
		// Always against the original due date: a resubmission after a
		// rejection gets no grace reset.
		IsLate: domain.IsLate(submittedAt, task.DueDate),
	}

	if err := s.submissionRepo.SaveSubmitted(ctx, submission); err != nil {
		return nil, mapStateErr(err, "submit", "submission", taskID.String(),
			domain.StatusTodo, domain.StatusInProgress, domain.StatusRejected)
	}

	s.publish(ctx, "submission.submitted", submission)
	return submission, nil
}

// DeleteDraft removes the student's in_progress row. Submitted and reviewed
// records cannot be removed through the student path.
func (s *submissionService) DeleteDraft(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error {
	if actor.Role != domain.UserRoleStudent {
		return &domain.AuthorizationError{Role: actor.Role, Reason: "only students may delete their drafts"}
	}

	err := s.submissionRepo.DeleteDraft(ctx, taskID, actor.ID)
	if err != nil {
		return mapStateErr(err, "delete draft", "submission", taskID.String(), domain.StatusInProgress)
	}
	return nil
}

// GetStudentTaskView reports one task's state for one student. A pair with
// no submission row reads as todo; the sparse representation never
// materializes todo rows.
func (s *submissionService) GetStudentTaskView(ctx context.Context, actor domain.Actor, taskID, studentID uuid.UUID) (*domain.StudentTaskView, error) {
	if actor.Role == domain.UserRoleStudent && actor.ID != studentID {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "students may only view their own tasks"}
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: taskID.String()}
		}
		return nil, err
	}

	view := &domain.StudentTaskView{
		TaskID:         task.ID,
		StudentID:      studentID,
		Status:         domain.StatusTodo,
		DueDate:        task.DueDate,
		AttachmentURLs: s.attachmentURLs(ctx, task),
	}

	submission, err := s.submissionRepo.GetByPair(ctx, taskID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view, nil
		}
		return nil, err
	}

	view.Status = submission.Status
	view.IsLate = submission.IsLate
	view.Submission = submission
	return view, nil
}

// attachmentURLs resolves download URLs for the task's attachments. A
// failed lookup drops that attachment from the view rather than failing the
// whole read; the links are presigned and regenerated on every call anyway.
func (s *submissionService) attachmentURLs(ctx context.Context, task *domain.Task) []string {
	if len(task.AttachmentIDs) == 0 {
		return nil
	}
	urls := make([]string, 0, len(task.AttachmentIDs))
	for _, fileID := range task.AttachmentIDs {
		url, err := s.files.GetFileURL(ctx, fileID)
		if err != nil {
			s.log.Warn("failed to resolve attachment url",
				zap.String("task_id", task.ID.String()),
				zap.String("file_id", fileID.String()),
				zap.Error(err),
			)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// requireAssignedTask checks the actor is a student the task actually
// applies to and returns the task.
func (s *submissionService) requireAssignedTask(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	if actor.Role != domain.UserRoleStudent {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "only students may work on tasks"}
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "task", ID: taskID.String()}
		}
		return nil, err
	}

	student, err := s.roster.GetStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, &domain.NotFoundError{Resource: "student", ID: actor.ID.String()}
	}
	if !student.Active || !task.AppliesTo(student.Major, student.Cohort) {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "task is not assigned to this student"}
	}
	return task, nil
}

func (s *submissionService) publish(ctx context.Context, event string, submission *domain.Submission) {
	message := map[string]interface{}{
		"event":      event,
		"task_id":    submission.TaskID,
		"student_id": submission.StudentID,
		"status":     submission.Status,
		"is_late":    submission.IsLate,
	}
	if err := s.producer.Send(ctx, TopicSubmissionEvents, message); err != nil {
		s.log.Warn("failed to publish submission event",
			zap.String("event", event),
			zap.String("task_id", submission.TaskID.String()),
			zap.Error(err),
		)
	}
}
