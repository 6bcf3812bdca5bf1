package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
	"internship_service/pkg/logger"
)

type ReviewServiceInterface interface {
	Review(ctx context.Context, actor domain.Actor, submissionID uuid.UUID, decision domain.ReviewDecision) (*domain.Submission, error)
}

type reviewService struct {
	submissionRepo repository.SubmissionRepositoryInterface
	producer       EventProducer
	log            *logger.Logger
}

func NewReviewService(
	submissionRepo repository.SubmissionRepositoryInterface,
	producer EventProducer,
	log *logger.Logger,
) ReviewServiceInterface {
	return &reviewService{
		submissionRepo: submissionRepo,
		producer:       producer,
		log:            log,
	}
}

// Review applies a mentor decision to a submitted deliverable. The storage
// update only fires while the row is still in submitted status, so of two
// concurrent review calls exactly one verdict lands; the other fails with an
// InvalidStateError instead of silently overwriting.
func (s *reviewService) Review(ctx context.Context, actor domain.Actor, submissionID uuid.UUID, decision domain.ReviewDecision) (*domain.Submission, error) {
	if !actor.Role.CanReviewTasks() {
		return nil, &domain.AuthorizationError{Role: actor.Role, Reason: "only mentors and admins may review submissions"}
	}

	if len(decision.Notes) < domain.MinReviewNotesLen {
		return nil, &domain.ValidationError{Field: "notes", Reason: "must be at least 10 characters"}
	}

	var (
		status domain.SubmissionStatus
		score  *int
	)
	switch decision.Decision {
	case domain.DecisionApprove:
		if decision.Score == nil {
			return nil, &domain.ValidationError{Field: "score", Reason: "is required for an approval"}
		}
		if *decision.Score < 0 || *decision.Score > 100 {
			return nil, &domain.ValidationError{Field: "score", Reason: "must be between 0 and 100"}
		}
		status = domain.StatusApproved
		score = decision.Score
	case domain.DecisionReject:
		// Rejections carry notes but no numeric score.
		status = domain.StatusRejected
	default:
		return nil, &domain.ValidationError{Field: "decision", Reason: "must be approve or reject"}
	}

	submission, err := s.submissionRepo.ApplyReview(ctx, submissionID, status, actor.ID, decision.Notes, score)
	if err != nil {
		return nil, mapStateErr(err, "review", "submission", submissionID.String(), domain.StatusSubmitted)
	}

	s.publish(ctx, submission)
	return submission, nil
}

func (s *reviewService) publish(ctx context.Context, submission *domain.Submission) {
	message := map[string]interface{}{
		"event":      "submission.reviewed",
		"task_id":    submission.TaskID,
		"student_id": submission.StudentID,
		"status":     submission.Status,
		"score":      submission.Score,
	}
	if err := s.producer.Send(ctx, TopicSubmissionEvents, message); err != nil {
		s.log.Warn("failed to publish review event",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
	}
}
