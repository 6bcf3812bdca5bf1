package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
	"internship_service/internal/repository/mocks"
	"internship_service/pkg/logger"
)

func newReviewService(t *testing.T) (ReviewServiceInterface, *mocks.SubmissionRepository, *mockProducer) {
	t.Helper()
	submissionRepo := new(mocks.SubmissionRepository)
	producer := new(mockProducer)
	svc := NewReviewService(submissionRepo, producer, logger.NewNop())
	return svc, submissionRepo, producer
}

func TestReview(t *testing.T) {
	submissionID := uuid.New()
	notes := "Revisi sudah baik, diterima."

	t.Run("Approve", func(t *testing.T) {
		svc, submissionRepo, producer := newReviewService(t)
		mentor := mentorActor()
		score := 85

		submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusApproved,
			mentor.ID, notes, &score).
			Return(&domain.Submission{
				ID: submissionID, Status: domain.StatusApproved, Score: &score, ReviewNotes: &notes,
			}, nil)
		producer.On("Send", mock.Anything, TopicSubmissionEvents, mock.Anything).Return(nil)

		submission, err := svc.Review(context.Background(), mentor, submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Score:    &score,
			Notes:    notes,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, submission.Status)
		require.NotNil(t, submission.Score)
		assert.Equal(t, 85, *submission.Score)
		producer.AssertExpectations(t)
	})

	t.Run("RejectCarriesNoScore", func(t *testing.T) {
		svc, submissionRepo, producer := newReviewService(t)
		mentor := mentorActor()
		rejectNotes := "Perlu revisi pada bagian pengujian"

		submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusRejected,
			mentor.ID, rejectNotes, (*int)(nil)).
			Return(&domain.Submission{
				ID: submissionID, Status: domain.StatusRejected, ReviewNotes: &rejectNotes,
			}, nil)
		producer.On("Send", mock.Anything, TopicSubmissionEvents, mock.Anything).Return(nil)

		submission, err := svc.Review(context.Background(), mentor, submissionID, domain.ReviewDecision{
			Decision: domain.DecisionReject,
			Notes:    rejectNotes,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, submission.Status)
		assert.Nil(t, submission.Score)
	})

	t.Run("AdminMayReview", func(t *testing.T) {
		svc, submissionRepo, producer := newReviewService(t)
		admin := domain.Actor{ID: uuid.New(), Role: domain.UserRoleAdmin}
		score := 70

		submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusApproved,
			admin.ID, notes, &score).
			Return(&domain.Submission{ID: submissionID, Status: domain.StatusApproved, Score: &score}, nil)
		producer.On("Send", mock.Anything, TopicSubmissionEvents, mock.Anything).Return(nil)

		_, err := svc.Review(context.Background(), admin, submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Score:    &score,
			Notes:    notes,
		})
		assert.NoError(t, err)
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		svc, _, _ := newReviewService(t)

		_, err := svc.Review(context.Background(), studentActor(), submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Notes:    notes,
		})
		var authErr *domain.AuthorizationError
		assert.ErrorAs(t, err, &authErr)
	})

	t.Run("NotesTooShort", func(t *testing.T) {
		svc, _, _ := newReviewService(t)
		score := 85

		_, err := svc.Review(context.Background(), mentorActor(), submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Score:    &score,
			Notes:    "ok",
		})
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "notes", valErr.Field)
	})

	t.Run("ApproveWithoutScore", func(t *testing.T) {
		svc, _, _ := newReviewService(t)

		_, err := svc.Review(context.Background(), mentorActor(), submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Notes:    notes,
		})
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "score", valErr.Field)
	})

	t.Run("ScoreOutOfRange", func(t *testing.T) {
		svc, _, _ := newReviewService(t)
		score := 101

		_, err := svc.Review(context.Background(), mentorActor(), submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Score:    &score,
			Notes:    notes,
		})
		var valErr *domain.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("UnknownDecision", func(t *testing.T) {
		svc, _, _ := newReviewService(t)

		_, err := svc.Review(context.Background(), mentorActor(), submissionID, domain.ReviewDecision{
			Decision: "defer",
			Notes:    notes,
		})
		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "decision", valErr.Field)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, submissionRepo, _ := newReviewService(t)
		mentor := mentorActor()
		score := 85

		submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusApproved,
			mentor.ID, notes, &score).
			Return(nil, repository.ErrNotFound)

		_, err := svc.Review(context.Background(), mentor, submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Score:    &score,
			Notes:    notes,
		})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})

	t.Run("NotAwaitingReview", func(t *testing.T) {
		svc, submissionRepo, _ := newReviewService(t)
		mentor := mentorActor()
		score := 85

		submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusApproved,
			mentor.ID, notes, &score).
			Return(nil, &repository.StateConflictError{Current: domain.StatusInProgress})

		_, err := svc.Review(context.Background(), mentor, submissionID, domain.ReviewDecision{
			Decision: domain.DecisionApprove,
			Score:    &score,
			Notes:    notes,
		})
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, string(domain.StatusInProgress), stateErr.Current)
	})
}

// TestReviewConcurrentVerdicts drives two reviewers at one submitted row.
// The conditional storage update accepts the first verdict and refuses the
// second, so decisions never silently overwrite each other.
func TestReviewConcurrentVerdicts(t *testing.T) {
	svc, submissionRepo, producer := newReviewService(t)
	submissionID := uuid.New()
	first := mentorActor()
	second := mentorActor()
	score := 90
	notes := "Hasil sudah sesuai ekspektasi"

	submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusApproved,
		first.ID, notes, &score).
		Return(&domain.Submission{ID: submissionID, Status: domain.StatusApproved, Score: &score}, nil).
		Once()
	submissionRepo.On("ApplyReview", mock.Anything, submissionID, domain.StatusRejected,
		second.ID, notes, (*int)(nil)).
		Return(nil, &repository.StateConflictError{Current: domain.StatusApproved}).
		Once()
	producer.On("Send", mock.Anything, TopicSubmissionEvents, mock.Anything).Return(nil)

	_, err := svc.Review(context.Background(), first, submissionID, domain.ReviewDecision{
		Decision: domain.DecisionApprove,
		Score:    &score,
		Notes:    notes,
	})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), second, submissionID, domain.ReviewDecision{
		Decision: domain.DecisionReject,
		Notes:    notes,
	})
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(domain.StatusApproved), stateErr.Current)
	producer.AssertNumberOfCalls(t, "Send", 1)
}
