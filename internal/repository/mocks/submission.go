package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"internship_service/internal/domain"
)

type SubmissionRepository struct {
	mock.Mock
}

func (m *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *SubmissionRepository) GetByPair(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, taskID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *SubmissionRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Submission, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Submission), args.Error(1)
}

func (m *SubmissionRepository) CountByStatus(ctx context.Context, taskID uuid.UUID) (map[domain.SubmissionStatus]int, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SubmissionStatus]int), args.Error(1)
}

func (m *SubmissionRepository) HasAnyForTask(ctx context.Context, taskID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *SubmissionRepository) Start(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, taskID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *SubmissionRepository) SaveSubmitted(ctx context.Context, submission *domain.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *SubmissionRepository) ApplyReview(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewerID uuid.UUID, notes string, score *int) (*domain.Submission, error) {
	args := m.Called(ctx, id, status, reviewerID, notes, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *SubmissionRepository) DeleteDraft(ctx context.Context, taskID, studentID uuid.UUID) error {
	args := m.Called(ctx, taskID, studentID)
	return args.Error(0)
}
