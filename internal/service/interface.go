package service

import (
	"context"

	"github.com/google/uuid"

	"internship_service/internal/domain"
)

// RosterClient resolves the student population from the student service.
type RosterClient interface {
	ListActiveStudents(ctx context.Context) ([]domain.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

// FileClient resolves download URLs for file-service references attached to
// tasks.
type FileClient interface {
	GetFileURL(ctx context.Context, fileID uuid.UUID) (string, error)
}

// EventProducer publishes lifecycle events for downstream consumers
// (notification service, audit). Delivery is best-effort; a failed publish
// never fails the triggering operation.
type EventProducer interface {
	Send(ctx context.Context, topic string, message interface{}) error
}

const (
	TopicSubmissionEvents = "submission-events"
	TopicTaskReminders    = "task-reminders"
)
