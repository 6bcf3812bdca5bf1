package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"internship_service/internal/domain"
	"internship_service/internal/repository"
	"internship_service/internal/service"
	"internship_service/pkg/logger"
)

// ReminderWorker periodically publishes reminder events for assignees who
// still owe a submission on a task that is due soon. Delivery of the
// reminders is the notification service's problem; this worker only emits.
type ReminderWorker struct {
	taskRepo       repository.TaskRepositoryInterface
	submissionRepo repository.SubmissionRepositoryInterface
	resolver       *service.AssignmentResolver
	producer       service.EventProducer
	logger         *logger.Logger
	interval       time.Duration
	dueSoonWindow  time.Duration
}

func NewReminderWorker(
	taskRepo repository.TaskRepositoryInterface,
	submissionRepo repository.SubmissionRepositoryInterface,
	resolver *service.AssignmentResolver,
	producer service.EventProducer,
	logger *logger.Logger,
	interval time.Duration,
	dueSoonWindow time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		taskRepo:       taskRepo,
		submissionRepo: submissionRepo,
		resolver:       resolver,
		producer:       producer,
		logger:         logger,
		interval:       interval,
		dueSoonWindow:  dueSoonWindow,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.processReminders(ctx)
		}
	}
}

func (w *ReminderWorker) processReminders(ctx context.Context) {
	tasks, err := w.taskRepo.FindTasksDueSoon(ctx, w.dueSoonWindow)
	if err != nil {
		w.logger.Errorf("failed to get tasks due soon: %v", err)
		return
	}

	for _, task := range tasks {
		assignees, err := w.resolver.ResolveAssignees(ctx, task)
		if err != nil {
			w.logger.Errorf("failed to resolve assignees for task %s: %v", task.ID, err)
			continue
		}

		submissions, err := w.submissionRepo.ListByTask(ctx, task.ID)
		if err != nil {
			w.logger.Errorf("failed to list submissions for task %s: %v", task.ID, err)
			continue
		}
		statusByStudent := make(map[string]domain.SubmissionStatus, len(submissions))
		for _, submission := range submissions {
			statusByStudent[submission.StudentID.String()] = submission.Status
		}

		for _, student := range assignees {
			status, ok := statusByStudent[student.ID.String()]
			if ok && !status.CanSubmit() {
				continue
			}

			message := map[string]interface{}{
				"task_id":    task.ID,
				"student_id": student.ID,
				"due_date":   task.DueDate,
				"title":      task.Title,
			}
			if err := w.producer.Send(ctx, service.TopicTaskReminders, message); err != nil {
				w.logger.Errorf("failed to send reminder for task %s: %v", task.ID, err)
				continue
			}

			w.logger.Info("sent task reminder",
				zap.String("task_id", task.ID.String()),
				zap.String("student_id", student.ID.String()),
			)
		}
	}
}
