package httpapi

import (
	"time"

	"github.com/google/uuid"

	"internship_service/internal/domain"
)

type taskResponse struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	DueDate       time.Time   `json:"due_date"`
	TargetMajors  []string    `json:"target_majors"`
	RubricIDs     []uuid.UUID `json:"rubric_ids"`
	AttachmentIDs []uuid.UUID `json:"attachment_ids"`
	CreatedBy     uuid.UUID   `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	EditedAt      time.Time   `json:"edited_at"`
}

func toTaskResponse(task *domain.Task) taskResponse {
	return taskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		DueDate:       task.DueDate,
		TargetMajors:  task.TargetMajors,
		RubricIDs:     task.RubricIDs,
		AttachmentIDs: task.AttachmentIDs,
		CreatedBy:     task.CreatedBy,
		CreatedAt:     task.CreatedAt,
		EditedAt:      task.EditedAt,
	}
}

type submissionResponse struct {
	ID          uuid.UUID              `json:"id"`
	TaskID      uuid.UUID              `json:"task_id"`
	StudentID   uuid.UUID              `json:"student_id"`
	Status      domain.SubmissionStatus `json:"status"`
	Note        *string                `json:"note,omitempty"`
	Files       []filePayload          `json:"files"`
	SubmittedAt *time.Time             `json:"submitted_at,omitempty"`
	IsLate      bool                   `json:"is_late"`
	ReviewedAt  *time.Time             `json:"reviewed_at,omitempty"`
	ReviewerID  *uuid.UUID             `json:"reviewer_id,omitempty"`
	ReviewNotes *string                `json:"review_notes,omitempty"`
	Score       *int                   `json:"score,omitempty"`
}

func toSubmissionResponse(submission *domain.Submission) submissionResponse {
	return submissionResponse{
		ID:          submission.ID,
		TaskID:      submission.TaskID,
		StudentID:   submission.StudentID,
		Status:      submission.Status,
		Note:        submission.Note,
		Files:       toFilePayloads(submission.Files),
		SubmittedAt: submission.SubmittedAt,
		IsLate:      submission.IsLate,
		ReviewedAt:  submission.ReviewedAt,
		ReviewerID:  submission.ReviewerID,
		ReviewNotes: submission.ReviewNotes,
		Score:       submission.Score,
	}
}

type studentTaskViewResponse struct {
	TaskID     uuid.UUID               `json:"task_id"`
	StudentID  uuid.UUID               `json:"student_id"`
	Status     domain.SubmissionStatus `json:"status"`
	DueDate    time.Time               `json:"due_date"`
	IsLate         bool                `json:"is_late"`
	AttachmentURLs []string            `json:"attachment_urls,omitempty"`
	Submission     *submissionResponse `json:"submission,omitempty"`
}

func toStudentTaskViewResponse(view *domain.StudentTaskView) studentTaskViewResponse {
	out := studentTaskViewResponse{
		TaskID:         view.TaskID,
		StudentID:      view.StudentID,
		Status:         view.Status,
		DueDate:        view.DueDate,
		IsLate:         view.IsLate,
		AttachmentURLs: view.AttachmentURLs,
	}
	if view.Submission != nil {
		submission := toSubmissionResponse(view.Submission)
		out.Submission = &submission
	}
	return out
}

type submissionSummaryResponse struct {
	StudentID   uuid.UUID               `json:"student_id"`
	StudentCode string                  `json:"student_code"`
	StudentName string                  `json:"student_name"`
	Status      domain.SubmissionStatus `json:"status"`
	IsLate      bool                    `json:"is_late"`
	SubmittedAt *time.Time              `json:"submitted_at,omitempty"`
	Score       *int                    `json:"score,omitempty"`
	Files       []filePayload           `json:"files"`
}

func toSubmissionSummaryResponse(summary domain.SubmissionSummary) submissionSummaryResponse {
	return submissionSummaryResponse{
		StudentID:   summary.StudentID,
		StudentCode: summary.StudentCode,
		StudentName: summary.StudentName,
		Status:      summary.Status,
		IsLate:      summary.IsLate,
		SubmittedAt: summary.SubmittedAt,
		Score:       summary.Score,
		Files:       toFilePayloads(summary.Files),
	}
}

func toFilePayloads(files []domain.SubmissionFile) []filePayload {
	out := make([]filePayload, len(files))
	for i, f := range files {
		out[i] = filePayload{
			URL:       f.URL,
			Filename:  f.Filename,
			SizeBytes: f.SizeBytes,
			MimeType:  f.MimeType,
		}
	}
	return out
}
