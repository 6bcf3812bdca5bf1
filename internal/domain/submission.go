package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a student's latest deliverable for one task. There is at most
// one row per (task, student) pair; a resubmission overwrites the previous
// content rather than adding a new row. The todo state is represented by the
// absence of a row.
type Submission struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	StudentID   uuid.UUID
	Status      SubmissionStatus
	Note        *string
	Files       []SubmissionFile
	SubmittedAt *time.Time
	IsLate      bool
	ReviewedAt  *time.Time
	ReviewerID  *uuid.UUID
	ReviewNotes *string
	Score       *int
	CreatedAt   time.Time
	EditedAt    time.Time
}

// SubmissionFile is a file reference returned by the upload service.
type SubmissionFile struct {
	URL       string
	Filename  string
	SizeBytes int64
	MimeType  string
}

// ReviewDecision is a mentor's verdict on a submitted deliverable. Score is
// required for an approval and ignored for a rejection.
type ReviewDecision struct {
	Decision Decision
	Score    *int
	Notes    string
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// MinReviewNotesLen is the shortest review note a mentor may leave.
const MinReviewNotesLen = 10

// TaskStats are the per-task monitoring counts. The buckets partition the
// resolved assignee population: Total == Todo + InProgress + Submitted +
// Approved + Rejected.
type TaskStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Submitted  int `json:"submitted"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

// SubmissionSummary is one dashboard row: a resolved assignee together with
// whatever submission they have on record, student identity denormalized from
// the roster.
type SubmissionSummary struct {
	StudentID   uuid.UUID
	StudentCode string
	StudentName string
	Status      SubmissionStatus
	IsLate      bool
	SubmittedAt *time.Time
	Score       *int
	Files       []SubmissionFile
}

// StudentTaskView is what a single student sees for a single task.
type StudentTaskView struct {
	TaskID         uuid.UUID
	StudentID      uuid.UUID
	Status         SubmissionStatus
	DueDate        time.Time
	IsLate         bool
	AttachmentURLs []string
	Submission     *Submission
}
