package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"internship_service/internal/domain"
)

type SubmissionRepository struct {
	db *sql.DB
}

type SubmissionRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetByPair(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Submission, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Submission, error)
	CountByStatus(ctx context.Context, taskID uuid.UUID) (map[domain.SubmissionStatus]int, error)
	HasAnyForTask(ctx context.Context, taskID uuid.UUID) (bool, error)
	Start(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Submission, error)
	SaveSubmitted(ctx context.Context, submission *domain.Submission) error
	ApplyReview(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewerID uuid.UUID, notes string, score *int) (*domain.Submission, error)
	DeleteDraft(ctx context.Context, taskID, studentID uuid.UUID) error
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, task_id, student_id, status, note, submitted_at, is_late, reviewed_at, reviewer_id, review_notes, score, created_at, edited_at`

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if err := r.loadFiles(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *SubmissionRepository) GetByPair(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE task_id = $1 AND student_id = $2`

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query, taskID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if err := r.loadFiles(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *SubmissionRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE task_id = $1 ORDER BY student_id`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var submissions []*domain.Submission
	byID := make(map[uuid.UUID]*domain.Submission)
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, submission)
		byID[submission.ID] = submission
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(submissions) == 0 {
		return submissions, nil
	}

	filesQuery := `
		SELECT f.submission_id, f.url, f.filename, f.size_bytes, f.mime_type
		FROM submission_files f
		JOIN submissions s ON s.id = f.submission_id
		WHERE s.task_id = $1
		ORDER BY f.position
	`
	fileRows, err := r.db.QueryContext(ctx, filesQuery, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission files: %w", err)
	}
	defer func() { _ = fileRows.Close() }()

	for fileRows.Next() {
		var (
			submissionID uuid.UUID
			file         domain.SubmissionFile
		)
		if err := fileRows.Scan(&submissionID, &file.URL, &file.Filename, &file.SizeBytes, &file.MimeType); err != nil {
			return nil, fmt.Errorf("failed to scan submission file: %w", err)
		}
		if s, ok := byID[submissionID]; ok {
			s.Files = append(s.Files, file)
		}
	}
	if err := fileRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return submissions, nil
}

func (r *SubmissionRepository) CountByStatus(ctx context.Context, taskID uuid.UUID) (map[domain.SubmissionStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM submissions WHERE task_id = $1 GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.SubmissionStatus]int)
	for rows.Next() {
		var (
			status domain.SubmissionStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return counts, nil
}

func (r *SubmissionRepository) HasAnyForTask(ctx context.Context, taskID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE task_id = $1)`, taskID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check submissions: %w", err)
	}
	return exists, nil
}

// Start records that the student has begun the task. Starting an already
// in-progress task is a no-op; any other existing status is a conflict.
func (r *SubmissionRepository) Start(ctx context.Context, taskID, studentID uuid.UUID) (*domain.Submission, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}

	query := `
		INSERT INTO submissions (id, task_id, student_id, status, is_late, created_at, edited_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $5)
		ON CONFLICT (task_id, student_id) DO NOTHING
		RETURNING ` + submissionColumns

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query,
		id, taskID, studentID, domain.StatusInProgress, time.Now(),
	))
	if err == nil {
		return submission, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to start submission: %w", err)
	}

	// Row already exists; only in_progress is acceptable.
	existing, err := r.GetByPair(ctx, taskID, studentID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusInProgress {
		return nil, &StateConflictError{Current: existing.Status}
	}
	return existing, nil
}

// SaveSubmitted writes the submitted state for a (task, student) pair. The
// insert-or-update is conditional on the current status still permitting a
// submit, so a racing write against a submitted or approved row loses with a
// StateConflictError and the ledger is left untouched. Prior files and any
// earlier review verdict are replaced wholesale.
func (r *SubmissionRepository) SaveSubmitted(ctx context.Context, submission *domain.Submission) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	query := `
		INSERT INTO submissions
			(id, task_id, student_id, status, note, submitted_at, is_late, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (task_id, student_id) DO UPDATE
		SET status = EXCLUDED.status,
		    note = EXCLUDED.note,
		    submitted_at = EXCLUDED.submitted_at,
		    is_late = EXCLUDED.is_late,
		    reviewed_at = NULL,
		    reviewer_id = NULL,
		    review_notes = NULL,
		    score = NULL,
		    edited_at = EXCLUDED.edited_at
		WHERE submissions.status IN ($9, $10)
		RETURNING id, created_at
	`

	var (
		rowID     uuid.UUID
		createdAt time.Time
	)
	err = tx.QueryRowContext(ctx, query,
		id,
		submission.TaskID,
		submission.StudentID,
		domain.StatusSubmitted,
		submission.Note,
		submission.SubmittedAt,
		submission.IsLate,
		time.Now(),
		domain.StatusInProgress,
		domain.StatusRejected,
	).Scan(&rowID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.submitConflict(ctx, submission.TaskID, submission.StudentID)
		}
		return fmt.Errorf("failed to upsert submission: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM submission_files WHERE submission_id = $1`, rowID,
	); err != nil {
		return fmt.Errorf("failed to clear submission files: %w", err)
	}

	fileQuery := `
		INSERT INTO submission_files (submission_id, position, url, filename, size_bytes, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, file := range submission.Files {
		if _, err := tx.ExecContext(ctx, fileQuery,
			rowID, i, file.URL, file.Filename, file.SizeBytes, file.MimeType,
		); err != nil {
			return fmt.Errorf("failed to insert submission file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	submission.ID = rowID
	submission.Status = domain.StatusSubmitted
	submission.CreatedAt = createdAt
	submission.ReviewedAt = nil
	submission.ReviewerID = nil
	submission.ReviewNotes = nil
	submission.Score = nil
	return nil
}

func (r *SubmissionRepository) submitConflict(ctx context.Context, taskID, studentID uuid.UUID) error {
	existing, err := r.GetByPair(ctx, taskID, studentID)
	if err != nil {
		return err
	}
	return &StateConflictError{Current: existing.Status}
}

// ApplyReview records a mentor decision. The update is conditional on the row
// still being in submitted status so that of two concurrent review calls at
// most one verdict is recorded; the loser gets a StateConflictError.
func (r *SubmissionRepository) ApplyReview(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus, reviewerID uuid.UUID, notes string, score *int) (*domain.Submission, error) {
	query := `
		UPDATE submissions
		SET status = $2, reviewed_at = $3, reviewer_id = $4, review_notes = $5, score = $6, edited_at = $3
		WHERE id = $1 AND status = $7
		RETURNING ` + submissionColumns

	submission, err := scanSubmission(r.db.QueryRowContext(ctx, query,
		id, status, time.Now(), reviewerID, notes, score, domain.StatusSubmitted,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var current domain.SubmissionStatus
			err := r.db.QueryRowContext(ctx, `SELECT status FROM submissions WHERE id = $1`, id).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			if err != nil {
				return nil, fmt.Errorf("failed to get submission status: %w", err)
			}
			return nil, &StateConflictError{Current: current}
		}
		return nil, fmt.Errorf("failed to apply review: %w", err)
	}

	if err := r.loadFiles(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// DeleteDraft removes an in_progress row. Submitted and reviewed records are
// not deletable through the student path.
func (r *SubmissionRepository) DeleteDraft(ctx context.Context, taskID, studentID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE task_id = $1 AND student_id = $2 AND status = $3`,
		taskID, studentID, domain.StatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return r.submitConflict(ctx, taskID, studentID)
	}
	return nil
}

func (r *SubmissionRepository) loadFiles(ctx context.Context, submission *domain.Submission) error {
	query := `
		SELECT url, filename, size_bytes, mime_type
		FROM submission_files
		WHERE submission_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, submission.ID)
	if err != nil {
		return fmt.Errorf("failed to query submission files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var file domain.SubmissionFile
		if err := rows.Scan(&file.URL, &file.Filename, &file.SizeBytes, &file.MimeType); err != nil {
			return fmt.Errorf("failed to scan submission file: %w", err)
		}
		submission.Files = append(submission.Files, file)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var submission domain.Submission
	err := row.Scan(
		&submission.ID,
		&submission.TaskID,
		&submission.StudentID,
		&submission.Status,
		&submission.Note,
		&submission.SubmittedAt,
		&submission.IsLate,
		&submission.ReviewedAt,
		&submission.ReviewerID,
		&submission.ReviewNotes,
		&submission.Score,
		&submission.CreatedAt,
		&submission.EditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}
