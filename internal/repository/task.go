package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"internship_service/internal/domain"
)

type TaskRepository struct {
	db *sql.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Task, error)
	ListForStudent(ctx context.Context, major, cohort string) ([]*domain.Task, error)
	FindTasksDueSoon(ctx context.Context, within time.Duration) ([]*domain.Task, error)
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, due_date, target_majors, rubric_ids, attachment_ids, created_by, created_at, edited_at`

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		task.Title,
		task.Description,
		task.DueDate,
		pq.Array(task.TargetMajors),
		pq.Array(uuidStrings(task.RubricIDs)),
		pq.Array(uuidStrings(task.AttachmentIDs)),
		task.CreatedBy,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	task.ID = id
	task.CreatedAt = now
	task.EditedAt = now
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, target_majors = $4,
		    rubric_ids = $5, attachment_ids = $6, edited_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		pq.Array(task.TargetMajors),
		pq.Array(uuidStrings(task.RubricIDs)),
		pq.Array(uuidStrings(task.AttachmentIDs)),
		time.Now(),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY due_date`
	return r.queryTasks(ctx, query)
}

// ListForStudent returns general tasks plus tasks whose target set matches the
// student's major or cohort.
func (r *TaskRepository) ListForStudent(ctx context.Context, major, cohort string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE cardinality(target_majors) = 0
			OR $1 = ANY(target_majors)
			OR ($2 <> '' AND $2 = ANY(target_majors))
		ORDER BY due_date
	`
	return r.queryTasks(ctx, query, major, cohort)
}

func (r *TaskRepository) FindTasksDueSoon(ctx context.Context, within time.Duration) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date BETWEEN NOW() AND $1
		ORDER BY due_date
	`
	return r.queryTasks(ctx, query, time.Now().Add(within))
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		majors        pq.StringArray
		rubricIDs     pq.StringArray
		attachmentIDs pq.StringArray
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&majors,
		&rubricIDs,
		&attachmentIDs,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.EditedAt,
	)
	if err != nil {
		return nil, err
	}

	task.TargetMajors = majors
	if task.RubricIDs, err = parseUUIDs(rubricIDs); err != nil {
		return nil, err
	}
	if task.AttachmentIDs, err = parseUUIDs(attachmentIDs); err != nil {
		return nil, err
	}
	return &task, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q: %w", s, err)
		}
		out[i] = id
	}
	return out, nil
}
