package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship_service/internal/domain"
)

func newTaskRepo(t *testing.T) (*TaskRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTaskRepository(db), mock
}

func taskRow(id uuid.UUID, title, majors string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "due_date", "target_majors",
		"rubric_ids", "attachment_ids", "created_by", "created_at", "edited_at",
	}).AddRow(id.String(), title, "description", now.Add(24*time.Hour),
		majors, "{}", "{}", uuid.New().String(), now, now)
}

func TestTaskRepositoryCreate(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectExec("INSERT INTO tasks").
		WillReturnResult(sqlmock.NewResult(0, 1))

	task := &domain.Task{
		Title:        "Weekly report",
		Description:  "Summarize the week",
		DueDate:      time.Now().Add(7 * 24 * time.Hour),
		TargetMajors: []string{"Informatics"},
		CreatedBy:    uuid.New(),
	}
	err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskRepositoryGetByID(t *testing.T) {
	t.Run("ParsesArrayColumns", func(t *testing.T) {
		repo, mock := newTaskRepo(t)
		id := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id").
			WithArgs(id).
			WillReturnRows(taskRow(id, "Weekly report", `{Informatics,Design}`))

		task, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, []string{"Informatics", "Design"}, task.TargetMajors)
		assert.Empty(t, task.RubricIDs)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newTaskRepo(t)
		id := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskRepositoryUpdate(t *testing.T) {
	t.Run("NotFoundWhenNoRowMatches", func(t *testing.T) {
		repo, mock := newTaskRepo(t)

		mock.ExpectExec("UPDATE tasks").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &domain.Task{ID: uuid.New(), Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskRepositoryDelete(t *testing.T) {
	t.Run("Deletes", func(t *testing.T) {
		repo, mock := newTaskRepo(t)
		id := uuid.New()

		mock.ExpectExec("DELETE FROM tasks").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newTaskRepo(t)

		mock.ExpectExec("DELETE FROM tasks").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrNotFound)
	})
}

func TestTaskRepositoryListForStudent(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM tasks").
		WithArgs("Informatics", "2024A").
		WillReturnRows(taskRow(uuid.New(), "Weekly report", "{}"))

	tasks, err := repo.ListForStudent(context.Background(), "Informatics", "2024A")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsGeneral())
}
