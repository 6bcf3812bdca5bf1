package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"internship_service/internal/domain"
)

func rosterOf(students ...domain.Student) *mockRoster {
	roster := new(mockRoster)
	roster.On("ListActiveStudents", mock.Anything).Return(students, nil)
	return roster
}

func TestResolveAssignees(t *testing.T) {
	informatics := domain.Student{ID: uuid.New(), Code: "S-001", Name: "Budi", Major: "Informatics", Active: true}
	design := domain.Student{ID: uuid.New(), Code: "S-002", Name: "Sari", Major: "Design", Active: true}
	inactive := domain.Student{ID: uuid.New(), Code: "S-003", Name: "Tono", Major: "Informatics", Active: false}

	t.Run("GeneralTaskCoversAllActiveStudents", func(t *testing.T) {
		resolver := NewAssignmentResolver(rosterOf(informatics, design, inactive))

		assignees, err := resolver.ResolveAssignees(context.Background(), &domain.Task{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Student{informatics, design}, assignees)
	})

	t.Run("TargetedTaskFiltersByMajor", func(t *testing.T) {
		resolver := NewAssignmentResolver(rosterOf(informatics, design))

		assignees, err := resolver.ResolveAssignees(context.Background(), &domain.Task{
			TargetMajors: []string{"Informatics"},
		})
		require.NoError(t, err)
		require.Len(t, assignees, 1)
		assert.Equal(t, informatics.ID, assignees[0].ID)
	})

	t.Run("NoMatchingMajors", func(t *testing.T) {
		resolver := NewAssignmentResolver(rosterOf(informatics, design))

		assignees, err := resolver.ResolveAssignees(context.Background(), &domain.Task{
			TargetMajors: []string{"Business"},
		})
		require.NoError(t, err)
		assert.Empty(t, assignees)
	})

	t.Run("RosterError", func(t *testing.T) {
		roster := new(mockRoster)
		roster.On("ListActiveStudents", mock.Anything).Return(nil, errors.New("roster unavailable"))
		resolver := NewAssignmentResolver(roster)

		_, err := resolver.ResolveAssignees(context.Background(), &domain.Task{})
		assert.Error(t, err)
	})
}
