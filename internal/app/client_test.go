package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship_service/internal/domain"
)

func TestRosterClientListActiveStudents(t *testing.T) {
	t.Run("DecodesRoster", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/students", r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("active"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":"018e4b12-0000-7000-8000-000000000001","code":"S-001","name":"Budi","major":"Informatics","cohort":"2024A","active":true},
				{"id":"018e4b12-0000-7000-8000-000000000002","code":"S-002","name":"Sari","major":"Design","cohort":"2024A","active":true}
			]`))
		}))
		defer server.Close()

		client := NewRosterClient(server.URL, time.Second)
		students, err := client.ListActiveStudents(context.Background())
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, "Budi", students[0].Name)
		assert.Equal(t, "Design", students[1].Major)
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewRosterClient(server.URL, time.Second)
		_, err := client.ListActiveStudents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}

func TestRosterClientGetStudent(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewRosterClient(server.URL, time.Second)
		_, err := client.GetStudent(context.Background(), uuid.New())
		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "student", nfErr.Resource)
	})

	t.Run("Found", func(t *testing.T) {
		id := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/students/"+id.String(), r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"` + id.String() + `","code":"S-001","name":"Budi","major":"Informatics","active":true}`))
		}))
		defer server.Close()

		client := NewRosterClient(server.URL, time.Second)
		student, err := client.GetStudent(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, student.ID)
		assert.True(t, student.Active)
	})
}

func TestFileClientGetFileURL(t *testing.T) {
	t.Run("ResolvesDownloadURL", func(t *testing.T) {
		fileID := uuid.New()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/files/"+fileID.String()+"/download-url", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/presigned"}`))
		}))
		defer server.Close()

		client := NewFileClient(server.URL, time.Second)
		url, err := client.GetFileURL(context.Background(), fileID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/presigned", url)
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewFileClient(server.URL, time.Second)
		_, err := client.GetFileURL(context.Background(), uuid.New())
		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "file", nfErr.Resource)
	})
}
