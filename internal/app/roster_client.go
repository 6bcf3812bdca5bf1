package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"internship_service/internal/domain"
	"internship_service/pkg/retry"
)

var errNotFound = errors.New("not found")

// RosterClient reads the student population from the student service over
// its JSON API.
type RosterClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRosterClient(baseURL string, timeout time.Duration) *RosterClient {
	return &RosterClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type studentPayload struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Major  string    `json:"major"`
	Cohort string    `json:"cohort"`
	Active bool      `json:"active"`
}

func (p studentPayload) toDomain() domain.Student {
	return domain.Student{
		ID:     p.ID,
		Code:   p.Code,
		Name:   p.Name,
		Major:  p.Major,
		Cohort: p.Cohort,
		Active: p.Active,
	}
}

func (c *RosterClient) ListActiveStudents(ctx context.Context) ([]domain.Student, error) {
	url := c.baseURL + "/api/v1/students?active=true"

	payloads, err := retry.WithBackoff(ctx, 3, 100*time.Millisecond, func() ([]studentPayload, error) {
		var students []studentPayload
		err := c.getJSON(ctx, url, &students)
		return students, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	students := make([]domain.Student, len(payloads))
	for i, p := range payloads {
		students[i] = p.toDomain()
	}
	return students, nil
}

func (c *RosterClient) GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	url := c.baseURL + "/api/v1/students/" + id.String()

	payload, err := retry.WithBackoff(ctx, 3, 100*time.Millisecond, func() (*studentPayload, error) {
		var student studentPayload
		if err := c.getJSON(ctx, url, &student); err != nil {
			return nil, err
		}
		return &student, nil
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, &domain.NotFoundError{Resource: "student", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	student := payload.toDomain()
	return &student, nil
}

func (c *RosterClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.Transient(err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return retry.Transient(fmt.Errorf("student service returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("student service returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
