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

// FileClient resolves download URLs for file-service references. The file
// service tends to flap under load, so calls go through a shared circuit
// breaker in addition to the usual backoff.
type FileClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *retry.CircuitBreaker
}

func NewFileClient(baseURL string, timeout time.Duration) *FileClient {
	return &FileClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    retry.NewCircuitBreaker(5, 30*time.Second),
	}
}

func (c *FileClient) GetFileURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	url := c.baseURL + "/api/v1/files/" + fileID.String() + "/download-url"

	result, err := retry.WithCircuitBreaker(ctx, c.breaker, 3, 100*time.Millisecond, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", retry.Transient(err)
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return "", errNotFound
		case resp.StatusCode >= http.StatusInternalServerError:
			return "", retry.Transient(fmt.Errorf("file service returned %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return "", fmt.Errorf("file service returned %d", resp.StatusCode)
		}

		var payload struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", err
		}
		return payload.URL, nil
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			return "", &domain.NotFoundError{Resource: "file", ID: fileID.String()}
		}
		return "", fmt.Errorf("failed to get file url: %w", err)
	}
	return result, nil
}
