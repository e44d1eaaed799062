package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finance-import/internal/models"
)

// SubmissionError means the job creation request failed or the server
// answered without a job identifier. It carries the server's message when
// one was provided.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "failed to submit import job"
}

// StatusError means a status fetch failed (transport, non-success response,
// or a success response without a job payload).
type StatusError struct {
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "failed to fetch import job status"
}

// envelope is the server's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type submitData struct {
	JobID string `json:"job_id"`
}

// ImportClient talks to the remote import service. Both calls are
// single-shot: retry policy, if any, belongs to the caller.
type ImportClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewImportClient(baseURL string, timeout time.Duration) *ImportClient {
	return &ImportClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit sends the full CSV text in a single request and returns the job
// identifier assigned by the server.
func (c *ImportClient) Submit(ctx context.Context, csvContent string) (string, error) {
	url := c.baseURL + "/api/import"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(csvContent))
	if err != nil {
		return "", &SubmissionError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "text/csv")

	env, err := c.do(req)
	if err != nil {
		return "", &SubmissionError{Message: err.Error()}
	}
	if !env.Success {
		return "", &SubmissionError{Message: env.Message}
	}

	var data submitData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return "", &SubmissionError{Message: fmt.Sprintf("invalid submit response: %v", err)}
		}
	}
	if data.JobID == "" {
		return "", &SubmissionError{}
	}
	return data.JobID, nil
}

// FetchStatus returns a fresh snapshot of the job.
func (c *ImportClient) FetchStatus(ctx context.Context, jobID string) (*models.ImportJob, error) {
	url := fmt.Sprintf("%s/api/import/%s/status", c.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &StatusError{Message: err.Error()}
	}

	env, err := c.do(req)
	if err != nil {
		return nil, &StatusError{Message: err.Error()}
	}
	if !env.Success {
		return nil, &StatusError{Message: env.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &StatusError{}
	}

	var job models.ImportJob
	if err := json.Unmarshal(env.Data, &job); err != nil {
		return nil, &StatusError{Message: fmt.Sprintf("invalid status response: %v", err)}
	}
	return &job, nil
}

func (c *ImportClient) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected response from server (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		env.Success = false
		if env.Message == "" {
			env.Message = fmt.Sprintf("server returned status %d", resp.StatusCode)
		}
	}
	return &env, nil
}
