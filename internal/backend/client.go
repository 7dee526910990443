// Package backend is the gateway to the external REST collaborator that
// serves test content and owns attempt scoring. The session engine only ever
// talks to the Client interface; the HTTP implementation lives here too.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ielts-prep/session-service/internal/models"
)

// Attempt identifies one timed run through a test.
type Attempt struct {
	AttemptID string `json:"attemptId"`
}

// SubmitResult is the backend's response to a final submission.
type SubmitResult struct {
	AttemptID string `json:"attemptId"`
	Score     int    `json:"score"`
}

// SaveProgressRequest persists a partially answered attempt for later resume.
type SaveProgressRequest struct {
	Answers       map[string]models.Answer `json:"answers"`
	TimeRemaining int                      `json:"timeRemaining"`
	PartIndex     int                      `json:"partIndex"`
}

// Client is the attempt/content contract the session engine consumes.
type Client interface {
	LoadFullTest(ctx context.Context, source, testNumber string, skill models.Skill) ([]models.TestPart, error)
	StartAttempt(ctx context.Context, source, testNumber string, skill models.Skill) (*Attempt, error)
	ResumeAttempt(ctx context.Context, attemptID string) error
	SaveProgress(ctx context.Context, attemptID string, req *SaveProgressRequest) error
	SubmitAttempt(ctx context.Context, attemptID string, answers map[string]models.Answer) (*SubmitResult, error)
	DeleteAttempt(ctx context.Context, attemptID string) error
	GetTestReview(ctx context.Context, attemptID string) (*models.TestReview, error)
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type httpClient struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// NewHTTPClient builds the production Client. token, when non-nil, supplies
// the bearer token attached to every request.
func NewHTTPClient(baseURL string, token func() string) Client {
	return &httpClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
	}
}

func (c *httpClient) LoadFullTest(ctx context.Context, source, testNumber string, skill models.Skill) ([]models.TestPart, error) {
	query := url.Values{}
	query.Set("source", source)
	query.Set("testNumber", testNumber)
	query.Set("skill", string(skill))

	var parts []models.TestPart
	if err := c.do(ctx, http.MethodGet, "/tests/data?"+query.Encode(), nil, &parts); err != nil {
		return nil, fmt.Errorf("failed to load test content: %w", err)
	}
	return parts, nil
}

func (c *httpClient) StartAttempt(ctx context.Context, source, testNumber string, skill models.Skill) (*Attempt, error) {
	body := map[string]string{"source": source, "testNumber": testNumber, "skill": string(skill)}
	var attempt Attempt
	if err := c.do(ctx, http.MethodPost, "/attempts", body, &attempt); err != nil {
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}
	return &attempt, nil
}

func (c *httpClient) ResumeAttempt(ctx context.Context, attemptID string) error {
	if err := c.do(ctx, http.MethodPost, "/attempts/"+attemptID+"/resume", nil, nil); err != nil {
		return fmt.Errorf("failed to resume attempt: %w", err)
	}
	return nil
}

func (c *httpClient) SaveProgress(ctx context.Context, attemptID string, req *SaveProgressRequest) error {
	if err := c.do(ctx, http.MethodPut, "/attempts/"+attemptID+"/progress", req, nil); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (c *httpClient) SubmitAttempt(ctx context.Context, attemptID string, answers map[string]models.Answer) (*SubmitResult, error) {
	body := map[string]any{"answers": answers}
	var result SubmitResult
	if err := c.do(ctx, http.MethodPost, "/attempts/"+attemptID+"/submit", body, &result); err != nil {
		return nil, fmt.Errorf("failed to submit attempt: %w", err)
	}
	return &result, nil
}

func (c *httpClient) DeleteAttempt(ctx context.Context, attemptID string) error {
	if err := c.do(ctx, http.MethodDelete, "/attempts/"+attemptID, nil, nil); err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	return nil
}

func (c *httpClient) GetTestReview(ctx context.Context, attemptID string) (*models.TestReview, error) {
	var review models.TestReview
	if err := c.do(ctx, http.MethodGet, "/attempts/"+attemptID+"/review", nil, &review); err != nil {
		return nil, fmt.Errorf("failed to get test review: %w", err)
	}
	return &review, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: buf.String()}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
