package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-prep/session-service/internal/models"
)

func TestStartAttemptPostsBodyAndToken(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/attempts", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(Attempt{AttemptID: "attempt-7"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, func() string { return "tok-123" })
	attempt, err := client.StartAttempt(context.Background(), "cam", "18", models.SkillReading)
	require.NoError(t, err)

	assert.Equal(t, "attempt-7", attempt.AttemptID)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "READING", gotBody["skill"])
}

func TestLoadFullTestEscapesQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tests/data", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "cambridge ielts", q.Get("source"))
		require.Equal(t, "18&19", q.Get("testNumber"))
		require.Equal(t, "LISTENING", q.Get("skill"))
		json.NewEncoder(w).Encode([]models.TestPart{{ID: "part-1"}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil)
	parts, err := client.LoadFullTest(context.Background(), "cambridge ielts", "18&19", models.SkillListening)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "part-1", parts[0].ID)
}

func TestSubmitAttemptDecodesScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/attempts/attempt-7/submit", r.URL.Path)
		json.NewEncoder(w).Encode(SubmitResult{AttemptID: "attempt-7", Score: 31})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil)
	answers := map[string]models.Answer{"q1": models.SingleAnswer("A")}
	result, err := client.SubmitAttempt(context.Background(), "attempt-7", answers)
	require.NoError(t, err)
	assert.Equal(t, 31, result.Score)
}

func TestNotFoundIsDetectable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such attempt", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil)
	_, err := client.GetTestReview(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSaveProgressSendsAnswers(t *testing.T) {
	var got SaveProgressRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil)
	err := client.SaveProgress(context.Background(), "attempt-7", &SaveProgressRequest{
		Answers:       map[string]models.Answer{"q2": models.MultiAnswer([]string{"C", "A"})},
		TimeRemaining: 1200,
		PartIndex:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1200, got.TimeRemaining)
	assert.Equal(t, []string{"A", "C"}, got.Answers["q2"].Values)
}
