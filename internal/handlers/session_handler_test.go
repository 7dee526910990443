package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ielts-prep/session-service/internal/backend"
	"github.com/ielts-prep/session-service/internal/cache"
	"github.com/ielts-prep/session-service/internal/events"
	"github.com/ielts-prep/session-service/internal/models"
	"github.com/ielts-prep/session-service/internal/session"
	"github.com/ielts-prep/session-service/internal/utils"
)

type stubBackend struct {
	parts []models.TestPart
}

func (s *stubBackend) LoadFullTest(context.Context, string, string, models.Skill) ([]models.TestPart, error) {
	return s.parts, nil
}

func (s *stubBackend) StartAttempt(context.Context, string, string, models.Skill) (*backend.Attempt, error) {
	return &backend.Attempt{AttemptID: "attempt-9"}, nil
}

func (s *stubBackend) ResumeAttempt(context.Context, string) error { return nil }

func (s *stubBackend) SaveProgress(context.Context, string, *backend.SaveProgressRequest) error {
	return nil
}

func (s *stubBackend) SubmitAttempt(_ context.Context, attemptID string, answers map[string]models.Answer) (*backend.SubmitResult, error) {
	return &backend.SubmitResult{AttemptID: attemptID, Score: 30}, nil
}

func (s *stubBackend) DeleteAttempt(context.Context, string) error { return nil }

func (s *stubBackend) GetTestReview(context.Context, string) (*models.TestReview, error) {
	return &models.TestReview{Score: 30, TotalQuestions: 40}, nil
}

// idleClock never ticks; handler tests drive the session by hand.
type idleClock struct{}

func (idleClock) Schedule(time.Duration, func()) func() { return func() {} }

func newRouterWithParts(parts []models.TestPart) *gin.Engine {
	gin.SetMode(gin.TestMode)

	stub := &stubBackend{parts: parts}
	logger := utils.NewDevelopmentLogger()
	engine := session.NewEngine(
		stub,
		cache.NewMemoryStore(),
		events.NewMockEventPublisher(),
		idleClock{},
		session.DefaultTiming(),
		logger,
	)

	r := gin.New()
	NewHandlerManager(engine, stub, utils.NewValidator(), logger).SetupRoutes(r)
	return r
}

func newTestRouter() *gin.Engine {
	return newRouterWithParts([]models.TestPart{
		{
			ID: "part-1", PartNumber: 1,
			PassageText: "<p>The <b>quick</b> brown fox</p>",
			Questions: []models.Question{
				{ID: "q1", QuestionNumber: 1, QuestionType: models.TrueFalseNotGiven},
			},
		},
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openSession(t *testing.T, r *gin.Engine, skill models.Skill) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", OpenSessionRequest{
		Source: "cam", TestNumber: "18", Skill: skill,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data OpenSessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.SessionID)
	return resp.Data.SessionID
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter()
	id := openSession(t, r, models.SkillReading)

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"RUNNING"`)

	w = doJSON(t, r, http.MethodPut, "/api/v1/sessions/"+id+"/answers", AnswerRequest{
		QuestionID: "q1", Value: "TRUE",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":"TRUE"`)

	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"score":30`)
	assert.Contains(t, w.Body.String(), `"bandScore":7`)

	// A second submit conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPartContentIncludesRenderedPassage(t *testing.T) {
	r := newTestRouter()
	id := openSession(t, r, models.SkillReading)
	doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/start", nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+id+"/parts/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quick")
	assert.Contains(t, w.Body.String(), `"questionId":"q1"`)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+id+"/parts/9", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListeningPartContentCarriesAudioAndDisplayContent(t *testing.T) {
	r := newRouterWithParts([]models.TestPart{
		{
			ID: "part-1", PartNumber: 1,
			AudioURL:          "https://cdn.example.com/p1.mp3",
			DisplayContentURL: "https://cdn.example.com/p1-content.html",
			Questions: []models.Question{
				{ID: "q1", QuestionNumber: 1, QuestionType: models.FillInBlank},
			},
		},
	})
	id := openSession(t, r, models.SkillListening)
	doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/start", nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+id+"/parts/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"audioUrl":"https://cdn.example.com/p1.mp3"`)
	assert.Contains(t, w.Body.String(), `"displayContentUrl":"https://cdn.example.com/p1-content.html"`)
}

func TestAutoplayToggleOverHTTP(t *testing.T) {
	r := newRouterWithParts([]models.TestPart{
		{
			ID: "part-1", PartNumber: 1,
			AudioURL: "https://cdn.example.com/p1.mp3",
			Questions: []models.Question{
				{ID: "q1", QuestionNumber: 1, QuestionType: models.FillInBlank},
			},
		},
	})
	id := openSession(t, r, models.SkillListening)

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+id+"/autoplay", AutoplayRequest{Enabled: false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"autoplay":false`)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/nope/start", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenSessionValidatesSkill(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", map[string]string{
		"source": "cam", "testNumber": "18", "skill": "SPEAKING",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewAttachesBandScore(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/api/v1/attempts/attempt-9/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bandScore":7`)
}
