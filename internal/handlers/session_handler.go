package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ielts-prep/session-service/internal/highlight"
	"github.com/ielts-prep/session-service/internal/models"
	"github.com/ielts-prep/session-service/internal/render"
	"github.com/ielts-prep/session-service/internal/scoring"
	"github.com/ielts-prep/session-service/internal/session"
	"github.com/ielts-prep/session-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	engine    *session.Engine
	validator *utils.Validator
}

func NewSessionHandler(engine *session.Engine, validator *utils.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		engine:      engine,
		validator:   validator,
	}
}

type OpenSessionRequest struct {
	Source     string       `json:"source" validate:"required"`
	TestNumber string       `json:"testNumber" validate:"required"`
	Skill      models.Skill `json:"skill" validate:"required,skill"`
}

type OpenSessionResponse struct {
	SessionID string              `json:"sessionId"`
	State     models.SessionState `json:"state"`
	PartCount int                 `json:"partCount"`
}

// OpenSession loads a test, starts a backend attempt and returns the new
// pending session.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: err.Error()})
		return
	}

	s, err := h.engine.Open(c.Request.Context(), req.Source, req.TestNumber, req.Skill)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Session opened",
		Data: OpenSessionResponse{
			SessionID: s.ID(),
			State:     s.View(),
			PartCount: len(s.Parts()),
		},
	})
}

// ResumeSession rebuilds a previously saved session.
func (h *SessionHandler) ResumeSession(c *gin.Context) {
	s, err := h.engine.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session resumed",
		Data: OpenSessionResponse{
			SessionID: s.ID(),
			State:     s.View(),
			PartCount: len(s.Parts()),
		},
	})
}

// StartSession begins the timed run.
func (h *SessionHandler) StartSession(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := s.Start(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Session started", Data: s.View()})
}

// GetSession returns the current session state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.View()})
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Value      string `json:"value"`
}

// RecordAnswer stores or toggles one answer value.
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: err.Error()})
		return
	}
	if err := s.Answer(req.QuestionID, req.Value); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.View()})
}

type NavigateRequest struct {
	PartIndex int `json:"partIndex"`
}

// Navigate switches the active reading part.
func (h *SessionHandler) Navigate(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := s.Navigate(req.PartIndex); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.View()})
}

type PartContentResponse struct {
	PartNumber        int                `json:"partNumber"`
	PassageHTML       string             `json:"passageHtml,omitempty"`
	AudioURL          string             `json:"audioUrl,omitempty"`
	DisplayContentURL string             `json:"displayContentUrl,omitempty"`
	Groups            []render.GroupView `json:"groups"`
}

// GetPartContent renders one part: passage HTML with highlights applied plus
// the resolved question group views mirroring the current answers.
func (h *SessionHandler) GetPartContent(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	index, err := strconv.Atoi(c.Param("part"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid part index"})
		return
	}
	parts := s.Parts()
	if index < 0 || index >= len(parts) {
		h.respondError(c, session.ErrPartOutOfRange)
		return
	}
	part := parts[index]

	resp := PartContentResponse{
		PartNumber:        part.PartNumber,
		AudioURL:          part.AudioURL,
		DisplayContentURL: part.DisplayContentURL,
	}
	if part.PassageText != "" {
		html, err := s.RenderPassage(index)
		if err != nil {
			h.respondError(c, err)
			return
		}
		resp.PassageHTML = html
	}

	answers := s.View().Answers
	for _, g := range render.BuildGroups(part) {
		resp.Groups = append(resp.Groups, render.BuildGroupView(g, answers))
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: resp})
}

// PointerUp resolves a reported text selection and returns the highlight
// popup position.
func (h *SessionHandler) PointerUp(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var raw highlight.RawSelection
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.PointerUp(raw)})
}

type HighlightClickRequest struct {
	ContentID   string         `json:"contentId" validate:"required"`
	HighlightID string         `json:"highlightId" validate:"required"`
	Rect        highlight.Rect `json:"rect"`
}

// HighlightClick reopens the popup over an existing highlight.
func (h *SessionHandler) HighlightClick(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req HighlightClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.HighlightClick(req.ContentID, req.HighlightID, req.Rect)})
}

type ApplyHighlightRequest struct {
	Style map[string]string `json:"style"`
}

// ApplyHighlight stores the active selection as a highlight.
func (h *SessionHandler) ApplyHighlight(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req ApplyHighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	s.ApplyHighlight(req.Style)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Highlight applied"})
}

// ClearHighlight removes the clicked highlight or everything overlapping the
// active selection.
func (h *SessionHandler) ClearHighlight(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	s.ClearHighlight()
	c.JSON(http.StatusOK, SuccessResponse{Message: "Highlight cleared"})
}

// ListHighlights returns the stored highlights of one content block.
func (h *SessionHandler) ListHighlights(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	contentID := c.Query("contentId")
	if contentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "contentId is required"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.HighlightsFor(contentID)})
}

// SubmitSession sends the answers for grading.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := s.Submit(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	score, _ := s.Score()
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session submitted",
		Data: gin.H{
			"attemptId": s.AttemptID(),
			"score":     score,
			"bandScore": scoring.ToBand(score),
		},
	})
}

type ExitRequest struct {
	Save bool `json:"save"`
}

// ExitSession leaves the test early, saving progress or abandoning the
// attempt.
func (h *SessionHandler) ExitSession(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req ExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := s.Exit(c.Request.Context(), req.Save); err != nil {
		h.respondError(c, err)
		return
	}
	message := "Attempt abandoned"
	if req.Save {
		message = "Progress saved"
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}
