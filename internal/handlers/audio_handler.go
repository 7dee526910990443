package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ielts-prep/session-service/internal/session"
	"github.com/ielts-prep/session-service/internal/utils"
)

// AudioHandler routes client playback reports and controls into a session's
// audio sequencer.
type AudioHandler struct {
	BaseHandler
	engine *session.Engine
}

func NewAudioHandler(engine *session.Engine, logger utils.Logger) *AudioHandler {
	return &AudioHandler{
		BaseHandler: NewBaseHandler(logger),
		engine:      engine,
	}
}

func (h *AudioHandler) sessionPart(c *gin.Context) (*session.Session, int, bool) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return nil, 0, false
	}
	part, err := strconv.Atoi(c.Param("part"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid part index"})
		return nil, 0, false
	}
	return s, part, true
}

// Play starts a part's playback on user request.
func (h *AudioHandler) Play(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	s.PlayAudio(part)
	c.JSON(http.StatusOK, SuccessResponse{Data: s.AudioState(part)})
}

// Pause pauses a part's playback.
func (h *AudioHandler) Pause(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	s.PauseAudio(part)
	c.JSON(http.StatusOK, SuccessResponse{Data: s.AudioState(part)})
}

type SeekRequest struct {
	Fraction float64 `json:"fraction"`
}

// Seek moves a part's playback to a timeline fraction.
func (h *AudioHandler) Seek(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	var req SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	s.SeekAudio(part, req.Fraction)
	c.JSON(http.StatusOK, SuccessResponse{Data: s.AudioState(part)})
}

type AutoplayRequest struct {
	Enabled bool `json:"enabled"`
}

// Autoplay toggles automatic part chaining for a listening session.
func (h *AudioHandler) Autoplay(c *gin.Context) {
	s, err := h.engine.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req AutoplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := s.SetAutoplay(req.Enabled); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: gin.H{"autoplay": req.Enabled}})
}

// Ended is the client's report that a part's audio finished. It is what
// moves a listening session into its review windows.
func (h *AudioHandler) Ended(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	if err := s.AudioEnded(part); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.View()})
}

type TimeReport struct {
	Seconds float64 `json:"seconds"`
}

// Time records a client timeupdate report.
func (h *AudioHandler) Time(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	var req TimeReport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	s.AudioTime(part, req.Seconds)
	c.Status(http.StatusNoContent)
}

type MetadataReport struct {
	Duration float64 `json:"duration"`
}

// Metadata records a part's duration once the client loads the audio.
func (h *AudioHandler) Metadata(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	var req MetadataReport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}
	s.AudioMetadata(part, req.Duration)
	c.Status(http.StatusNoContent)
}

// State returns the tracked playback state of a part.
func (h *AudioHandler) State(c *gin.Context) {
	s, part, ok := h.sessionPart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: s.AudioState(part)})
}
