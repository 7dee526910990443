package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ielts-prep/session-service/internal/backend"
	"github.com/ielts-prep/session-service/internal/cache"
	"github.com/ielts-prep/session-service/internal/session"
	"github.com/ielts-prep/session-service/internal/utils"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "session-service"})
}

// respondError maps domain errors onto HTTP statuses.
func (h *BaseHandler) respondError(c *gin.Context, err error) {
	var phaseErr *session.PhaseError
	var statusErr *backend.StatusError

	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, cache.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, session.ErrUnknownQuestion),
		errors.Is(err, session.ErrPartOutOfRange),
		errors.Is(err, session.ErrUnsupportedSkill),
		errors.Is(err, session.ErrNoParts):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, session.ErrAlreadySubmitted),
		errors.Is(err, session.ErrSubmitInProgress),
		errors.Is(err, session.ErrNavigationLocked),
		errors.As(err, &phaseErr):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	case errors.Is(err, session.ErrSessionClosed):
		c.JSON(http.StatusGone, ErrorResponse{Message: err.Error()})
	case errors.As(err, &statusErr):
		if statusErr.Code == http.StatusNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
			return
		}
		h.logger.Error("backend call failed", "status", statusErr.Code, "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Message: "upstream service error"})
	default:
		h.logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
