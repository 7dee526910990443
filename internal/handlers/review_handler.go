package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ielts-prep/session-service/internal/backend"
	"github.com/ielts-prep/session-service/internal/scoring"
	"github.com/ielts-prep/session-service/internal/utils"
)

// ReviewHandler serves the post-submission report. The graded questions come
// from the backend; the band score is derived locally from the raw score.
type ReviewHandler struct {
	BaseHandler
	backend backend.Client
}

func NewReviewHandler(b backend.Client, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler: NewBaseHandler(logger),
		backend:     b,
	}
}

// GetReview returns the graded review of an attempt with its band score.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	attemptID := c.Param("attempt_id")
	review, err := h.backend.GetTestReview(c.Request.Context(), attemptID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	review.BandScore = scoring.ToBand(review.Score)
	c.JSON(http.StatusOK, SuccessResponse{Data: review})
}
