package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ielts-prep/session-service/internal/backend"
	"github.com/ielts-prep/session-service/internal/session"
	"github.com/ielts-prep/session-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	audioHandler   *AudioHandler
	reviewHandler  *ReviewHandler
}

func NewHandlerManager(
	engine *session.Engine,
	backendClient backend.Client,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(engine, validator, logger),
		audioHandler:   NewAudioHandler(engine, logger),
		reviewHandler:  NewReviewHandler(backendClient, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.OpenSession)
			sessions.POST("/:id/resume", hm.sessionHandler.ResumeSession)
			sessions.POST("/:id/start", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.PUT("/:id/answers", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.GET("/:id/parts/:part", hm.sessionHandler.GetPartContent)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.POST("/:id/exit", hm.sessionHandler.ExitSession)

			// Text selection and highlighting
			sessions.POST("/:id/selection", hm.sessionHandler.PointerUp)
			sessions.POST("/:id/selection/highlight-click", hm.sessionHandler.HighlightClick)
			sessions.POST("/:id/selection/apply", hm.sessionHandler.ApplyHighlight)
			sessions.POST("/:id/selection/clear", hm.sessionHandler.ClearHighlight)
			sessions.GET("/:id/highlights", hm.sessionHandler.ListHighlights)

			// Audio playback reports and controls
			sessions.POST("/:id/autoplay", hm.audioHandler.Autoplay)
			sessions.POST("/:id/audio/:part/play", hm.audioHandler.Play)
			sessions.POST("/:id/audio/:part/pause", hm.audioHandler.Pause)
			sessions.POST("/:id/audio/:part/seek", hm.audioHandler.Seek)
			sessions.POST("/:id/audio/:part/ended", hm.audioHandler.Ended)
			sessions.POST("/:id/audio/:part/time", hm.audioHandler.Time)
			sessions.POST("/:id/audio/:part/metadata", hm.audioHandler.Metadata)
			sessions.GET("/:id/audio/:part", hm.audioHandler.State)
		}

		attempts := v1.Group("/attempts")
		{
			attempts.GET("/:attempt_id/review", hm.reviewHandler.GetReview)
		}
	}
}
