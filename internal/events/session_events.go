package events

import (
	"time"

	"github.com/ielts-prep/session-service/internal/models"
)

// EventType identifies a session lifecycle event.
type EventType string

const (
	// Session lifecycle events
	EventSessionOpened    EventType = "session.opened"
	EventSessionStarted   EventType = "session.started"
	EventSessionResumed   EventType = "session.resumed"
	EventSessionSubmitted EventType = "session.submitted"
	EventSessionAbandoned EventType = "session.abandoned"

	// Mid-session progress events
	EventPartAdvanced       EventType = "session.part_advanced"
	EventReviewGapStarted   EventType = "session.review_gap_started"
	EventFinalReviewStarted EventType = "session.final_review_started"
	EventProgressSaved      EventType = "session.progress_saved"
)

// SessionEvent is the envelope every published event shares.
type SessionEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Data      any            `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SessionStartedEvent fires when an attempt leaves the pending phase.
type SessionStartedEvent struct {
	SessionID  string       `json:"session_id"`
	AttemptID  string       `json:"attempt_id"`
	Skill      models.Skill `json:"skill"`
	TestNumber string       `json:"test_number"`
	StartedAt  time.Time    `json:"started_at"`
}

// PartAdvancedEvent fires each time the active part index moves forward.
type PartAdvancedEvent struct {
	SessionID string `json:"session_id"`
	AttemptID string `json:"attempt_id"`
	PartIndex int    `json:"part_index"`
}

// SessionSubmittedEvent fires once per session, whether the submission was
// manual or forced by timer expiry.
type SessionSubmittedEvent struct {
	SessionID   string    `json:"session_id"`
	AttemptID   string    `json:"attempt_id"`
	Forced      bool      `json:"forced"`
	Answered    int       `json:"answered"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SessionAbandonedEvent fires when an exit discards the attempt.
type SessionAbandonedEvent struct {
	SessionID string `json:"session_id"`
	AttemptID string `json:"attempt_id"`
}

// ProgressSavedEvent fires after a successful save-and-exit.
type ProgressSavedEvent struct {
	SessionID     string `json:"session_id"`
	AttemptID     string `json:"attempt_id"`
	TimeRemaining int    `json:"time_remaining"`
	PartIndex     int    `json:"part_index"`
}
