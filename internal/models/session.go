package models

type SessionPhase string

const (
	PhasePending     SessionPhase = "PENDING"
	PhaseRunning     SessionPhase = "RUNNING"
	PhaseReviewGap   SessionPhase = "REVIEW_GAP"
	PhaseFinalReview SessionPhase = "FINAL_REVIEW"
	PhaseSubmitting  SessionPhase = "SUBMITTING"
	PhaseDone        SessionPhase = "DONE"
)

// Terminal reports whether the session can never run again.
func (p SessionPhase) Terminal() bool {
	return p == PhaseSubmitting || p == PhaseDone
}

// Active reports whether answers may still be changed.
func (p SessionPhase) Active() bool {
	return p == PhaseRunning || p == PhaseReviewGap || p == PhaseFinalReview
}

// SessionState is the externally visible snapshot of a running session.
// It is owned exclusively by the session engine; handlers only ever see
// copies.
type SessionState struct {
	Phase            SessionPhase      `json:"phase"`
	CurrentPartIndex int               `json:"currentPartIndex"`
	TimeRemaining    int               `json:"timeRemaining"`
	Answers          map[string]Answer `json:"answers"`
	AttemptID        string            `json:"attemptId"`
}
