package session

import (
	"errors"
	"fmt"

	"github.com/ielts-prep/session-service/internal/models"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionClosed    = errors.New("session closed")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrNoParts          = errors.New("test has no parts")
	ErrPartOutOfRange   = errors.New("part index out of range")
	ErrUnknownQuestion  = errors.New("question does not belong to this test")
	ErrUnsupportedSkill = errors.New("unsupported skill")
	ErrNavigationLocked = errors.New("listening parts advance with the audio")
)

// PhaseError reports an operation attempted in a phase that forbids it.
type PhaseError struct {
	Op    string
	Phase models.SessionPhase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Op, e.Phase)
}

func phaseErr(op string, phase models.SessionPhase) error {
	return &PhaseError{Op: op, Phase: phase}
}
