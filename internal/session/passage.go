package session

import (
	"github.com/ielts-prep/session-service/internal/highlight"
	"github.com/ielts-prep/session-service/internal/models"
)

// RenderPassage returns a part's passage HTML with the session's highlights
// applied, and mounts the part as a selectable region so pointer reports can
// be resolved against it. The part's ID doubles as the highlight content ID.
func (s *Session) RenderPassage(partIndex int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	if partIndex < 0 || partIndex >= len(s.parts) {
		return "", ErrPartOutOfRange
	}
	part := s.parts[partIndex]

	runs, err := highlight.TextRuns(part.PassageText)
	if err != nil {
		return "", err
	}
	s.selection.Attach([]highlight.Region{{ContentID: part.ID, Runs: runs}})

	return highlight.Render(part.PassageText, s.highlights.Query(part.ID))
}

// PointerUp resolves a raw client selection and returns the popup position
// to show, if any.
func (s *Session) PointerUp(raw highlight.RawSelection) highlight.PopupPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.OnPointerUp(raw)
	return s.selection.Popup()
}

// HighlightClick reopens the popup over an existing highlight.
func (s *Session) HighlightClick(contentID, highlightID string, rect highlight.Rect) highlight.PopupPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.OnHighlightClick(contentID, highlightID, rect)
	return s.selection.Popup()
}

// ApplyHighlight turns the active selection into a stored highlight.
func (s *Session) ApplyHighlight(style map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ApplyHighlight(style)
}

// ClearHighlight removes the clicked highlight, or every highlight touching
// the active selection.
func (s *Session) ClearHighlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ClearHighlight()
}

// HighlightsFor lists the stored highlights of one content block.
func (s *Session) HighlightsFor(contentID string) []models.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlights.Query(contentID)
}

// PlayAudio starts a listening part's playback on user request.
func (s *Session) PlayAudio(partIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sequencer != nil && !s.closed {
		s.sequencer.PlayPart(partIndex)
	}
}

// PauseAudio pauses a listening part's playback.
func (s *Session) PauseAudio(partIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sequencer != nil && !s.closed {
		s.sequencer.PausePart(partIndex)
	}
}
