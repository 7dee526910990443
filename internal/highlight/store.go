// Package highlight implements passage text highlighting: an offset-keyed
// store of highlight spans, an HTML renderer that injects the spans into
// rendered content, and a selection controller that turns raw text
// selections into store operations.
package highlight

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ielts-prep/session-service/internal/models"
)

// Store maps content-block identifiers to sets of highlight ranges. It is an
// explicit, injected object rather than process-global state so independent
// sessions never share highlights.
//
// The store is not synchronized; the owning session serializes all access
// through its own lock.
type Store struct {
	contents map[string]map[string]models.Highlight
}

func NewStore() *Store {
	return &Store{contents: make(map[string]map[string]models.Highlight)}
}

// Add stores a new highlight and returns it. Adding a highlight whose
// (offsets, text, style) structurally equal an existing one in the same
// content block is a no-op that returns the existing highlight.
func (s *Store) Add(contentID string, startOffset, endOffset int, text string, style map[string]string) models.Highlight {
	h := models.Highlight{
		ID:          uuid.NewString(),
		StartOffset: startOffset,
		EndOffset:   endOffset,
		Text:        text,
		Style:       style,
	}

	byID := s.contents[contentID]
	for _, existing := range byID {
		if existing.SameSpan(h) {
			return existing
		}
	}

	if byID == nil {
		byID = make(map[string]models.Highlight)
		s.contents[contentID] = byID
	}
	byID[h.ID] = h
	return h
}

// Remove deletes one highlight; it is a no-op when either key is absent.
func (s *Store) Remove(contentID, highlightID string) {
	byID, ok := s.contents[contentID]
	if !ok {
		return
	}
	delete(byID, highlightID)
	if len(byID) == 0 {
		delete(s.contents, contentID)
	}
}

// Get returns the highlight with the given id, if present.
func (s *Store) Get(contentID, highlightID string) (models.Highlight, bool) {
	h, ok := s.contents[contentID][highlightID]
	return h, ok
}

// Query returns the highlights for a content block ordered by start offset
// (ties broken by end offset, then id, for a deterministic render order).
// The returned slice is a fresh snapshot; callers must not mutate stored
// state through it.
func (s *Store) Query(contentID string) []models.Highlight {
	byID := s.contents[contentID]
	out := make([]models.Highlight, 0, len(byID))
	for _, h := range byID {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartOffset != out[j].StartOffset {
			return out[i].StartOffset < out[j].StartOffset
		}
		if out[i].EndOffset != out[j].EndOffset {
			return out[i].EndOffset < out[j].EndOffset
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ClearAll drops every highlight in every content block.
func (s *Store) ClearAll() {
	s.contents = make(map[string]map[string]models.Highlight)
}

// Snapshot returns all highlights keyed by content id, for persistence.
func (s *Store) Snapshot() map[string][]models.Highlight {
	out := make(map[string][]models.Highlight, len(s.contents))
	for contentID := range s.contents {
		out[contentID] = s.Query(contentID)
	}
	return out
}

// Restore replaces the store contents from a snapshot, keeping the original
// highlight ids so spans already rendered stay addressable.
func (s *Store) Restore(snapshot map[string][]models.Highlight) {
	s.contents = make(map[string]map[string]models.Highlight, len(snapshot))
	for contentID, highlights := range snapshot {
		if len(highlights) == 0 {
			continue
		}
		byID := make(map[string]models.Highlight, len(highlights))
		for _, h := range highlights {
			byID[h.ID] = h
		}
		s.contents[contentID] = byID
	}
}
