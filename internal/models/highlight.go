package models

// Highlight is one user-created span over the plain-text projection of a
// content block. Offsets are character positions with tags excluded;
// StartOffset < EndOffset always holds for stored highlights.
type Highlight struct {
	ID          string            `json:"id"`
	StartOffset int               `json:"startOffset" validate:"min=0"`
	EndOffset   int               `json:"endOffset" validate:"gtfield=StartOffset"`
	Text        string            `json:"text"`
	Style       map[string]string `json:"style,omitempty"`
}

// SameSpan reports structural equality of the user-visible parts of two
// highlights, ignoring IDs. The store's dedup rule is built on this.
func (h Highlight) SameSpan(other Highlight) bool {
	if h.StartOffset != other.StartOffset || h.EndOffset != other.EndOffset || h.Text != other.Text {
		return false
	}
	if len(h.Style) != len(other.Style) {
		return false
	}
	for k, v := range h.Style {
		if other.Style[k] != v {
			return false
		}
	}
	return true
}
