package highlight

import (
	"strings"
)

// popupOffset is how far above the selection rect the action popup sits.
const popupOffset = 40

// Rect is the bounding box of a selection or highlight span in screen
// coordinates, as reported by the client.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PopupPosition drives the floating highlight-action popup.
type PopupPosition struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Visible bool    `json:"visible"`
}

// Region is one highlightable content block inside the container: its id
// plus the ordered plain-text runs of its rendered markup. Offsets are
// computed against the concatenation of the runs, so they stay stable no
// matter how the markup nests or how many highlight spans it carries.
type Region struct {
	ContentID string
	Runs      []string
}

// RawSelection is a pointer-drag selection as reported by the client: the
// content block it landed in and the run/offset coordinates of its ends.
type RawSelection struct {
	ContentID        string `json:"contentId"`
	StartRun         int    `json:"startRun"`
	StartOffsetInRun int    `json:"startOffsetInRun"`
	EndRun           int    `json:"endRun"`
	EndOffsetInRun   int    `json:"endOffsetInRun"`
	Rect             Rect   `json:"rect"`
}

// Selection is the normalized active selection the popup actions operate on.
// HighlightID is set when the selection came from clicking an existing
// highlight rather than a fresh drag.
type Selection struct {
	ContentID   string
	StartOffset int
	EndOffset   int
	Text        string
	HighlightID string
}

// Controller translates raw selections and highlight clicks into store
// operations and drives the popup. It holds no highlight state of its own;
// everything lives in the injected Store.
type Controller struct {
	store   *Store
	regions map[string]Region // nil until Attach; no listeners before mount
	active  *Selection
	popup   PopupPosition
}

func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// Attach mounts the controller on a set of content regions. Until Attach is
// called (or after Detach), every event is a silent no-op, mirroring
// listeners that are simply not installed yet.
func (c *Controller) Attach(regions []Region) {
	c.regions = make(map[string]Region, len(regions))
	for _, r := range regions {
		c.regions[r.ContentID] = r
	}
}

// Detach unmounts the controller and drops any active selection.
func (c *Controller) Detach() {
	c.regions = nil
	c.hidePopup()
}

func (c *Controller) Mounted() bool {
	return c.regions != nil
}

// Popup returns the current popup state.
func (c *Controller) Popup() PopupPosition {
	return c.popup
}

// ActiveSelection returns a copy of the active selection, if any.
func (c *Controller) ActiveSelection() (Selection, bool) {
	if c.active == nil {
		return Selection{}, false
	}
	return *c.active, true
}

// OnPointerUp handles the end of a pointer drag. Selections outside the
// mounted regions, or empty ones, hide the popup instead of opening it.
func (c *Controller) OnPointerUp(raw RawSelection) {
	if c.regions == nil {
		return
	}
	region, ok := c.regions[raw.ContentID]
	if !ok {
		c.hidePopup()
		return
	}

	sel, ok := resolveOffsets(region, raw)
	if !ok || sel.Text == "" {
		c.hidePopup()
		return
	}

	c.active = &sel
	c.popup = PopupPosition{X: raw.Rect.X, Y: raw.Rect.Y - popupOffset, Visible: true}
}

// OnHighlightClick handles a click inside an existing highlight span. The
// selection resolves to that highlight's own stored range so the popup edits
// or clears exactly that span instead of recomputing from the click point.
func (c *Controller) OnHighlightClick(contentID, highlightID string, rect Rect) {
	if c.regions == nil {
		return
	}
	if _, ok := c.regions[contentID]; !ok {
		return
	}
	h, ok := c.store.Get(contentID, highlightID)
	if !ok {
		return
	}

	c.active = &Selection{
		ContentID:   contentID,
		StartOffset: h.StartOffset,
		EndOffset:   h.EndOffset,
		Text:        h.Text,
		HighlightID: h.ID,
	}
	c.popup = PopupPosition{X: rect.X, Y: rect.Y - popupOffset, Visible: true}
}

// ApplyHighlight creates a highlight with the given style over the active
// selection. If the selection originated from an existing highlight, that
// highlight is replaced with the restyled one rather than merged. The live
// selection is collapsed and the popup hidden afterward.
func (c *Controller) ApplyHighlight(style map[string]string) {
	if c.active == nil {
		return
	}
	sel := *c.active
	if sel.HighlightID != "" {
		c.store.Remove(sel.ContentID, sel.HighlightID)
	}
	c.store.Add(sel.ContentID, sel.StartOffset, sel.EndOffset, sel.Text, style)
	c.hidePopup()
}

// ClearHighlight removes highlights covered by the active selection. A
// selection that came from an existing highlight removes exactly that one;
// a fresh drag removes every highlight whose range overlaps the selection,
// which may be more than one.
func (c *Controller) ClearHighlight() {
	if c.active == nil {
		return
	}
	sel := *c.active
	if sel.HighlightID != "" {
		c.store.Remove(sel.ContentID, sel.HighlightID)
	} else {
		for _, h := range c.store.Query(sel.ContentID) {
			if sel.StartOffset < h.EndOffset && sel.EndOffset > h.StartOffset {
				c.store.Remove(sel.ContentID, h.ID)
			}
		}
	}
	c.hidePopup()
}

func (c *Controller) hidePopup() {
	c.popup = PopupPosition{}
	c.active = nil
}

// resolveOffsets turns run-local selection coordinates into character
// offsets over the region's flattened text.
func resolveOffsets(region Region, raw RawSelection) (Selection, bool) {
	if raw.StartRun < 0 || raw.EndRun >= len(region.Runs) || raw.StartRun > raw.EndRun {
		return Selection{}, false
	}

	prefix := 0
	for i := 0; i < raw.StartRun; i++ {
		prefix += len(region.Runs[i])
	}
	startRun := region.Runs[raw.StartRun]
	if raw.StartOffsetInRun < 0 || raw.StartOffsetInRun > len(startRun) {
		return Selection{}, false
	}
	start := prefix + raw.StartOffsetInRun

	var sb strings.Builder
	for i := raw.StartRun; i <= raw.EndRun; i++ {
		run := region.Runs[i]
		from, to := 0, len(run)
		if i == raw.StartRun {
			from = raw.StartOffsetInRun
		}
		if i == raw.EndRun {
			if raw.EndOffsetInRun < 0 || raw.EndOffsetInRun > len(run) {
				return Selection{}, false
			}
			to = raw.EndOffsetInRun
		}
		if from > to {
			return Selection{}, false
		}
		sb.WriteString(run[from:to])
	}

	text := sb.String()
	return Selection{
		ContentID:   raw.ContentID,
		StartOffset: start,
		EndOffset:   start + len(text),
		Text:        text,
	}, true
}
