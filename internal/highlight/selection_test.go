package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedController(t *testing.T) (*Controller, *Store) {
	t.Helper()
	store := NewStore()
	ctrl := NewController(store)

	runs, err := TextRuns(passage)
	require.NoError(t, err)
	ctrl.Attach([]Region{{ContentID: "passage-1", Runs: runs}})
	return ctrl, store
}

func TestPointerUpComputesOffsets(t *testing.T) {
	ctrl, _ := mountedController(t)

	// Select "quick brown": run 1 ("quick") offset 0 through run 2
	// (" brown fox") offset 6.
	ctrl.OnPointerUp(RawSelection{
		ContentID:        "passage-1",
		StartRun:         1,
		StartOffsetInRun: 0,
		EndRun:           2,
		EndOffsetInRun:   6,
		Rect:             Rect{X: 120, Y: 300},
	})

	sel, ok := ctrl.ActiveSelection()
	require.True(t, ok)
	assert.Equal(t, "quick brown", sel.Text)
	assert.Equal(t, 4, sel.StartOffset)
	assert.Equal(t, 15, sel.EndOffset)
	assert.Empty(t, sel.HighlightID)

	popup := ctrl.Popup()
	assert.True(t, popup.Visible)
	assert.Equal(t, 120.0, popup.X)
	assert.Equal(t, 260.0, popup.Y, "popup anchors a fixed offset above the selection")
}

func TestPointerUpOutsideContainerRejected(t *testing.T) {
	ctrl, _ := mountedController(t)

	ctrl.OnPointerUp(RawSelection{ContentID: "not-in-container", EndRun: 0})

	_, ok := ctrl.ActiveSelection()
	assert.False(t, ok)
	assert.False(t, ctrl.Popup().Visible)
}

func TestPointerUpEmptySelectionHidesPopup(t *testing.T) {
	ctrl, _ := mountedController(t)

	ctrl.OnPointerUp(RawSelection{
		ContentID: "passage-1", StartRun: 1, StartOffsetInRun: 2, EndRun: 1, EndOffsetInRun: 2,
	})

	assert.False(t, ctrl.Popup().Visible)
}

func TestUnmountedControllerIgnoresEvents(t *testing.T) {
	store := NewStore()
	ctrl := NewController(store)

	ctrl.OnPointerUp(RawSelection{ContentID: "passage-1", EndRun: 0})
	ctrl.OnHighlightClick("passage-1", "some-id", Rect{})
	ctrl.ApplyHighlight(yellow)
	ctrl.ClearHighlight()

	assert.False(t, ctrl.Mounted())
	assert.Empty(t, store.Query("passage-1"))
}

func TestApplyHighlightFromSelection(t *testing.T) {
	ctrl, store := mountedController(t)

	ctrl.OnPointerUp(RawSelection{
		ContentID: "passage-1", StartRun: 1, StartOffsetInRun: 0, EndRun: 1, EndOffsetInRun: 5,
	})
	ctrl.ApplyHighlight(yellow)

	got := store.Query("passage-1")
	require.Len(t, got, 1)
	assert.Equal(t, "quick", got[0].Text)
	assert.Equal(t, 4, got[0].StartOffset)
	assert.Equal(t, 9, got[0].EndOffset)

	// Both actions collapse the selection and hide the popup.
	assert.False(t, ctrl.Popup().Visible)
	_, active := ctrl.ActiveSelection()
	assert.False(t, active)
}

func TestHighlightClickResolvesStoredRange(t *testing.T) {
	ctrl, store := mountedController(t)
	h := store.Add("passage-1", 4, 9, "quick", yellow)

	ctrl.OnHighlightClick("passage-1", h.ID, Rect{X: 50, Y: 100})

	sel, ok := ctrl.ActiveSelection()
	require.True(t, ok)
	assert.Equal(t, h.ID, sel.HighlightID)
	assert.Equal(t, 4, sel.StartOffset)
	assert.Equal(t, 9, sel.EndOffset)
	assert.True(t, ctrl.Popup().Visible)
}

func TestApplyReplacesClickedHighlight(t *testing.T) {
	ctrl, store := mountedController(t)
	h := store.Add("passage-1", 4, 9, "quick", yellow)

	ctrl.OnHighlightClick("passage-1", h.ID, Rect{})
	ctrl.ApplyHighlight(map[string]string{"textDecoration": "underline"})

	got := store.Query("passage-1")
	require.Len(t, got, 1, "restyle replaces, never merges")
	assert.NotEqual(t, h.ID, got[0].ID)
	assert.Equal(t, "underline", got[0].Style["textDecoration"])
	assert.Equal(t, 4, got[0].StartOffset)
	assert.Equal(t, 9, got[0].EndOffset)
}

func TestClearRemovesClickedHighlightOnly(t *testing.T) {
	ctrl, store := mountedController(t)
	clicked := store.Add("passage-1", 4, 9, "quick", yellow)
	other := store.Add("passage-1", 10, 15, "brown", yellow)

	ctrl.OnHighlightClick("passage-1", clicked.ID, Rect{})
	ctrl.ClearHighlight()

	got := store.Query("passage-1")
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)
}

func TestClearRemovesAllOverlappingHighlights(t *testing.T) {
	ctrl, store := mountedController(t)
	store.Add("passage-1", 0, 6, "The qu", nil)
	store.Add("passage-1", 7, 12, "ck br", nil)
	kept := store.Add("passage-1", 20, 25, "ps ov", nil)

	// Drag-select [4, 9) which overlaps the first two highlights.
	ctrl.OnPointerUp(RawSelection{
		ContentID: "passage-1", StartRun: 1, StartOffsetInRun: 0, EndRun: 1, EndOffsetInRun: 5,
	})
	ctrl.ClearHighlight()

	got := store.Query("passage-1")
	require.Len(t, got, 1, "one clear may remove several overlapping highlights")
	assert.Equal(t, kept.ID, got[0].ID)
}

func TestClearWithNoOverlapRemovesNothing(t *testing.T) {
	ctrl, store := mountedController(t)
	store.Add("passage-1", 20, 25, "ps ov", nil)

	ctrl.OnPointerUp(RawSelection{
		ContentID: "passage-1", StartRun: 1, StartOffsetInRun: 0, EndRun: 1, EndOffsetInRun: 5,
	})
	ctrl.ClearHighlight()

	assert.Len(t, store.Query("passage-1"), 1)
}

func TestDetachDropsSelection(t *testing.T) {
	ctrl, _ := mountedController(t)
	ctrl.OnPointerUp(RawSelection{
		ContentID: "passage-1", StartRun: 1, StartOffsetInRun: 0, EndRun: 1, EndOffsetInRun: 5,
	})

	ctrl.Detach()

	assert.False(t, ctrl.Mounted())
	assert.False(t, ctrl.Popup().Visible)
	_, ok := ctrl.ActiveSelection()
	assert.False(t, ok)
}
