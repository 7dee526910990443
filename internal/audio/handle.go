// Package audio manages listening-test playback: one handle per test part,
// display state for each timeline, and the sequencer that chains parts
// together.
package audio

import (
	"fmt"
	"sync"
)

// Events are the playback notifications a handle delivers to a subscriber.
type Events struct {
	Ended          func()
	TimeUpdate     func(seconds float64)
	LoadedMetadata func(duration float64)
}

// Handle is an imperative audio control owned one-per-part by the sequencer.
// It deliberately mirrors what a media element can do without depending on
// any UI framework: play, pause, proportional seek, source switching, and
// event subscription.
type Handle interface {
	Play() error
	Pause()
	// Seek moves playback to fraction f (0..1) of the known duration.
	Seek(fraction float64)
	SetSource(url string)
	Subscribe(events Events) (unsubscribe func())
}

// RemoteHandle is a Handle whose real playback happens on the client. It
// records the commanded state for the client to pick up, and forwards the
// client's progress reports to subscribers through the Report methods.
type RemoteHandle struct {
	mu       sync.Mutex
	source   string
	playing  bool
	seekTo   float64
	duration float64
	nextSub  int
	subs     map[int]Events
}

func NewRemoteHandle() *RemoteHandle {
	return &RemoteHandle{subs: make(map[int]Events)}
}

func (h *RemoteHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.source == "" {
		return fmt.Errorf("no audio source set")
	}
	h.playing = true
	return nil
}

func (h *RemoteHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
}

func (h *RemoteHandle) Seek(fraction float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	h.seekTo = fraction
}

func (h *RemoteHandle) SetSource(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = url
	h.playing = false
	h.seekTo = 0
	h.duration = 0
}

// Playing reports whether the handle has been commanded to play.
func (h *RemoteHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Source returns the currently commanded audio URL.
func (h *RemoteHandle) Source() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.source
}

// SeekFraction returns the last commanded seek position.
func (h *RemoteHandle) SeekFraction() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seekTo
}

func (h *RemoteHandle) Subscribe(events Events) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = events
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// ReportEnded is called when the client reports its element finished.
func (h *RemoteHandle) ReportEnded() {
	h.mu.Lock()
	h.playing = false
	subs := h.snapshot()
	h.mu.Unlock()
	for _, s := range subs {
		if s.Ended != nil {
			s.Ended()
		}
	}
}

// ReportTime forwards a client timeupdate.
func (h *RemoteHandle) ReportTime(seconds float64) {
	h.mu.Lock()
	subs := h.snapshot()
	h.mu.Unlock()
	for _, s := range subs {
		if s.TimeUpdate != nil {
			s.TimeUpdate(seconds)
		}
	}
}

// ReportMetadata forwards the client's loadedmetadata duration.
func (h *RemoteHandle) ReportMetadata(duration float64) {
	h.mu.Lock()
	h.duration = duration
	subs := h.snapshot()
	h.mu.Unlock()
	for _, s := range subs {
		if s.LoadedMetadata != nil {
			s.LoadedMetadata(duration)
		}
	}
}

func (h *RemoteHandle) snapshot() []Events {
	out := make([]Events, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s)
	}
	return out
}
