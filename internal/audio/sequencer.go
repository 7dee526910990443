package audio

import (
	"fmt"
	"sync"

	"github.com/ielts-prep/session-service/internal/utils"
)

// TrackState mirrors the displayed state of one part's timeline.
type TrackState struct {
	Playing     bool    `json:"playing"`
	Ended       bool    `json:"ended"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}

// Progress returns the timeline fill percentage.
func (t TrackState) Progress() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return t.CurrentTime / t.Duration * 100
}

// CurrentDisplay formats the elapsed time as mm:ss.
func (t TrackState) CurrentDisplay() string {
	return formatTime(t.CurrentTime)
}

// DurationDisplay formats the total duration as mm:ss.
func (t TrackState) DurationDisplay() string {
	return formatTime(t.Duration)
}

func formatTime(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// Sequencer owns one playback handle per test part. It keeps each part's
// display state in sync with handle events and reports part completion to a
// single callback; the session engine decides what happens next (silent gap,
// next part, end of audio).
//
// Display state is touched from two directions: session-locked calls (play,
// pause, seek) and handle event callbacks, which arrive outside the session
// lock. The sequencer's own mutex covers both. The part-ended callback is
// invoked without it held so it may re-enter the session.
type Sequencer struct {
	mu          sync.Mutex
	handles     []Handle
	states      []TrackState
	logger      utils.Logger
	onPartEnded func(partIndex int)
	unsubs      []func()
}

func NewSequencer(handles []Handle, logger utils.Logger) *Sequencer {
	return &Sequencer{
		handles: handles,
		states:  make([]TrackState, len(handles)),
		logger:  logger,
	}
}

// Attach subscribes to every handle and registers the part-ended callback.
// It must be paired with Close so no subscription outlives the session.
func (s *Sequencer) Attach(onPartEnded func(partIndex int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPartEnded = onPartEnded
	for i, handle := range s.handles {
		i := i
		unsub := handle.Subscribe(Events{
			Ended:          func() { s.handleEnded(i) },
			TimeUpdate:     func(seconds float64) { s.setCurrentTime(i, seconds) },
			LoadedMetadata: func(duration float64) { s.setDuration(i, duration) },
		})
		s.unsubs = append(s.unsubs, unsub)
	}
}

// Load points each handle at its part's audio URL. Switching a source
// resets that part's elapsed/duration/ended display state.
func (s *Sequencer) Load(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, handle := range s.handles {
		if i >= len(urls) {
			break
		}
		handle.SetSource(urls[i])
		s.states[i] = TrackState{}
	}
}

// PlayPart starts playback of one part. Start failures (autoplay policy,
// missing source) are logged and left for the user to resolve manually.
func (s *Sequencer) PlayPart(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.handles) {
		return
	}
	if err := s.handles[index].Play(); err != nil {
		s.logger.Warn("audio playback failed to start", "part_index", index, "error", err)
		return
	}
	s.states[index].Playing = true
	s.states[index].Ended = false
}

func (s *Sequencer) PausePart(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.handles) {
		return
	}
	s.handles[index].Pause()
	s.states[index].Playing = false
}

// SeekTimeline seeks part playback to horizontal fraction f of its timeline.
func (s *Sequencer) SeekTimeline(index int, fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.handles) {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s.handles[index].Seek(fraction)
	if s.states[index].Duration > 0 {
		s.states[index].CurrentTime = fraction * s.states[index].Duration
	}
}

// State returns the display state of one part's timeline.
func (s *Sequencer) State(index int) TrackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.states) {
		return TrackState{}
	}
	return s.states[index]
}

func (s *Sequencer) PartCount() int {
	return len(s.handles)
}

// HasNext reports whether another part follows index.
func (s *Sequencer) HasNext(index int) bool {
	return index+1 < len(s.handles)
}

func (s *Sequencer) setCurrentTime(index int, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[index].CurrentTime = seconds
}

func (s *Sequencer) setDuration(index int, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[index].Duration = duration
}

// handleEnded releases the mutex before firing the callback: the session's
// part-ended handler takes the session lock, which may itself be held by a
// caller waiting on this sequencer.
func (s *Sequencer) handleEnded(index int) {
	s.mu.Lock()
	s.states[index].Playing = false
	s.states[index].Ended = true
	onPartEnded := s.onPartEnded
	s.mu.Unlock()
	if onPartEnded != nil {
		onPartEnded(index)
	}
}

// Close detaches every handle subscription. Safe to call more than once.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.onPartEnded = nil
}
