// Package session runs timed test attempts. The engine keeps one Session per
// open attempt; each session owns the phase machine, the countdown timers,
// the answer map, the highlight store and, for listening tests, the audio
// sequencer. All mutation of a session happens under its lock, so operations
// on one session are serialized no matter which goroutine drives them.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ielts-prep/session-service/internal/audio"
	"github.com/ielts-prep/session-service/internal/backend"
	"github.com/ielts-prep/session-service/internal/cache"
	"github.com/ielts-prep/session-service/internal/events"
	"github.com/ielts-prep/session-service/internal/highlight"
	"github.com/ielts-prep/session-service/internal/models"
	"github.com/ielts-prep/session-service/internal/utils"
)

// Timing holds the countdown durations in whole seconds.
type Timing struct {
	ReadingSeconds     int
	ReviewGapSeconds   int
	FinalReviewSeconds int
}

// DefaultTiming mirrors the official exam: one hour of reading, two minute
// review windows between and after listening parts.
func DefaultTiming() Timing {
	return Timing{
		ReadingSeconds:     3600,
		ReviewGapSeconds:   120,
		FinalReviewSeconds: 120,
	}
}

// Engine opens, resumes and tracks sessions.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*Session

	backend   backend.Client
	snapshots cache.SnapshotStore
	publisher events.EventPublisher
	logger    utils.Logger
	clock     Clock
	timing    Timing
}

func NewEngine(b backend.Client, snapshots cache.SnapshotStore, publisher events.EventPublisher, clock Clock, timing Timing, logger utils.Logger) *Engine {
	return &Engine{
		sessions:  make(map[string]*Session),
		backend:   b,
		snapshots: snapshots,
		publisher: publisher,
		logger:    logger,
		clock:     clock,
		timing:    timing,
	}
}

// Open loads the test content, starts a backend attempt and registers a new
// pending session.
func (e *Engine) Open(ctx context.Context, source, testNumber string, skill models.Skill) (*Session, error) {
	if !skill.Valid() {
		return nil, ErrUnsupportedSkill
	}
	parts, err := e.backend.LoadFullTest(ctx, source, testNumber, skill)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	attempt, err := e.backend.StartAttempt(ctx, source, testNumber, skill)
	if err != nil {
		return nil, err
	}

	s := e.newSession(source, testNumber, skill, parts, attempt.AttemptID)
	e.register(s)

	e.publish(ctx, events.NewEvent(events.EventSessionOpened, events.SessionStartedEvent{
		SessionID:  s.id,
		AttemptID:  s.attemptID,
		Skill:      skill,
		TestNumber: testNumber,
	}))
	return s, nil
}

// Resume rebuilds a session from its saved snapshot. The snapshot's attempt
// is re-activated on the backend before the session becomes available.
func (e *Engine) Resume(ctx context.Context, sessionID string) (*Session, error) {
	snap, err := e.snapshots.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	parts, err := e.backend.LoadFullTest(ctx, snap.Source, snap.TestNumber, snap.Skill)
	if err != nil {
		return nil, err
	}
	if err := e.backend.ResumeAttempt(ctx, snap.State.AttemptID); err != nil {
		return nil, err
	}

	s := e.newSession(snap.Source, snap.TestNumber, snap.Skill, parts, snap.State.AttemptID)
	s.id = sessionID
	s.partIndex = snap.State.CurrentPartIndex
	s.resumeSeconds = snap.State.TimeRemaining
	for id, a := range snap.State.Answers {
		s.answers[id] = a
	}
	s.highlights.Restore(snap.Highlights)
	e.register(s)

	e.publish(ctx, events.NewEvent(events.EventSessionResumed, events.SessionStartedEvent{
		SessionID:  s.id,
		AttemptID:  s.attemptID,
		Skill:      snap.Skill,
		TestNumber: snap.TestNumber,
	}))
	return s, nil
}

// Get returns a registered session.
func (e *Engine) Get(sessionID string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove tears the session down and drops it from the registry. The attempt
// itself is untouched; use Session.Exit first to save or abandon it.
func (e *Engine) Remove(sessionID string) {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (e *Engine) newSession(source, testNumber string, skill models.Skill, parts []models.TestPart, attemptID string) *Session {
	store := highlight.NewStore()
	questionTypes := make(map[string]models.QuestionType)
	for _, part := range parts {
		for _, q := range part.Questions {
			questionTypes[q.ID] = q.QuestionType
		}
	}

	s := &Session{
		id:            uuid.NewString(),
		source:        source,
		testNumber:    testNumber,
		skill:         skill,
		attemptID:     attemptID,
		parts:         parts,
		questionTypes: questionTypes,
		phase:         models.PhasePending,
		autoplay:      true,
		answers:       make(map[string]models.Answer),
		highlights:    store,
		selection:     highlight.NewController(store),
		engine:        e,
	}

	if skill == models.SkillListening {
		handles := make([]audio.Handle, len(parts))
		s.remotes = make([]*audio.RemoteHandle, len(parts))
		urls := make([]string, len(parts))
		for i, part := range parts {
			remote := audio.NewRemoteHandle()
			s.remotes[i] = remote
			handles[i] = remote
			urls[i] = part.AudioURL
		}
		s.sequencer = audio.NewSequencer(handles, e.logger)
		s.sequencer.Load(urls)
		s.sequencer.Attach(s.onPartEnded)
	}
	return s
}

func (e *Engine) register(s *Session) {
	e.mu.Lock()
	e.sessions[s.id] = s
	e.mu.Unlock()
}

func (e *Engine) publish(ctx context.Context, event *events.SessionEvent) {
	if err := e.publisher.PublishSessionEvent(ctx, event); err != nil {
		e.logger.Error("failed to publish session event", "event_type", event.Type, "error", err)
	}
}

// Session is one attempt in progress.
type Session struct {
	mu sync.Mutex

	id         string
	source     string
	testNumber string
	skill      models.Skill
	attemptID  string

	parts         []models.TestPart
	questionTypes map[string]models.QuestionType

	phase     models.SessionPhase
	partIndex int
	autoplay  bool
	answers   map[string]models.Answer

	highlights *highlight.Store
	selection  *highlight.Controller

	sequencer *audio.Sequencer
	remotes   []*audio.RemoteHandle

	timer         *Countdown
	resumeSeconds int
	score         int
	closed        bool

	engine *Engine
}

// ID returns the session identifier clients use on every call.
func (s *Session) ID() string { return s.id }

// Skill returns the skill the session was opened for.
func (s *Session) Skill() models.Skill { return s.skill }

// Parts returns the loaded test content. The slice is shared and must be
// treated as read-only.
func (s *Session) Parts() []models.TestPart { return s.parts }

// Highlights exposes the session's highlight store for rendering.
func (s *Session) Highlights() *highlight.Store { return s.highlights }

// Selection exposes the text selection controller.
func (s *Session) Selection() *highlight.Controller { return s.selection }

// Start moves the session out of PENDING. Reading arms the main countdown;
// listening starts the first part's audio.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != models.PhasePending {
		return phaseErr("start", s.phase)
	}
	s.phase = models.PhaseRunning

	if s.skill == models.SkillReading {
		seconds := s.engine.timing.ReadingSeconds
		if s.resumeSeconds > 0 {
			seconds = s.resumeSeconds
		}
		s.armTimer(seconds, func() { s.submitLocked(context.Background(), true) })
	} else {
		s.sequencer.PlayPart(s.partIndex)
	}

	s.engine.publish(ctx, events.NewEvent(events.EventSessionStarted, events.SessionStartedEvent{
		SessionID:  s.id,
		AttemptID:  s.attemptID,
		Skill:      s.skill,
		TestNumber: s.testNumber,
		StartedAt:  time.Now(),
	}))
	return nil
}

// Answer records the value a widget reported for a question. Multi-select
// questions toggle the value in and out of the stored set; a cleared
// single-value answer removes the entry.
func (s *Session) Answer(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.phase.Active() {
		return phaseErr("answer", s.phase)
	}
	qt, ok := s.questionTypes[questionID]
	if !ok {
		return ErrUnknownQuestion
	}

	if qt.MultiSelect() {
		next := models.ToggleMulti(s.answers[questionID].Values, value)
		if len(next) == 0 {
			delete(s.answers, questionID)
		} else {
			s.answers[questionID] = models.Answer{Values: next}
		}
		return nil
	}

	if value == "" {
		delete(s.answers, questionID)
		return nil
	}
	s.answers[questionID] = models.SingleAnswer(value)
	return nil
}

// Navigate switches the active part. Reading navigates freely; listening
// parts advance only with the audio.
func (s *Session) Navigate(partIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.phase.Active() {
		return phaseErr("navigate", s.phase)
	}
	if s.skill == models.SkillListening {
		return ErrNavigationLocked
	}
	if partIndex < 0 || partIndex >= len(s.parts) {
		return ErrPartOutOfRange
	}
	s.partIndex = partIndex
	return nil
}

// SetAutoplay toggles automatic part chaining for a listening test. With
// autoplay off, a finished part leaves the next one waiting for a manual
// play instead of opening a gap countdown.
func (s *Session) SetAutoplay(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.skill != models.SkillListening {
		return ErrUnsupportedSkill
	}
	s.autoplay = enabled
	return nil
}

// Autoplay reports whether finished parts chain into the next one.
func (s *Session) Autoplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoplay
}

// AudioEnded is how the client reports that a part's audio finished playing.
// The report feeds the remote handle, which drives the sequencer and in turn
// the phase machine.
func (s *Session) AudioEnded(partIndex int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.skill != models.SkillListening {
		s.mu.Unlock()
		return ErrUnsupportedSkill
	}
	if partIndex < 0 || partIndex >= len(s.remotes) {
		s.mu.Unlock()
		return ErrPartOutOfRange
	}
	remote := s.remotes[partIndex]
	s.mu.Unlock()

	// Fired without the lock held: the ended event re-enters the session
	// through onPartEnded.
	remote.ReportEnded()
	return nil
}

// AudioTime reports playback position for a part. Held under the session
// lock: the time update only mutates sequencer display state.
func (s *Session) AudioTime(partIndex int, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if partIndex >= 0 && partIndex < len(s.remotes) {
		s.remotes[partIndex].ReportTime(seconds)
	}
}

// AudioMetadata reports a part's duration once the client has loaded it.
func (s *Session) AudioMetadata(partIndex int, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if partIndex >= 0 && partIndex < len(s.remotes) {
		s.remotes[partIndex].ReportMetadata(duration)
	}
}

// AudioState returns the tracked playback state of a part.
func (s *Session) AudioState(partIndex int) audio.TrackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sequencer == nil {
		return audio.TrackState{}
	}
	return s.sequencer.State(partIndex)
}

// SeekAudio moves a part's playback to the given timeline fraction.
func (s *Session) SeekAudio(partIndex int, fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sequencer != nil {
		s.sequencer.SeekTimeline(partIndex, fraction)
	}
}

// onPartEnded runs when a listening part's audio finishes. With autoplay on
// and parts left it opens the review gap, whose expiry starts the next part
// by itself; with autoplay off the part index moves on but playback waits
// for a manual play. After the last part it opens the final review either
// way.
func (s *Session) onPartEnded(partIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase != models.PhaseRunning || partIndex != s.partIndex {
		return
	}

	if s.sequencer.HasNext(partIndex) {
		if !s.autoplay {
			s.partIndex++
			s.engine.publish(context.Background(), events.NewEvent(events.EventPartAdvanced, events.PartAdvancedEvent{
				SessionID: s.id, AttemptID: s.attemptID, PartIndex: s.partIndex,
			}))
			return
		}
		s.phase = models.PhaseReviewGap
		s.armTimer(s.engine.timing.ReviewGapSeconds, s.advanceLocked)
		s.engine.publish(context.Background(), events.NewEvent(events.EventReviewGapStarted, events.PartAdvancedEvent{
			SessionID: s.id, AttemptID: s.attemptID, PartIndex: s.partIndex,
		}))
		return
	}

	s.phase = models.PhaseFinalReview
	s.armTimer(s.engine.timing.FinalReviewSeconds, func() { s.submitLocked(context.Background(), true) })
	s.engine.publish(context.Background(), events.NewEvent(events.EventFinalReviewStarted, events.PartAdvancedEvent{
		SessionID: s.id, AttemptID: s.attemptID, PartIndex: s.partIndex,
	}))
}

// advanceLocked closes the review gap: move to the next part and start its
// audio, exactly once. Caller holds the lock.
func (s *Session) advanceLocked() {
	if s.closed || s.phase != models.PhaseReviewGap {
		return
	}
	s.stopTimer()
	s.partIndex++
	s.phase = models.PhaseRunning
	s.sequencer.PlayPart(s.partIndex)
	s.engine.publish(context.Background(), events.NewEvent(events.EventPartAdvanced, events.PartAdvancedEvent{
		SessionID: s.id, AttemptID: s.attemptID, PartIndex: s.partIndex,
	}))
}

// Submit sends the answers for grading. A manual submit and a timer-forced
// submit can race; whichever enters first wins and the loser is a no-op.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	switch s.phase {
	case models.PhaseSubmitting:
		return ErrSubmitInProgress
	case models.PhaseDone:
		return ErrAlreadySubmitted
	}
	if !s.phase.Active() {
		return phaseErr("submit", s.phase)
	}
	return s.submitLocked(ctx, false)
}

// submitLocked performs the submission. Caller holds the lock. On failure
// the previous phase and its remaining time are restored so the attempt can
// be retried.
func (s *Session) submitLocked(ctx context.Context, forced bool) error {
	if s.phase == models.PhaseSubmitting || s.phase == models.PhaseDone {
		return nil
	}
	prevPhase := s.phase
	prevRemaining := 0
	if s.timer != nil {
		prevRemaining = s.timer.Remaining()
	}
	s.phase = models.PhaseSubmitting
	s.stopTimer()

	result, err := s.engine.backend.SubmitAttempt(ctx, s.attemptID, s.answers)
	if err != nil {
		s.engine.logger.Error("failed to submit attempt",
			"session_id", s.id, "attempt_id", s.attemptID, "forced", forced, "error", err)
		s.phase = prevPhase
		if prevRemaining > 0 && !forced {
			s.armTimer(prevRemaining, s.expiryFor(prevPhase))
		}
		return err
	}

	s.score = result.Score
	s.phase = models.PhaseDone
	s.teardownLocked()
	if err := s.engine.snapshots.Delete(ctx, s.id); err != nil {
		s.engine.logger.Warn("failed to delete session snapshot", "session_id", s.id, "error", err)
	}
	s.engine.publish(ctx, events.NewEvent(events.EventSessionSubmitted, events.SessionSubmittedEvent{
		SessionID:   s.id,
		AttemptID:   s.attemptID,
		Forced:      forced,
		Answered:    len(s.answers),
		SubmittedAt: time.Now(),
	}))
	return nil
}

func (s *Session) expiryFor(phase models.SessionPhase) func() {
	if phase == models.PhaseReviewGap {
		return s.advanceLocked
	}
	return func() { s.submitLocked(context.Background(), true) }
}

// Exit leaves the test before submission. With save set the attempt is
// persisted for resume; otherwise it is deleted. Either way the session is
// torn down and unregistered.
func (s *Session) Exit(ctx context.Context, save bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.phase.Terminal() {
		return phaseErr("exit", s.phase)
	}

	if save {
		remaining := 0
		if s.timer != nil {
			remaining = s.timer.Remaining()
		}
		req := &backend.SaveProgressRequest{
			Answers:       s.copyAnswers(),
			TimeRemaining: remaining,
			PartIndex:     s.partIndex,
		}
		if err := s.engine.backend.SaveProgress(ctx, s.attemptID, req); err != nil {
			return err
		}
		snap := &cache.Snapshot{
			Source:     s.source,
			TestNumber: s.testNumber,
			Skill:      s.skill,
			State:      s.stateLocked(),
			Highlights: s.highlights.Snapshot(),
			SavedAt:    time.Now(),
		}
		if err := s.engine.snapshots.Save(ctx, s.id, snap); err != nil {
			return err
		}
		s.engine.publish(ctx, events.NewEvent(events.EventProgressSaved, events.ProgressSavedEvent{
			SessionID:     s.id,
			AttemptID:     s.attemptID,
			TimeRemaining: remaining,
			PartIndex:     s.partIndex,
		}))
	} else {
		if err := s.engine.backend.DeleteAttempt(ctx, s.attemptID); err != nil {
			return err
		}
		if err := s.engine.snapshots.Delete(ctx, s.id); err != nil {
			s.engine.logger.Warn("failed to delete session snapshot", "session_id", s.id, "error", err)
		}
		s.engine.publish(ctx, events.NewEvent(events.EventSessionAbandoned, events.SessionAbandonedEvent{
			SessionID: s.id,
			AttemptID: s.attemptID,
		}))
	}

	s.teardownLocked()
	s.closed = true
	s.engine.unregister(s.id)
	return nil
}

// Close tears the session down without touching the attempt. Safe to call
// in any phase, any number of times; afterwards no timers remain armed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.teardownLocked()
	s.closed = true
}

// View returns a copy of the externally visible state.
func (s *Session) View() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Score returns the raw score once the session is DONE.
func (s *Session) Score() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, s.phase == models.PhaseDone
}

// AttemptID returns the backend attempt this session drives.
func (s *Session) AttemptID() string {
	return s.attemptID
}

func (s *Session) stateLocked() models.SessionState {
	remaining := 0
	if s.timer != nil {
		remaining = s.timer.Remaining()
	}
	return models.SessionState{
		Phase:            s.phase,
		CurrentPartIndex: s.partIndex,
		TimeRemaining:    remaining,
		Answers:          s.copyAnswers(),
		AttemptID:        s.attemptID,
	}
}

func (s *Session) copyAnswers() map[string]models.Answer {
	copied := make(map[string]models.Answer, len(s.answers))
	for id, a := range s.answers {
		copied[id] = a
	}
	return copied
}

// armTimer replaces the active countdown. The clock tick re-enters through
// the session lock, and ticks for a superseded countdown are dropped.
func (s *Session) armTimer(seconds int, onExpire func()) {
	s.stopTimer()
	c := NewCountdown(seconds, onExpire)
	s.timer = c
	c.stop = s.engine.clock.Schedule(time.Second, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer == c && !s.closed {
			c.Tick()
		}
	})
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// teardownLocked releases every timer and audio subscription. Caller holds
// the lock.
func (s *Session) teardownLocked() {
	s.stopTimer()
	if s.sequencer != nil {
		s.sequencer.Close()
	}
	s.selection.Detach()
}

func (e *Engine) unregister(sessionID string) {
	e.mu.Lock()
	delete(e.sessions, sessionID)
	e.mu.Unlock()
}
