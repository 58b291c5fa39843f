// Package session owns the per-viewer mutable state: the replay playhead
// and the chat transcript. Every mutation goes through a session method
// that holds the session mutex and bumps a revision counter, so state
// transitions are serialized and observers can tell stale snapshots from
// fresh ones. Nothing mutates replay or transcript state outside these
// methods.
package session

import (
	"sync"
	"time"

	"github.com/fennwick/barboard/internal/replay"
)

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one transcript entry. The transcript is append-only; the only
// sanctioned truncation is an explicit clear.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Snapshot is an immutable view of a session handed to the API and the
// event stream.
type Snapshot struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Frame      int           `json:"frame"`
	Status     replay.Status `json:"status"`
	IntervalMS int           `json:"interval_ms"`
	AtEnd      bool          `json:"at_end"`
	TotalBars  int           `json:"total_bars"`
	TurnCount  int           `json:"turn_count"`
	Revision   int64         `json:"revision"`
}

// Session is one viewer's replay + chat context. Fields are guarded by mu;
// use the Apply/Tick/transcript methods, never direct access.
type Session struct {
	id        string
	createdAt time.Time
	total     int

	mu       sync.Mutex
	lastSeen time.Time
	state    replay.State
	turns    []Turn
	revision int64
}

// New returns a paused session at frame 0 over a table of total bars.
func New(id string, total int, interval time.Duration) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		createdAt: now,
		lastSeen:  now,
		total:     total,
		state:     replay.NewState(interval),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Interval returns the current tick interval.
func (s *Session) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Interval
}

// LastSeen returns the time of the last touch.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// View returns the current snapshot without mutating anything.
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() Snapshot {
	return Snapshot{
		ID:         s.id,
		CreatedAt:  s.createdAt,
		Frame:      s.state.Frame,
		Status:     s.state.Status,
		IntervalMS: int(s.state.Interval / time.Millisecond),
		AtEnd:      s.state.AtEnd(s.total),
		TotalBars:  s.total,
		TurnCount:  len(s.turns),
		Revision:   s.revision,
	}
}

// ApplyStart starts playback and reports the post-event snapshot plus
// whether the event changed anything (a started session needs a ticker).
func (s *Session) ApplyStart() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.state
	s.state.Start(s.total)
	changed := s.state != was
	if changed {
		s.bumpLocked()
	}
	return s.viewLocked(), changed
}

// ApplyPause pauses playback.
func (s *Session) ApplyPause() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.state
	s.state.Pause()
	changed := s.state != was
	if changed {
		s.bumpLocked()
	}
	return s.viewLocked(), changed
}

// ApplyReset rewinds to frame 0 and pauses.
func (s *Session) ApplyReset() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.state
	s.state.Reset()
	changed := s.state != was
	if changed {
		s.bumpLocked()
	}
	return s.viewLocked(), changed
}

// ApplyStep advances one frame while paused.
func (s *Session) ApplyStep() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Step(s.total); err != nil {
		return s.viewLocked(), err
	}
	s.bumpLocked()
	return s.viewLocked(), nil
}

// ApplySeek jumps to an absolute frame.
func (s *Session) ApplySeek(frame int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.Seek(frame, s.total); err != nil {
		return s.viewLocked(), err
	}
	s.bumpLocked()
	return s.viewLocked(), nil
}

// ApplySetInterval updates the tick pace.
func (s *Session) ApplySetInterval(d time.Duration) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetInterval(d)
	s.bumpLocked()
	return s.viewLocked()
}

// Tick advances the playhead one frame on behalf of the ticker. It reports
// whether the frame moved and whether this tick completed the replay
// (reached the last bar and halted).
func (s *Session) Tick() (snap Snapshot, moved, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasPlaying := s.state.Playing()
	moved = s.state.Advance(s.total)
	completed = wasPlaying && !s.state.Playing() && s.state.AtEnd(s.total)
	if moved || completed {
		s.bumpLocked()
	}
	return s.viewLocked(), moved, completed
}

// Frame returns the current frame index.
func (s *Session) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Frame
}

// AppendTurn adds one transcript entry.
func (s *Session) AppendTurn(role, content string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Content: content, At: time.Now()})
	s.bumpLocked()
	return s.viewLocked()
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// ClearTranscript drops all turns. This is the only way the transcript
// shrinks.
func (s *Session) ClearTranscript() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.bumpLocked()
	return s.viewLocked()
}

func (s *Session) bumpLocked() {
	s.revision++
	s.lastSeen = time.Now()
}
