// Package replay holds the bar-replay state machine: which frame of the
// table is visible and whether the playhead is advancing. The state is a
// plain value with no locking; the owning session serializes every
// mutation, so each transition here is deterministic given the current
// state and the event applied.
package replay

import (
	"fmt"
	"time"
)

// Status is the playhead state.
type Status string

const (
	StatusPaused  Status = "paused"
	StatusPlaying Status = "playing"
)

// Tick interval bounds. Requests outside the range are clamped, not
// rejected, so a sloppy client cannot wedge the ticker.
const (
	MinInterval     = 50 * time.Millisecond
	MaxInterval     = 5 * time.Second
	DefaultInterval = 300 * time.Millisecond
)

// State is the replay playhead. Frame indexes the last visible bar; a
// fresh state shows only the first bar, paused.
type State struct {
	Frame    int           `json:"frame"`
	Status   Status        `json:"status"`
	Interval time.Duration `json:"-"`
}

// NewState returns a paused state at frame 0.
func NewState(interval time.Duration) State {
	return State{Frame: 0, Status: StatusPaused, Interval: ClampInterval(interval)}
}

// ClampInterval bounds a tick interval. Zero or negative falls back to the
// default rather than the minimum, so "unset" keeps the stock pace.
func ClampInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultInterval
	}
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// Playing reports whether the playhead is advancing.
func (s *State) Playing() bool {
	return s.Status == StatusPlaying
}

// AtEnd reports whether the frame sits on the last bar.
func (s *State) AtEnd(total int) bool {
	return total > 0 && s.Frame >= total-1
}

// Start begins playback. Starting from the last bar rewinds to the first,
// so the play button doubles as replay-from-start once a run completes.
// Starting an already playing state is a no-op.
func (s *State) Start(total int) {
	if s.Playing() || total == 0 {
		return
	}
	if s.AtEnd(total) {
		s.Frame = 0
	}
	s.Status = StatusPlaying
}

// Pause stops playback at the current frame.
func (s *State) Pause() {
	s.Status = StatusPaused
}

// Reset rewinds to frame 0 and pauses.
func (s *State) Reset() {
	s.Frame = 0
	s.Status = StatusPaused
}

// Advance moves the playhead one frame on a ticker tick. Reaching the last
// bar halts: the frame stays on the final row and the status flips to
// paused, so a completed replay is observable rather than wrapping around.
// It reports whether the frame moved.
func (s *State) Advance(total int) bool {
	if !s.Playing() || total == 0 {
		return false
	}
	if s.Frame+1 >= total {
		s.Status = StatusPaused
		return false
	}
	s.Frame++
	if s.Frame == total-1 {
		s.Status = StatusPaused
	}
	return true
}

// Step moves one frame forward while paused, clamped to the last bar.
// Playing states reject manual steps; pause first.
func (s *State) Step(total int) error {
	if s.Playing() {
		return fmt.Errorf("cannot step while playing")
	}
	if total == 0 {
		return fmt.Errorf("no bars to step through")
	}
	if s.Frame+1 < total {
		s.Frame++
	}
	return nil
}

// Seek jumps to an absolute frame. Out-of-range frames are an error so the
// API can report the valid bounds instead of silently clamping.
func (s *State) Seek(frame, total int) error {
	if total == 0 {
		return fmt.Errorf("no bars to seek into")
	}
	if frame < 0 || frame >= total {
		return fmt.Errorf("frame %d out of range [0, %d]", frame, total-1)
	}
	s.Frame = frame
	return nil
}

// SetInterval updates the tick pace, clamped to the allowed range.
func (s *State) SetInterval(d time.Duration) {
	s.Interval = ClampInterval(d)
}
