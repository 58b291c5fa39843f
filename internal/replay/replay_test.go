package replay

import (
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState(0)
	if s.Frame != 0 {
		t.Errorf("Frame = %d, want 0", s.Frame)
	}
	if s.Status != StatusPaused {
		t.Errorf("Status = %q, want paused", s.Status)
	}
	if s.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want default %v", s.Interval, DefaultInterval)
	}
}

func TestStartPause(t *testing.T) {
	t.Run("start_flips_to_playing", func(t *testing.T) {
		s := NewState(0)
		s.Start(10)
		if !s.Playing() {
			t.Fatal("not playing after Start")
		}
	})

	t.Run("start_while_playing_is_noop", func(t *testing.T) {
		s := NewState(0)
		s.Start(10)
		s.Frame = 4
		s.Start(10)
		if s.Frame != 4 || !s.Playing() {
			t.Fatalf("state = frame %d status %q, want frame 4 playing", s.Frame, s.Status)
		}
	})

	t.Run("start_at_end_rewinds_to_zero", func(t *testing.T) {
		s := NewState(0)
		s.Frame = 9
		s.Start(10)
		if s.Frame != 0 {
			t.Errorf("Frame = %d, want rewind to 0", s.Frame)
		}
		if !s.Playing() {
			t.Error("not playing after restart from end")
		}
	})

	t.Run("start_with_no_bars_is_noop", func(t *testing.T) {
		s := NewState(0)
		s.Start(0)
		if s.Playing() {
			t.Error("playing with an empty table")
		}
	})

	t.Run("pause_keeps_frame", func(t *testing.T) {
		s := NewState(0)
		s.Start(10)
		s.Frame = 3
		s.Pause()
		if s.Playing() || s.Frame != 3 {
			t.Fatalf("state = frame %d status %q, want frame 3 paused", s.Frame, s.Status)
		}
	})
}

func TestAdvanceHaltsAtEnd(t *testing.T) {
	s := NewState(0)
	s.Start(3)

	moves := 0
	for i := 0; i < 5; i++ {
		if s.Advance(3) {
			moves++
		}
	}

	if moves != 2 {
		t.Errorf("frame moved %d times, want 2 for a 3-bar table", moves)
	}
	if s.Frame != 2 {
		t.Errorf("Frame = %d, want to stay on last bar 2", s.Frame)
	}
	if s.Playing() {
		t.Error("still playing after reaching the last bar")
	}
}

func TestAdvanceWhilePausedIsNoop(t *testing.T) {
	s := NewState(0)
	if s.Advance(10) {
		t.Error("Advance moved a paused state")
	}
	if s.Frame != 0 {
		t.Errorf("Frame = %d, want 0", s.Frame)
	}
}

func TestReset(t *testing.T) {
	s := NewState(0)
	s.Start(10)
	s.Advance(10)
	s.Advance(10)
	s.Reset()
	if s.Frame != 0 {
		t.Errorf("Frame = %d, want 0", s.Frame)
	}
	if s.Playing() {
		t.Error("playing after Reset")
	}
}

func TestStep(t *testing.T) {
	t.Run("step_advances_paused_state", func(t *testing.T) {
		s := NewState(0)
		if err := s.Step(3); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if s.Frame != 1 {
			t.Errorf("Frame = %d, want 1", s.Frame)
		}
	})

	t.Run("step_clamps_at_last_bar", func(t *testing.T) {
		s := NewState(0)
		s.Frame = 2
		if err := s.Step(3); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if s.Frame != 2 {
			t.Errorf("Frame = %d, want to stay at 2", s.Frame)
		}
	})

	t.Run("step_while_playing_is_an_error", func(t *testing.T) {
		s := NewState(0)
		s.Start(3)
		if err := s.Step(3); err == nil {
			t.Fatal("Step() error = nil while playing")
		}
	})

	t.Run("step_with_no_bars_is_an_error", func(t *testing.T) {
		s := NewState(0)
		if err := s.Step(0); err == nil {
			t.Fatal("Step() error = nil with empty table")
		}
	})
}

func TestSeek(t *testing.T) {
	s := NewState(0)
	if err := s.Seek(7, 10); err != nil {
		t.Fatalf("Seek(7) error = %v", err)
	}
	if s.Frame != 7 {
		t.Errorf("Frame = %d, want 7", s.Frame)
	}

	for _, frame := range []int{-1, 10, 99} {
		if err := s.Seek(frame, 10); err == nil {
			t.Errorf("Seek(%d) error = nil, want out of range", frame)
		}
	}
	if s.Frame != 7 {
		t.Errorf("Frame = %d after failed seeks, want unchanged 7", s.Frame)
	}

	if err := s.Seek(0, 0); err == nil {
		t.Error("Seek into empty table error = nil")
	}
}

func TestClampInterval(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, DefaultInterval},
		{-time.Second, DefaultInterval},
		{10 * time.Millisecond, MinInterval},
		{time.Minute, MaxInterval},
		{750 * time.Millisecond, 750 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := ClampInterval(tc.in); got != tc.want {
			t.Errorf("ClampInterval(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
