package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fennwick/barboard/internal/notify"
	"github.com/fennwick/barboard/internal/replay"
	"github.com/fennwick/barboard/internal/session"
	"github.com/fennwick/barboard/internal/stream"
)

// tickerSet tracks the auto-advance goroutine per playing session.
type tickerSet struct {
	mu    sync.Mutex
	stops map[string]chan struct{}
	wg    sync.WaitGroup
}

func (ts *tickerSet) stop(id string) {
	ts.mu.Lock()
	if stop, ok := ts.stops[id]; ok {
		close(stop)
		delete(ts.stops, id)
	}
	ts.mu.Unlock()
}

// remove drops a finished ticker's own entry. The channel identity check
// keeps a replacement ticker registered by a concurrent start intact.
func (ts *tickerSet) remove(id string, stop chan struct{}) {
	ts.mu.Lock()
	if cur, ok := ts.stops[id]; ok && cur == stop {
		delete(ts.stops, id)
	}
	ts.mu.Unlock()
}

func (ts *tickerSet) stopAll() {
	ts.mu.Lock()
	for id, stop := range ts.stops {
		close(stop)
		delete(ts.stops, id)
	}
	ts.mu.Unlock()
	ts.wg.Wait()
}

// startTicker begins auto-advance for the session. An existing ticker for
// the same session is replaced, so a start racing a completion can never
// leave a playing session without one.
func (s *Service) startTicker(sess *session.Session) {
	id := sess.ID()
	s.tickers.mu.Lock()
	if old, ok := s.tickers.stops[id]; ok {
		close(old)
	}
	stop := make(chan struct{})
	s.tickers.stops[id] = stop
	s.tickers.wg.Add(1)
	s.tickers.mu.Unlock()

	go s.runTicker(sess, stop)
}

// runTicker advances the session one frame per interval until it is
// stopped, paused elsewhere, or the replay reaches the last bar. The
// interval is re-read every loop so pace changes apply mid-flight.
func (s *Service) runTicker(sess *session.Session, stop chan struct{}) {
	defer s.tickers.wg.Done()
	defer s.tickers.remove(sess.ID(), stop)

	timer := time.NewTimer(sess.Interval())
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		snap, moved, completed := sess.Tick()
		if moved {
			s.publish(stream.KindFrame, snap)
		}
		if completed {
			s.publish(stream.KindCompleted, snap)
			s.announceCompletion(snap)
			return
		}
		if snap.Status != replay.StatusPlaying {
			return
		}
		timer.Reset(sess.Interval())
	}
}

// announceCompletion fires the optional ntfy webhook. Failures are logged
// and dropped; notifications never touch replay state.
func (s *Service) announceCompletion(snap session.Snapshot) {
	if s.ntfy == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := notify.SendReplayComplete(ctx, s.client, s.ntfy, s.ds.Symbol, snap.ID, snap.TotalBars)
	if err != nil {
		slog.Warn("replay completion notification failed", "session_id", snap.ID, "error", err)
	}
}
