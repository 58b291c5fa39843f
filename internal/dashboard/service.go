// Package dashboard implements the operations behind the HTTP API: one
// loaded bar table, per-viewer replay sessions, the AI chat bridge, and
// chart exports. All domain failures leave here as CodedErrors.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fennwick/barboard/internal/chart"
	"github.com/fennwick/barboard/internal/chat"
	"github.com/fennwick/barboard/internal/export"
	"github.com/fennwick/barboard/internal/market"
	"github.com/fennwick/barboard/internal/session"
	"github.com/fennwick/barboard/internal/stream"
)

const (
	defaultBarsLimit = 100
	maxBarsLimit     = 500
)

// Service wraps every dashboard operation over a single loaded dataset.
type Service struct {
	ds       *market.Dataset
	sessions *session.Manager
	broker   *stream.Broker
	chat     *chat.Service
	exports  *export.Store
	renderer *export.Renderer // nil when no Chromium endpoint is configured
	ntfy     string           // empty disables completion notifications
	client   *http.Client

	tickers tickerSet
}

func NewService(
	ds *market.Dataset,
	sessions *session.Manager,
	broker *stream.Broker,
	chatSvc *chat.Service,
	exports *export.Store,
	renderer *export.Renderer,
	ntfyEndpoint string,
) *Service {
	return &Service{
		ds:       ds,
		sessions: sessions,
		broker:   broker,
		chat:     chatSvc,
		exports:  exports,
		renderer: renderer,
		ntfy:     ntfyEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		tickers:  tickerSet{stops: make(map[string]chan struct{})},
	}
}

// Close stops every replay ticker and waits for them to exit.
func (s *Service) Close() {
	s.tickers.stopAll()
}

// Health describes liveness basics for monitoring and the page header.
type Health struct {
	Status        string `json:"status"`
	Symbol        string `json:"symbol"`
	Bars          int    `json:"bars"`
	Issues        int    `json:"issues"`
	Sessions      int    `json:"sessions"`
	AIConfigured  bool   `json:"ai_configured"`
	AIProvider    string `json:"ai_provider,omitempty"`
	AIModel       string `json:"ai_model,omitempty"`
	RenderEnabled bool   `json:"render_enabled"`
}

func (s *Service) Health(ctx context.Context) Health {
	h := Health{
		Status:        "ok",
		Symbol:        s.ds.Symbol,
		Bars:          s.ds.Len(),
		Issues:        len(s.ds.Issues),
		Sessions:      s.sessions.Len(),
		AIConfigured:  s.chat.Configured(),
		RenderEnabled: s.renderer != nil,
	}
	if h.AIConfigured {
		h.AIProvider, h.AIModel = s.chat.Provider()
	}
	return h
}

// --- Dataset ---

func (s *Service) Symbol() string { return s.ds.Symbol }

func (s *Service) DatasetSummary(ctx context.Context) market.Summary {
	return s.ds.Summary
}

func (s *Service) DatasetIssues(ctx context.Context) []market.Issue {
	if s.ds.Issues == nil {
		return []market.Issue{}
	}
	return s.ds.Issues
}

// DatasetBars returns one page of bars plus the table size. A zero limit
// means the default page size.
func (s *Service) DatasetBars(ctx context.Context, offset, limit int) ([]market.Bar, int, error) {
	if offset < 0 {
		return nil, 0, newError(CodeValidation, "offset must not be negative", nil)
	}
	if limit < 0 || limit > maxBarsLimit {
		return nil, 0, newError(CodeValidation, fmt.Sprintf("limit must be between 1 and %d", maxBarsLimit), nil)
	}
	if limit == 0 {
		limit = defaultBarsLimit
	}
	total := s.ds.Len()
	if offset >= total {
		return []market.Bar{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]market.Bar, end-offset)
	copy(page, s.ds.Bars[offset:end])
	return page, total, nil
}

// --- Sessions ---

func (s *Service) CreateSession(ctx context.Context) session.Snapshot {
	sess, expired := s.sessions.Create()
	for _, old := range expired {
		s.tickers.stop(old.ID())
	}
	return sess.View()
}

func (s *Service) lookup(id string) (*session.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, newError(CodeValidation, "session_id is required", nil)
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, newError(CodeSessionNotFound, fmt.Sprintf("session %q not found", id), nil)
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.View(), nil
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.tickers.stop(sess.ID())
	s.sessions.Delete(sess.ID())
	return nil
}

// --- Replay ---

func (s *Service) publish(kind string, snap session.Snapshot) {
	s.broker.Publish(stream.Event{
		SessionID: snap.ID,
		Kind:      kind,
		Frame:     snap.Frame,
		Status:    string(snap.Status),
		TurnCount: snap.TurnCount,
		Revision:  snap.Revision,
		At:        time.Now().UTC(),
	})
}

// StartReplay begins auto-advance. A session already at the last bar
// rewinds to frame 0 first; starting a playing session is a no-op.
func (s *Service) StartReplay(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, changed := sess.ApplyStart()
	if changed {
		s.startTicker(sess)
		s.publish(stream.KindStatus, snap)
	}
	return snap, nil
}

func (s *Service) PauseReplay(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, changed := sess.ApplyPause()
	if changed {
		s.tickers.stop(sess.ID())
		s.publish(stream.KindStatus, snap)
	}
	return snap, nil
}

func (s *Service) ResetReplay(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, changed := sess.ApplyReset()
	s.tickers.stop(sess.ID())
	if changed {
		s.publish(stream.KindStatus, snap)
	}
	return snap, nil
}

func (s *Service) StepReplay(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, err := sess.ApplyStep()
	if err != nil {
		return session.Snapshot{}, newError(CodeValidation, err.Error(), nil)
	}
	s.publish(stream.KindFrame, snap)
	return snap, nil
}

// SeekReplay jumps the playhead. Seeking while playing is allowed; the
// ticker keeps advancing from the new frame.
func (s *Service) SeekReplay(ctx context.Context, id string, frame int) (session.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, err := sess.ApplySeek(frame)
	if err != nil {
		return session.Snapshot{}, newError(CodeFrameOutOfRange, err.Error(), nil)
	}
	s.publish(stream.KindFrame, snap)
	return snap, nil
}

func (s *Service) SetReplayInterval(ctx context.Context, id string, intervalMS int) (session.Snapshot, error) {
	if intervalMS <= 0 {
		return session.Snapshot{}, newError(CodeValidation, "interval_ms must be positive", nil)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap := sess.ApplySetInterval(time.Duration(intervalMS) * time.Millisecond)
	s.publish(stream.KindStatus, snap)
	return snap, nil
}

// --- Chart ---

// Chart renders the truncated figure at the session playhead. A non-nil
// frame overrides it for arbitrary stills.
func (s *Service) Chart(ctx context.Context, id string, frame *int) (chart.Figure, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return chart.Figure{}, err
	}
	f := sess.Frame()
	if frame != nil {
		if err := s.checkFrame(*frame); err != nil {
			return chart.Figure{}, err
		}
		f = *frame
	}
	return chart.BuildFigure(s.ds, f), nil
}

func (s *Service) checkFrame(frame int) error {
	if frame < 0 || frame >= s.ds.Len() {
		return newError(CodeFrameOutOfRange, fmt.Sprintf("frame %d out of range [0, %d]", frame, s.ds.Len()-1), nil)
	}
	return nil
}

// --- Chat ---

func (s *Service) Transcript(ctx context.Context, id string) ([]session.Turn, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	turns := sess.Turns()
	if turns == nil {
		turns = []session.Turn{}
	}
	return turns, nil
}

// Ask relays one question to the configured AI provider. The user turn
// stays in the transcript even when the provider fails, so a retry sees
// the full history.
func (s *Service) Ask(ctx context.Context, id, question string) (string, []session.Turn, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(question) == "" {
		return "", nil, newError(CodeValidation, "question is required", nil)
	}

	before := sess.View().TurnCount
	answer, askErr := s.chat.Ask(ctx, sess, question)
	snap := sess.View()
	if snap.TurnCount != before {
		s.publish(stream.KindTranscript, snap)
	}
	if askErr != nil {
		return "", nil, aiError(askErr)
	}
	return answer, sess.Turns(), nil
}

func (s *Service) ClearTranscript(ctx context.Context, id string) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	snap := sess.ClearTranscript()
	s.publish(stream.KindTranscript, snap)
	return nil
}

func (s *Service) SampleQuestions() []string {
	return chat.SampleQuestions
}

// --- Exports ---

// ExportRequest describes one export to produce. A session id pins the
// frame to that session's playhead; an explicit frame overrides both.
type ExportRequest struct {
	SessionID string
	Frame     *int
	Format    string
	Width     int
	Height    int
}

func (s *Service) CreateExport(ctx context.Context, req ExportRequest) (export.Meta, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = export.FormatHTML
	}
	if format != export.FormatHTML && format != export.FormatPNG {
		return export.Meta{}, newError(CodeValidation, `format must be "html" or "png"`, nil)
	}
	if req.Width < 0 || req.Height < 0 {
		return export.Meta{}, newError(CodeValidation, "width and height must not be negative", nil)
	}

	frame := s.ds.Len() - 1
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID != "" {
		sess, err := s.lookup(sessionID)
		if err != nil {
			return export.Meta{}, err
		}
		frame = sess.Frame()
	}
	if req.Frame != nil {
		if err := s.checkFrame(*req.Frame); err != nil {
			return export.Meta{}, err
		}
		frame = *req.Frame
	}

	page, err := export.BuildHTML(s.ds, frame)
	if err != nil {
		return export.Meta{}, fmt.Errorf("build export page: %w", err)
	}

	data := page
	width, height := req.Width, req.Height
	if format == export.FormatPNG {
		if s.renderer == nil {
			return export.Meta{}, newError(CodeRenderUnavailable, "no Chromium endpoint configured for PNG rendering", nil)
		}
		if width == 0 {
			width = export.DefaultWidth
		}
		if height == 0 {
			height = export.DefaultHeight
		}
		data, err = s.renderer.RenderPNG(ctx, page, width, height)
		if err != nil {
			return export.Meta{}, newError(CodeRenderFailed, "PNG render failed", err)
		}
	}

	meta := export.Meta{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Symbol:    s.ds.Symbol,
		Frame:     frame,
		Total:     s.ds.Len(),
		Format:    format,
		Width:     width,
		Height:    height,
		SizeBytes: len(data),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.exports.Save(meta, data); err != nil {
		return export.Meta{}, fmt.Errorf("save export: %w", err)
	}
	return meta, nil
}

func (s *Service) ListExports(ctx context.Context) ([]export.Meta, error) {
	metas, err := s.exports.List()
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return metas, nil
}

func (s *Service) GetExport(ctx context.Context, id string) (export.Meta, error) {
	meta, err := s.exports.Get(id)
	if err != nil {
		return export.Meta{}, exportError(id, err)
	}
	return meta, nil
}

func (s *Service) ExportFile(ctx context.Context, id string) ([]byte, string, error) {
	data, format, err := s.exports.ReadFile(id)
	if err != nil {
		return nil, "", exportError(id, err)
	}
	return data, format, nil
}

func (s *Service) DeleteExport(ctx context.Context, id string) error {
	if err := s.exports.Delete(id); err != nil {
		return exportError(id, err)
	}
	return nil
}
