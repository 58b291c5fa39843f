// Package chat answers questions about the loaded table through an AI
// provider, maintaining the per-session transcript contract: the user turn
// is appended first, the assistant turn only if the provider call
// succeeds, and a failed call leaves everything else untouched.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/fennwick/barboard/internal/ai"
	"github.com/fennwick/barboard/internal/market"
	"github.com/fennwick/barboard/internal/session"
	"github.com/fennwick/barboard/internal/storage"
)

// ErrUnconfigured is returned when no provider credential was configured.
// The rest of the dashboard keeps working; only chat is unavailable.
var ErrUnconfigured = errors.New("AI provider not configured")

// ExchangeRecord is one audit-trail line per provider round trip.
type ExchangeRecord struct {
	At         time.Time `json:"at"`
	SessionID  string    `json:"session_id"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer,omitempty"`
	Usage      ai.Usage  `json:"usage"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// Service runs chat exchanges against one dataset.
type Service struct {
	provider ai.Provider
	ds       *market.Dataset
	audit    *storage.Writer
}

// NewService builds the chat service. provider may be nil (no credential);
// audit may be nil (trail disabled).
func NewService(provider ai.Provider, ds *market.Dataset, audit *storage.Writer) *Service {
	return &Service{provider: provider, ds: ds, audit: audit}
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Provider returns the provider and model names for display, or empty
// strings when unconfigured.
func (s *Service) Provider() (name, model string) {
	if s.provider == nil {
		return "", ""
	}
	return s.provider.Name(), s.provider.Model()
}

// Ask runs one blocking exchange for the session. The user turn is
// appended immediately, so even a failed call leaves the question in the
// transcript; the assistant turn is appended only on success and the
// answer is returned verbatim. There are no retries: one call, one
// outcome.
func (s *Service) Ask(ctx context.Context, sess *session.Session, question string) (string, error) {
	if s.provider == nil {
		return "", ErrUnconfigured
	}

	// Prior turns only; the question rides separately as the final
	// user message.
	turns := sess.Turns()
	sess.AppendTurn(session.RoleUser, question)

	req := ai.Request{Messages: buildMessages(s.ds, sess.Frame(), turns, question)}

	start := time.Now()
	resp, err := s.provider.Chat(ctx, req)
	elapsed := time.Since(start)

	rec := ExchangeRecord{
		At:         start,
		SessionID:  sess.ID(),
		Provider:   s.provider.Name(),
		Model:      s.provider.Model(),
		Question:   question,
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		s.writeAudit(rec)
		return "", err
	}

	rec.Answer = resp.Text
	rec.Usage = resp.Usage
	s.writeAudit(rec)

	sess.AppendTurn(session.RoleAssistant, resp.Text)
	return resp.Text, nil
}

func (s *Service) writeAudit(rec ExchangeRecord) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Write(rec)
}
