// Package ai holds the hosted-LLM clients behind one Provider interface.
// Both providers speak their vendor's plain REST API: a single blocking
// round trip per call, no retries, no streaming. Anything smarter belongs
// to the caller.
package ai

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Provider names accepted by the factory.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider.
const (
	DefaultGeminiModel = "models/gemini-1.5-pro-latest"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// ErrNoAPIKey is returned by New when the selected provider has no
// credential configured.
var ErrNoAPIKey = errors.New("no API key configured for AI provider")

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prompt entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat completion request. The model is fixed at
// provider construction; callers only supply the conversation.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage reports token accounting as the vendor measured it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the assistant's reply.
type Response struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	FinishReason string `json:"finish_reason"`
	Usage        Usage  `json:"usage"`
}

// Provider is a hosted LLM chat backend.
type Provider interface {
	Name() string
	Model() string
	Chat(ctx context.Context, req Request) (*Response, error)
}

// Settings selects and configures a provider.
type Settings struct {
	Provider  string
	Model     string
	GeminiKey string
	OpenAIKey string
	Timeout   time.Duration
	MaxTokens int
	RateRPM   int
}

// New builds the configured provider. A missing credential for the
// selected provider returns ErrNoAPIKey so the caller can run the rest of
// the dashboard without chat.
func New(s Settings) (Provider, error) {
	limiter := newLimiter(s.RateRPM)
	client := &http.Client{Timeout: s.Timeout}

	switch s.Provider {
	case ProviderGemini, "":
		if s.GeminiKey == "" {
			return nil, ErrNoAPIKey
		}
		model := s.Model
		if model == "" {
			model = DefaultGeminiModel
		}
		return newGemini(s.GeminiKey, model, s.MaxTokens, client, limiter), nil
	case ProviderOpenAI:
		if s.OpenAIKey == "" {
			return nil, ErrNoAPIKey
		}
		model := s.Model
		if model == "" {
			model = DefaultOpenAIModel
		}
		return newOpenAI(s.OpenAIKey, model, s.MaxTokens, client, limiter), nil
	default:
		return nil, errors.New("unknown AI provider " + s.Provider)
	}
}

func newLimiter(rpm int) Limiter {
	if rpm <= 0 {
		return NoopLimiter{}
	}
	return NewTokenBucket(float64(rpm), 2)
}
