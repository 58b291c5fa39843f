package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewFactory(t *testing.T) {
	t.Run("defaults_to_gemini", func(t *testing.T) {
		p, err := New(Settings{GeminiKey: "k", Timeout: time.Second})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if p.Name() != ProviderGemini {
			t.Errorf("Name() = %q, want gemini", p.Name())
		}
		if p.Model() != DefaultGeminiModel {
			t.Errorf("Model() = %q, want %q", p.Model(), DefaultGeminiModel)
		}
	})

	t.Run("openai_with_model_override", func(t *testing.T) {
		p, err := New(Settings{Provider: ProviderOpenAI, OpenAIKey: "k", Model: "gpt-4o"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if p.Name() != ProviderOpenAI || p.Model() != "gpt-4o" {
			t.Errorf("provider = %s/%s, want openai/gpt-4o", p.Name(), p.Model())
		}
	})

	t.Run("missing_key_is_ErrNoAPIKey", func(t *testing.T) {
		if _, err := New(Settings{Provider: ProviderGemini}); !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("New() error = %v, want ErrNoAPIKey", err)
		}
		if _, err := New(Settings{Provider: ProviderOpenAI, GeminiKey: "k"}); !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("New() error = %v, want ErrNoAPIKey", err)
		}
	})

	t.Run("unknown_provider_is_an_error", func(t *testing.T) {
		if _, err := New(Settings{Provider: "llama-at-home"}); err == nil {
			t.Fatal("New() error = nil for unknown provider")
		}
	})
}

func testOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := newOpenAI("test-key", "gpt-4o-mini", 256, srv.Client(), NoopLimiter{})
	p.baseURL = srv.URL
	return p
}

func TestOpenAIChat(t *testing.T) {
	t.Run("maps_success_response", func(t *testing.T) {
		var gotAuth string
		var gotReq openaiRequest
		p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":    "chatcmpl-1",
				"model": "gpt-4o-mini-2024",
				"choices": []map[string]any{{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": "TSLA closed higher."},
					"finish_reason": "stop",
				}},
				"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 7, "total_tokens": 49},
			})
		})

		resp, err := p.Chat(context.Background(), Request{
			Messages: []Message{
				{Role: RoleSystem, Content: "you are a trading analyst"},
				{Role: RoleUser, Content: "how did it close?"},
			},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if resp.Text != "TSLA closed higher." {
			t.Errorf("Text = %q", resp.Text)
		}
		if resp.FinishReason != "stop" {
			t.Errorf("FinishReason = %q, want stop", resp.FinishReason)
		}
		if resp.Usage.TotalTokens != 49 {
			t.Errorf("TotalTokens = %d, want 49", resp.Usage.TotalTokens)
		}
		if gotAuth != "Bearer test-key" {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
			t.Errorf("request messages = %+v", gotReq.Messages)
		}
		if gotReq.MaxTokens != 256 {
			t.Errorf("MaxTokens = %d, want provider default 256", gotReq.MaxTokens)
		}
	})

	t.Run("auth_failure_classified", func(t *testing.T) {
		p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
		})

		_, err := p.Chat(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
		var ce *CallError
		if !errors.As(err, &ce) {
			t.Fatalf("Chat() error = %T, want *CallError", err)
		}
		if ce.Kind != KindAuth || ce.Status != 401 {
			t.Errorf("CallError = kind %q status %d, want auth/401", ce.Kind, ce.Status)
		}
		if ce.Message != "Incorrect API key provided" {
			t.Errorf("Message = %q, want the vendor message", ce.Message)
		}
	})

	t.Run("rate_limit_classified", func(t *testing.T) {
		p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached"}}`))
		})

		_, err := p.Chat(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
		var ce *CallError
		if !errors.As(err, &ce) || ce.Kind != KindRateLimited {
			t.Fatalf("Chat() error = %v, want rate_limited CallError", err)
		}
	})

	t.Run("empty_choices_is_bad_response", func(t *testing.T) {
		p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
		})

		_, err := p.Chat(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
		var ce *CallError
		if !errors.As(err, &ce) || ce.Kind != KindBadResponse {
			t.Fatalf("Chat() error = %v, want bad_response CallError", err)
		}
	})

	t.Run("dead_endpoint_is_network_error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		p := newOpenAI("k", "gpt-4o-mini", 0, &http.Client{Timeout: time.Second}, NoopLimiter{})
		p.baseURL = url

		_, err := p.Chat(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
		var ce *CallError
		if !errors.As(err, &ce) || ce.Kind != KindNetwork {
			t.Fatalf("Chat() error = %v, want network CallError", err)
		}
	})
}

func testGemini(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p := newGemini("test-key", "models/gemini-1.5-pro-latest", 256, srv.Client(), NoopLimiter{})
	p.baseURL = srv.URL
	return p
}

func TestGeminiChat(t *testing.T) {
	t.Run("maps_success_response", func(t *testing.T) {
		var gotPath, gotKey string
		var gotReq geminiRequest
		p := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]string{{"text": "The close "}, {"text": "was 110.34."}},
					},
					"finishReason": "STOP",
				}},
				"usageMetadata": map[string]int{
					"promptTokenCount": 100, "candidatesTokenCount": 12, "totalTokenCount": 112,
				},
				"modelVersion": "gemini-1.5-pro-002",
			})
		})

		resp, err := p.Chat(context.Background(), Request{
			Messages: []Message{
				{Role: RoleSystem, Content: "you are a trading analyst"},
				{Role: RoleUser, Content: "what was the close?"},
				{Role: RoleAssistant, Content: "which day?"},
				{Role: RoleUser, Content: "the last one"},
			},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if resp.Text != "The close was 110.34." {
			t.Errorf("Text = %q, want joined parts", resp.Text)
		}
		if resp.FinishReason != "stop" {
			t.Errorf("FinishReason = %q, want lowercased stop", resp.FinishReason)
		}
		if resp.Model != "gemini-1.5-pro-002" {
			t.Errorf("Model = %q", resp.Model)
		}
		if resp.Usage.PromptTokens != 100 || resp.Usage.TotalTokens != 112 {
			t.Errorf("Usage = %+v", resp.Usage)
		}

		if gotPath != "/models/gemini-1.5-pro-latest:generateContent" {
			t.Errorf("path = %q", gotPath)
		}
		if gotKey != "test-key" {
			t.Errorf("key = %q", gotKey)
		}
		if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text != "you are a trading analyst" {
			t.Errorf("systemInstruction = %+v", gotReq.SystemInstruction)
		}
		if len(gotReq.Contents) != 3 {
			t.Fatalf("%d contents, want 3 (system rides separately)", len(gotReq.Contents))
		}
		if gotReq.Contents[1].Role != "model" {
			t.Errorf("assistant turn role = %q, want model", gotReq.Contents[1].Role)
		}
	})

	t.Run("bad_key_classified_as_auth", func(t *testing.T) {
		p := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid.", "status": "UNAUTHENTICATED"}}`))
		})

		_, err := p.Chat(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
		var ce *CallError
		if !errors.As(err, &ce) {
			t.Fatalf("Chat() error = %T, want *CallError", err)
		}
		if ce.Kind != KindAuth {
			t.Errorf("Kind = %q, want auth for UNAUTHENTICATED", ce.Kind)
		}
	})

	t.Run("no_candidates_is_bad_response", func(t *testing.T) {
		p := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": []}`))
		})

		_, err := p.Chat(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
		var ce *CallError
		if !errors.As(err, &ce) || ce.Kind != KindBadResponse {
			t.Fatalf("Chat() error = %v, want bad_response CallError", err)
		}
	})

	t.Run("model_prefix_added_when_missing", func(t *testing.T) {
		p := newGemini("k", "gemini-1.5-flash", 0, http.DefaultClient, NoopLimiter{})
		p.baseURL = "http://example.test/v1beta"
		want := "http://example.test/v1beta/models/gemini-1.5-flash:generateContent?key=k"
		if got := p.endpoint(); got != want {
			t.Errorf("endpoint() = %q, want %q", got, want)
		}
	})
}
