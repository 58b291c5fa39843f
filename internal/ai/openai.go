package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider calls the OpenAI chat completions endpoint.
type OpenAIProvider struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
	limiter   Limiter
}

var _ Provider = (*OpenAIProvider)(nil)

func newOpenAI(apiKey, model string, maxTokens int, client *http.Client, limiter Limiter) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   openaiAPIURL,
		client:    client,
		limiter:   limiter,
	}
}

func (p *OpenAIProvider) Name() string  { return ProviderOpenAI }
func (p *OpenAIProvider) Model() string { return p.model }

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openaiResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat performs one blocking completion round trip.
func (p *OpenAIProvider) Chat(ctx context.Context, req Request) (*Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindRateLimited, Err: err,
			Message: "local rate limiter wait cancelled"}
	}

	oreq := openaiRequest{
		Model:       p.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if oreq.MaxTokens == 0 {
		oreq.MaxTokens = p.maxTokens
	}
	for _, m := range req.Messages {
		oreq.Messages = append(oreq.Messages, openaiMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(oreq)
	if err != nil {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindBadResponse, Err: err,
			Message: "marshal request"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindNetwork, Err: err,
			Message: "build request"}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindNetwork, Err: err,
			Message: "read response"}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		msg := string(respBody)
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return nil, &CallError{Provider: ProviderOpenAI, Kind: kindForStatus(resp.StatusCode),
			Status: resp.StatusCode, Message: msg}
	}

	var oresp openaiResponse
	if err := json.Unmarshal(respBody, &oresp); err != nil {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindBadResponse, Err: err,
			Message: "unmarshal response"}
	}
	if len(oresp.Choices) == 0 || oresp.Choices[0].Message.Content == "" {
		return nil, &CallError{Provider: ProviderOpenAI, Kind: KindBadResponse,
			Message: "response contained no completion"}
	}

	choice := oresp.Choices[0]
	return &Response{
		Text:         choice.Message.Content,
		Model:        oresp.Model,
		FinishReason: choice.FinishReason,
		Usage: Usage{
			PromptTokens:     oresp.Usage.PromptTokens,
			CompletionTokens: oresp.Usage.CompletionTokens,
			TotalTokens:      oresp.Usage.TotalTokens,
		},
	}, nil
}
