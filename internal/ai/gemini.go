package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider calls the Gemini generateContent endpoint.
type GeminiProvider struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
	limiter   Limiter
}

var _ Provider = (*GeminiProvider)(nil)

func newGemini(apiKey, model string, maxTokens int, client *http.Client, limiter Limiter) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   geminiAPIBase,
		client:    client,
		limiter:   limiter,
	}
}

func (p *GeminiProvider) Name() string  { return ProviderGemini }
func (p *GeminiProvider) Model() string { return p.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
		Temperature     float64 `json:"temperature,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// endpoint builds the generateContent URL. The model name may come with or
// without the "models/" prefix the REST path wants.
func (p *GeminiProvider) endpoint() string {
	model := p.model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return p.baseURL + "/" + model + ":generateContent?key=" + p.apiKey
}

// Chat performs one blocking generateContent round trip. Gemini has no
// assistant role; assistant turns are sent as "model" and the system
// prompt rides in systemInstruction.
func (p *GeminiProvider) Chat(ctx context.Context, req Request) (*Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindRateLimited, Err: err,
			Message: "local rate limiter wait cancelled"}
	}

	var greq geminiRequest
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			greq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: m.Content}}}
		case RoleAssistant:
			greq.Contents = append(greq.Contents, geminiContent{
				Role: "model", Parts: []geminiPart{{Text: m.Content}},
			})
		default:
			greq.Contents = append(greq.Contents, geminiContent{
				Role: "user", Parts: []geminiPart{{Text: m.Content}},
			})
		}
	}
	greq.GenerationConfig.MaxOutputTokens = req.MaxTokens
	if greq.GenerationConfig.MaxOutputTokens == 0 {
		greq.GenerationConfig.MaxOutputTokens = p.maxTokens
	}
	greq.GenerationConfig.Temperature = req.Temperature

	body, err := json.Marshal(greq)
	if err != nil {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindBadResponse, Err: err,
			Message: "marshal request"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindNetwork, Err: err,
			Message: "build request"}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindNetwork, Err: err,
			Message: "read response"}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		msg := string(respBody)
		kind := kindForStatus(resp.StatusCode)
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
			// Gemini reports a bad key as 400 INVALID_ARGUMENT; the
			// grpc-style status field is the reliable signal.
			if errResp.Error.Status == "UNAUTHENTICATED" || errResp.Error.Status == "PERMISSION_DENIED" {
				kind = KindAuth
			}
		}
		return nil, &CallError{Provider: ProviderGemini, Kind: kind,
			Status: resp.StatusCode, Message: msg}
	}

	var gresp geminiResponse
	if err := json.Unmarshal(respBody, &gresp); err != nil {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindBadResponse, Err: err,
			Message: "unmarshal response"}
	}
	if len(gresp.Candidates) == 0 || len(gresp.Candidates[0].Content.Parts) == 0 {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindBadResponse,
			Message: "response contained no candidates"}
	}

	cand := gresp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return nil, &CallError{Provider: ProviderGemini, Kind: KindBadResponse,
			Message: "candidate contained no text"}
	}

	model := gresp.ModelVersion
	if model == "" {
		model = p.model
	}
	return &Response{
		Text:         text.String(),
		Model:        model,
		FinishReason: strings.ToLower(cand.FinishReason),
		Usage: Usage{
			PromptTokens:     gresp.UsageMetadata.PromptTokenCount,
			CompletionTokens: gresp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gresp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
