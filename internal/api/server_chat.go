package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fennwick/barboard/internal/session"
)

func registerChatHandlers(api huma.API, svc Service) {
	type transcriptOutput struct {
		Body struct {
			Turns []session.Turn `json:"turns"`
			Count int            `json:"count"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-transcript", Method: http.MethodGet, Path: "/api/v1/sessions/{session_id}/chat", Summary: "Get the chat transcript", Tags: []string{"Chat"}},
		func(ctx context.Context, input *sessionIDInput) (*transcriptOutput, error) {
			turns, err := svc.Transcript(ctx, input.SessionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &transcriptOutput{}
			out.Body.Turns = turns
			out.Body.Count = len(turns)
			return out, nil
		})

	type askOutput struct {
		Body struct {
			Answer string         `json:"answer"`
			Turns  []session.Turn `json:"turns"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "ask", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/chat/ask", Summary: "Ask the AI about the visible data", Description: "Blocks for one model call. On provider failure the question stays in the transcript but no assistant turn is added, so asking again retries cleanly.", Tags: []string{"Chat"}},
		func(ctx context.Context, input *struct {
			SessionID string `path:"session_id"`
			Body      struct {
				Question string `json:"question" required:"true" minLength:"1"`
			}
		}) (*askOutput, error) {
			answer, turns, err := svc.Ask(ctx, input.SessionID, input.Body.Question)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &askOutput{}
			out.Body.Answer = answer
			out.Body.Turns = turns
			return out, nil
		})

	type clearOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "clear-transcript", Method: http.MethodDelete, Path: "/api/v1/sessions/{session_id}/chat", Summary: "Clear the chat transcript", Tags: []string{"Chat"}},
		func(ctx context.Context, input *sessionIDInput) (*clearOutput, error) {
			if err := svc.ClearTranscript(ctx, input.SessionID); err != nil {
				return nil, mapErr(err)
			}
			out := &clearOutput{}
			out.Body.Status = "cleared"
			return out, nil
		})

	type samplesOutput struct {
		Body struct {
			Questions []string `json:"questions"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-sample-questions", Method: http.MethodGet, Path: "/api/v1/chat/samples", Summary: "List sample questions", Tags: []string{"Chat"}},
		func(ctx context.Context, input *struct{}) (*samplesOutput, error) {
			out := &samplesOutput{}
			out.Body.Questions = svc.SampleQuestions()
			return out, nil
		})
}
