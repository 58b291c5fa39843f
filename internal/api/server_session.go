package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fennwick/barboard/internal/chart"
)

func registerSessionHandlers(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{OperationID: "create-session", Method: http.MethodPost, Path: "/api/v1/sessions", Summary: "Create a replay session", Description: "Every viewer gets an isolated playhead and chat transcript over the shared bar table.", Tags: []string{"Sessions"}},
		func(ctx context.Context, input *struct{}) (*snapshotOutput, error) {
			out := &snapshotOutput{}
			out.Body = svc.CreateSession(ctx)
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-session", Method: http.MethodGet, Path: "/api/v1/sessions/{session_id}", Summary: "Get session state", Tags: []string{"Sessions"}},
		func(ctx context.Context, input *sessionIDInput) (*snapshotOutput, error) {
			snap, err := svc.GetSession(ctx, input.SessionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	type deleteSessionOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "delete-session", Method: http.MethodDelete, Path: "/api/v1/sessions/{session_id}", Summary: "Drop a session", Tags: []string{"Sessions"}},
		func(ctx context.Context, input *sessionIDInput) (*deleteSessionOutput, error) {
			if err := svc.DeleteSession(ctx, input.SessionID); err != nil {
				return nil, mapErr(err)
			}
			out := &deleteSessionOutput{}
			out.Body.Status = "deleted"
			return out, nil
		})

	// --- Replay controls ---

	huma.Register(api, huma.Operation{OperationID: "start-replay", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/replay/start", Summary: "Start auto-advance", Description: "Starting at the last bar rewinds to frame 0 first. Starting a playing session is a no-op.", Tags: []string{"Replay"}},
		func(ctx context.Context, input *sessionIDInput) (*snapshotOutput, error) {
			snap, err := svc.StartReplay(ctx, input.SessionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "pause-replay", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/replay/pause", Summary: "Pause auto-advance", Tags: []string{"Replay"}},
		func(ctx context.Context, input *sessionIDInput) (*snapshotOutput, error) {
			snap, err := svc.PauseReplay(ctx, input.SessionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "reset-replay", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/replay/reset", Summary: "Rewind to frame 0 and pause", Tags: []string{"Replay"}},
		func(ctx context.Context, input *sessionIDInput) (*snapshotOutput, error) {
			snap, err := svc.ResetReplay(ctx, input.SessionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "step-replay", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/replay/step", Summary: "Advance one frame while paused", Tags: []string{"Replay"}},
		func(ctx context.Context, input *sessionIDInput) (*snapshotOutput, error) {
			snap, err := svc.StepReplay(ctx, input.SessionID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "seek-replay", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/replay/seek", Summary: "Jump the playhead to a frame", Tags: []string{"Replay"}},
		func(ctx context.Context, input *struct {
			SessionID string `path:"session_id"`
			Body      struct {
				Frame int `json:"frame" required:"true" doc:"0-based bar index"`
			}
		}) (*snapshotOutput, error) {
			snap, err := svc.SeekReplay(ctx, input.SessionID, input.Body.Frame)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "set-replay-interval", Method: http.MethodPost, Path: "/api/v1/sessions/{session_id}/replay/interval", Summary: "Change the auto-advance pace", Description: "Milliseconds per frame, clamped to [50, 5000]. Applies mid-flight to a playing session.", Tags: []string{"Replay"}},
		func(ctx context.Context, input *struct {
			SessionID string `path:"session_id"`
			Body      struct {
				IntervalMS int `json:"interval_ms" required:"true"`
			}
		}) (*snapshotOutput, error) {
			snap, err := svc.SetReplayInterval(ctx, input.SessionID, input.Body.IntervalMS)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &snapshotOutput{}
			out.Body = snap
			return out, nil
		})

	// --- Chart ---

	type figureOutput struct {
		Body chart.Figure
	}
	huma.Register(api, huma.Operation{OperationID: "get-session-chart", Method: http.MethodGet, Path: "/api/v1/sessions/{session_id}/chart", Summary: "Get the truncated chart figure", Description: "Bars [0, frame] only; later bars never leak into the payload. Defaults to the session playhead.", Tags: []string{"Chart"}},
		func(ctx context.Context, input *struct {
			SessionID string `path:"session_id"`
			Frame     int    `query:"frame" default:"-1" doc:"Override frame for an arbitrary still. Omit to use the session playhead."`
		}) (*figureOutput, error) {
			var frame *int
			if input.Frame >= 0 {
				frame = &input.Frame
			}
			fig, err := svc.Chart(ctx, input.SessionID, frame)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &figureOutput{}
			out.Body = fig
			return out, nil
		})
}
