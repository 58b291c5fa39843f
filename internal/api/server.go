// Package api exposes the dashboard over HTTP: a huma/v2 JSON API under
// /api/v1, the embedded dashboard page at /, API docs at /docs, and the
// WebSocket event stream at /api/v1/stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fennwick/barboard/internal/chart"
	"github.com/fennwick/barboard/internal/dashboard"
	"github.com/fennwick/barboard/internal/export"
	"github.com/fennwick/barboard/internal/market"
	"github.com/fennwick/barboard/internal/session"
)

type Service interface {
	Health(ctx context.Context) dashboard.Health

	DatasetSummary(ctx context.Context) market.Summary
	DatasetIssues(ctx context.Context) []market.Issue
	DatasetBars(ctx context.Context, offset, limit int) ([]market.Bar, int, error)
	Symbol() string

	CreateSession(ctx context.Context) session.Snapshot
	GetSession(ctx context.Context, id string) (session.Snapshot, error)
	DeleteSession(ctx context.Context, id string) error

	StartReplay(ctx context.Context, id string) (session.Snapshot, error)
	PauseReplay(ctx context.Context, id string) (session.Snapshot, error)
	ResetReplay(ctx context.Context, id string) (session.Snapshot, error)
	StepReplay(ctx context.Context, id string) (session.Snapshot, error)
	SeekReplay(ctx context.Context, id string, frame int) (session.Snapshot, error)
	SetReplayInterval(ctx context.Context, id string, intervalMS int) (session.Snapshot, error)

	Chart(ctx context.Context, id string, frame *int) (chart.Figure, error)

	Transcript(ctx context.Context, id string) ([]session.Turn, error)
	Ask(ctx context.Context, id, question string) (string, []session.Turn, error)
	ClearTranscript(ctx context.Context, id string) error
	SampleQuestions() []string

	CreateExport(ctx context.Context, req dashboard.ExportRequest) (export.Meta, error)
	ListExports(ctx context.Context) ([]export.Meta, error)
	GetExport(ctx context.Context, id string) (export.Meta, error)
	ExportFile(ctx context.Context, id string) ([]byte, string, error)
	DeleteExport(ctx context.Context, id string) error
}

type sessionIDInput struct {
	SessionID string `path:"session_id"`
}

type snapshotOutput struct {
	Body session.Snapshot
}

// NewServer builds the HTTP handler. streamHandler serves the WebSocket
// event feed; pass nil to leave the route unmounted.
func NewServer(svc Service, streamHandler http.Handler) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("barboard API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(dashboardHTML)); err != nil {
			slog.Debug("dashboard response write failed", "error", err)
		}
	})
	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})
	router.Get("/docs/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(streamDocsHTML)); err != nil {
			slog.Debug("stream docs response write failed", "error", err)
		}
	})

	if streamHandler != nil {
		router.Handle("/api/v1/stream", streamHandler)
	}

	// Raw artifact bytes bypass huma; the content type depends on the
	// stored format.
	router.Get("/api/v1/exports/{export_id}/file", func(w http.ResponseWriter, r *http.Request) {
		data, format, err := svc.ExportFile(r.Context(), chi.URLParam(r, "export_id"))
		if err != nil {
			writeErrorJSON(w, err)
			return
		}
		switch format {
		case export.FormatPNG:
			w.Header().Set("Content-Type", "image/png")
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		if _, err := w.Write(data); err != nil {
			slog.Debug("export file response write failed", "error", err)
		}
	})

	registerMiscHandlers(api, svc)
	registerDatasetHandlers(api, svc)
	registerSessionHandlers(api, svc)
	registerChatHandlers(api, svc)
	registerExportHandlers(api, svc)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *dashboard.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case dashboard.CodeValidation, dashboard.CodeFrameOutOfRange:
			return huma.Error400BadRequest(coded.Message)
		case dashboard.CodeSessionNotFound, dashboard.CodeExportNotFound:
			return huma.Error404NotFound(coded.Message)
		case dashboard.CodeAIUnconfigured:
			return huma.Error409Conflict(coded.Message)
		case dashboard.CodeAIRateLimited:
			return huma.Error429TooManyRequests(coded.Message)
		case dashboard.CodeAIAuth, dashboard.CodeAIUnavailable, dashboard.CodeAIBadResponse, dashboard.CodeRenderFailed:
			return huma.Error502BadGateway(coded.Message)
		case dashboard.CodeRenderUnavailable:
			return huma.Error503ServiceUnavailable(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}

// writeErrorJSON mirrors mapErr for routes served outside huma.
func writeErrorJSON(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	msg := err.Error()
	var coded *dashboard.CodedError
	if errors.As(err, &coded) {
		code = coded.Code
		msg = coded.Message
		switch coded.Code {
		case dashboard.CodeValidation, dashboard.CodeFrameOutOfRange:
			status = http.StatusBadRequest
		case dashboard.CodeSessionNotFound, dashboard.CodeExportNotFound:
			status = http.StatusNotFound
		case dashboard.CodeAIUnconfigured:
			status = http.StatusConflict
		case dashboard.CodeAIRateLimited:
			status = http.StatusTooManyRequests
		case dashboard.CodeAIAuth, dashboard.CodeAIUnavailable, dashboard.CodeAIBadResponse, dashboard.CodeRenderFailed:
			status = http.StatusBadGateway
		case dashboard.CodeRenderUnavailable:
			status = http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{Code: code, Message: msg}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("error response write failed", "error", err)
	}
}
