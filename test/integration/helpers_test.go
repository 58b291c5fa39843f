//go:build integration

// Package integration exercises a running barboard server end to end.
// Start the server with the bundled TSLA_data.csv, then:
//
//	go test -tags integration ./test/integration/
//
// BARBOARD_ITEST_URL overrides the default server address. Chat tests
// skip themselves when the server reports no AI provider; export PNG
// tests skip without a Chromium endpoint.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var env *Env

// Env holds shared state for all integration tests.
type Env struct {
	BaseURL       string
	Client        *http.Client
	AIConfigured  bool // from /api/v1/health; gates chat ask tests
	RenderEnabled bool // from /api/v1/health; gates PNG export tests
	TotalBars     int
}

type healthBody struct {
	Status        string `json:"status"`
	Symbol        string `json:"symbol"`
	Bars          int    `json:"bars"`
	AIConfigured  bool   `json:"ai_configured"`
	RenderEnabled bool   `json:"render_enabled"`
}

// checkHealth verifies the server is reachable and records its
// capability flags.
func (e *Env) checkHealth() error {
	resp, err := e.Client.Get(e.BaseURL + "/api/v1/health")
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", e.BaseURL, err)
	}
	defer resp.Body.Close()

	var h healthBody
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if h.Bars == 0 {
		return fmt.Errorf("server at %s reports an empty dataset", e.BaseURL)
	}
	e.AIConfigured = h.AIConfigured
	e.RenderEnabled = h.RenderEnabled
	e.TotalBars = h.Bars
	return nil
}

func TestMain(m *testing.M) {
	baseURL := os.Getenv("BARBOARD_ITEST_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8487"
	}

	env = &Env{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}

	if err := env.checkHealth(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "integration: %s serving %d bars (ai=%v render=%v)\n",
		env.BaseURL, env.TotalBars, env.AIConfigured, env.RenderEnabled)

	os.Exit(m.Run())
}

// snapshotBody mirrors the session snapshot JSON.
type snapshotBody struct {
	ID         string `json:"id"`
	Frame      int    `json:"frame"`
	Status     string `json:"status"`
	IntervalMS int    `json:"interval_ms"`
	AtEnd      bool   `json:"at_end"`
	TotalBars  int    `json:"total_bars"`
	TurnCount  int    `json:"turn_count"`
	Revision   int64  `json:"revision"`
}

// newSession creates a replay session and registers cleanup.
func newSession(t *testing.T) snapshotBody {
	t.Helper()
	resp := env.POST(t, "/api/v1/sessions", nil)
	requireStatus(t, resp, http.StatusOK)
	snap := decodeJSON[snapshotBody](t, resp)
	if snap.ID == "" {
		t.Fatalf("create session returned empty id")
	}
	t.Cleanup(func() {
		resp, err := env.newRequestDo(http.MethodDelete, "/api/v1/sessions/"+snap.ID, nil)
		if err == nil {
			resp.Body.Close()
		}
	})
	return snap
}

// --- HTTP helpers ---

func (e *Env) GET(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.Client.Get(e.BaseURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *Env) POST(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return e.do(t, http.MethodPost, path, body)
}

func (e *Env) DELETE(t *testing.T, path string) *http.Response {
	t.Helper()
	return e.do(t, http.MethodDelete, path, nil)
}

func (e *Env) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	resp, err := e.newRequestDo(method, path, body)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (e *Env) newRequestDo(method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.BaseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.Client.Do(req)
}

// --- Assertion helpers ---

func requireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d; body: %s", resp.StatusCode, want, body)
	}
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func requireField[T comparable](t *testing.T, got, want T, name string) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

// --- Session path helper ---

func sessionPath(id, suffix string) string {
	return fmt.Sprintf("/api/v1/sessions/%s/%s", id, suffix)
}
