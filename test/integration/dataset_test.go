//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestDatasetSummary(t *testing.T) {
	resp := env.GET(t, "/api/v1/dataset/summary")
	requireStatus(t, resp, http.StatusOK)
	got := decodeJSON[struct {
		Symbol  string `json:"symbol"`
		Summary struct {
			BarCount     int `json:"bar_count"`
			LongCount    int `json:"long_count"`
			ShortCount   int `json:"short_count"`
			NeutralCount int `json:"neutral_count"`
		} `json:"summary"`
	}](t, resp)

	requireField(t, got.Summary.BarCount, env.TotalBars, "summary bar_count")
	counted := got.Summary.LongCount + got.Summary.ShortCount + got.Summary.NeutralCount
	requireField(t, counted, env.TotalBars, "direction counts sum")
	t.Logf("dataset %s: %d bars (long=%d short=%d neutral=%d)", got.Symbol,
		got.Summary.BarCount, got.Summary.LongCount, got.Summary.ShortCount, got.Summary.NeutralCount)
}

func TestDatasetBarsPaging(t *testing.T) {
	resp := env.GET(t, "/api/v1/dataset/bars?offset=0&limit=5")
	requireStatus(t, resp, http.StatusOK)
	page := decodeJSON[struct {
		Bars   []map[string]any `json:"bars"`
		Offset int              `json:"offset"`
		Total  int              `json:"total"`
	}](t, resp)

	requireField(t, len(page.Bars), 5, "page size")
	requireField(t, page.Total, env.TotalBars, "total")

	resp = env.GET(t, "/api/v1/dataset/bars?offset=-1")
	requireStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = env.GET(t, "/api/v1/dataset/bars?limit=10000")
	requireStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestDatasetIssuesReport(t *testing.T) {
	resp := env.GET(t, "/api/v1/dataset/issues")
	requireStatus(t, resp, http.StatusOK)
	got := decodeJSON[struct {
		Issues []map[string]any `json:"issues"`
		Count  int              `json:"count"`
	}](t, resp)
	requireField(t, got.Count, len(got.Issues), "issue count")
}
