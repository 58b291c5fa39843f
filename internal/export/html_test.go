package export

import (
	"strings"
	"testing"
	"time"

	"github.com/fennwick/barboard/internal/market"
)

func exportDataset(t *testing.T, n int) *market.Dataset {
	t.Helper()
	ds := &market.Dataset{Symbol: "TSLA"}
	day := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bar := market.Bar{
			Time:   day.AddDate(0, 0, i),
			Open:   200 + float64(i),
			High:   210 + float64(i),
			Low:    195 + float64(i),
			Close:  205 + float64(i),
			Volume: 1000,
		}
		if i == 0 {
			bar.Direction = market.DirectionLong
			bar.Support = []float64{190, 192}
		}
		if i == 1 {
			bar.Direction = market.DirectionShort
			bar.Resistance = []float64{220}
		}
		ds.Bars = append(ds.Bars, bar)
	}
	return ds
}

func TestBuildHTML(t *testing.T) {
	ds := exportDataset(t, 4)

	out, err := BuildHTML(ds, 1)
	if err != nil {
		t.Fatalf("BuildHTML() error = %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"Candlestick",
		"Volume",
		"TSLA bar replay",
		"frame 2 of 4",
		"2023-03-01",
		"2023-03-02",
		"LONG",
		"SHORT",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	// Truncation: bars past the frame never reach the page.
	for _, leak := range []string{"2023-03-03", "2023-03-04"} {
		if strings.Contains(html, leak) {
			t.Errorf("rendered page leaked future bar %s", leak)
		}
	}
}

func TestBuildHTMLClampsFrame(t *testing.T) {
	ds := exportDataset(t, 3)
	out, err := BuildHTML(ds, 99)
	if err != nil {
		t.Fatalf("BuildHTML() error = %v", err)
	}
	if !strings.Contains(string(out), "frame 3 of 3") {
		t.Error("frame not clamped to the last bar")
	}
}

func TestBuildHTMLEmptyDataset(t *testing.T) {
	out, err := BuildHTML(&market.Dataset{Symbol: "TSLA"}, 0)
	if err != nil {
		t.Fatalf("BuildHTML() error = %v", err)
	}
	if !strings.Contains(string(out), "empty table") {
		t.Error("empty dataset page missing the empty notice")
	}
}
