package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Columns the table must provide. Header matching is case-insensitive and
// ignores order and extra columns.
var requiredColumns = []string{
	"timestamp", "direction", "support", "resistance",
	"open", "high", "low", "close", "volume",
}

var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Load reads the OHLCV table from path. A missing file, unreadable CSV, or
// absent required column is an error and the service should not start
// without the table. Row-level oddities that do not break the candle
// geometry (high below the body, negative volume) are collected as Issues
// instead, mirroring the validation report the dashboard exposes.
//
// Load is a pure function of the file contents: loading the same file twice
// yields equal datasets.
func Load(path, symbol string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	ds, err := Read(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Read parses the table from r. Split out of Load so tests and tools can
// feed CSV from memory.
func Read(r io.Reader, symbol string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file, no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Symbol: symbol}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) == 0 {
			continue
		}

		bar, issues, err := parseRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		ds.Bars = append(ds.Bars, bar)
		ds.Issues = append(ds.Issues, issues...)
	}

	// Frame indexes assume ascending time regardless of file order.
	sort.SliceStable(ds.Bars, func(i, j int) bool {
		return ds.Bars[i].Time.Before(ds.Bars[j].Time)
	})

	ds.Summary = summarize(ds)
	return ds, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int, line int) (Bar, []Issue, error) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts, err := parseTimestamp(cell("timestamp"))
	if err != nil {
		return Bar{}, nil, fmt.Errorf("line %d: bad timestamp %q: %w", line, cell("timestamp"), err)
	}

	bar := Bar{
		Time:       ts,
		Direction:  ParseDirection(cell("direction")),
		Support:    ParseLevels(cell("support")),
		Resistance: ParseLevels(cell("resistance")),
	}

	for _, fc := range []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
		{"volume", &bar.Volume},
	} {
		v, err := strconv.ParseFloat(cell(fc.name), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Bar{}, nil, fmt.Errorf("line %d: bad %s %q", line, fc.name, cell(fc.name))
		}
		*fc.dst = v
	}

	var issues []Issue
	if body := math.Max(bar.Open, bar.Close); bar.High < body {
		issues = append(issues, Issue{
			Line:   line,
			Field:  "high",
			Detail: fmt.Sprintf("high %.4f below candle body %.4f", bar.High, body),
		})
	}
	if body := math.Min(bar.Open, bar.Close); bar.Low > body {
		issues = append(issues, Issue{
			Line:   line,
			Field:  "low",
			Detail: fmt.Sprintf("low %.4f above candle body %.4f", bar.Low, body),
		})
	}
	if bar.Volume < 0 {
		issues = append(issues, Issue{
			Line:   line,
			Field:  "volume",
			Detail: fmt.Sprintf("negative volume %.0f", bar.Volume),
		})
	}
	return bar, issues, nil
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
