// Package market loads and serves the OHLCV table that drives the dashboard.
// The table is read once at startup and treated as immutable ground truth:
// every frame index used by the replay and chart layers is an ordinal
// position into Dataset.Bars.
package market

import (
	"strings"
	"time"
)

// Direction is the precomputed trade signal attached to a bar.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionNone  Direction = ""
)

// ParseDirection normalizes a raw direction cell. Anything that is not a
// recognizable LONG/SHORT marker (empty cells, NaN placeholders, stray
// values) maps to DirectionNone.
func ParseDirection(raw string) Direction {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LONG":
		return DirectionLong
	case "SHORT":
		return DirectionShort
	default:
		return DirectionNone
	}
}

// Bar is one row of the table: an OHLCV candle plus the precomputed
// direction signal and support/resistance levels for that bar.
type Bar struct {
	Time       time.Time `json:"time"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     float64   `json:"volume"`
	Direction  Direction `json:"direction,omitempty"`
	Support    []float64 `json:"support,omitempty"`
	Resistance []float64 `json:"resistance,omitempty"`
}

// Issue is a non-fatal data-quality finding collected while loading.
type Issue struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// Dataset is the loaded table with derived stats. Bars are sorted by
// timestamp ascending, so a frame index equals the bar's ordinal position.
type Dataset struct {
	Symbol  string  `json:"symbol"`
	Bars    []Bar   `json:"bars"`
	Issues  []Issue `json:"issues,omitempty"`
	Summary Summary `json:"summary"`
}

// Len returns the number of bars.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Bars)
}

// At returns the bar at frame i. The caller is responsible for bounds.
func (d *Dataset) At(i int) Bar {
	return d.Bars[i]
}

// Window returns up to n bars ending at frame inclusive. The frame is
// clamped into range; an empty dataset or n <= 0 yields nil.
func (d *Dataset) Window(frame, n int) []Bar {
	if d.Len() == 0 || n <= 0 {
		return nil
	}
	if frame >= d.Len() {
		frame = d.Len() - 1
	}
	if frame < 0 {
		return nil
	}
	start := frame + 1 - n
	if start < 0 {
		start = 0
	}
	return d.Bars[start : frame+1]
}
