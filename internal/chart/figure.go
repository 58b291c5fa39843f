// Package chart turns a dataset prefix into the JSON figure the dashboard
// page feeds to its candlestick renderer. The builder is pure: same
// dataset and frame, same figure.
package chart

import (
	"github.com/fennwick/barboard/internal/market"
)

// Palette of the dashboard. Matches the dark TradingView-style theme the
// page uses.
const (
	ColorBackground = "#131722"
	ColorText       = "#d1d4dc"
	ColorUp         = "#26a69a"
	ColorDown       = "#ef5350"
	ColorNeutral    = "#ffd700"
	ColorSupport    = "rgba(38, 166, 154, 0.35)"
	ColorResistance = "rgba(239, 83, 80, 0.35)"
)

// Candle is one OHLC point keyed by its date.
type Candle struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// VolumeBar is one volume histogram point, pre-colored by candle direction.
type VolumeBar struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Band is the support or resistance span of a single bar: the lowest and
// highest level attached to that row.
type Band struct {
	Time string  `json:"time"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Marker flags a bar with its precomputed trade direction.
type Marker struct {
	Time     string `json:"time"`
	Position string `json:"position"`
	Shape    string `json:"shape"`
	Color    string `json:"color"`
	Text     string `json:"text,omitempty"`
}

// Layout carries the palette so the page never hardcodes colors.
type Layout struct {
	Background      string `json:"background"`
	TextColor       string `json:"text_color"`
	UpColor         string `json:"up_color"`
	DownColor       string `json:"down_color"`
	NeutralColor    string `json:"neutral_color"`
	SupportColor    string `json:"support_color"`
	ResistanceColor string `json:"resistance_color"`
}

// Figure is the complete render payload for one frame of the replay.
type Figure struct {
	Symbol     string      `json:"symbol"`
	Frame      int         `json:"frame"`
	Total      int         `json:"total"`
	Layout     Layout      `json:"layout"`
	Candles    []Candle    `json:"candles"`
	Volume     []VolumeBar `json:"volume"`
	Support    []Band      `json:"support"`
	Resistance []Band      `json:"resistance"`
	Markers    []Marker    `json:"markers"`
}

const timeLayout = "2006-01-02"

// BuildFigure renders the table truncated at frame: exactly the bars
// [0, frame] appear, so an animation tick that bumps the frame adds one
// candle and nothing from the future leaks in. A negative frame or an
// empty dataset yields a valid figure with empty series. Frames beyond the
// last bar clamp to it.
func BuildFigure(ds *market.Dataset, frame int) Figure {
	fig := Figure{
		Symbol: ds.Symbol,
		Total:  ds.Len(),
		Layout: Layout{
			Background:      ColorBackground,
			TextColor:       ColorText,
			UpColor:         ColorUp,
			DownColor:       ColorDown,
			NeutralColor:    ColorNeutral,
			SupportColor:    ColorSupport,
			ResistanceColor: ColorResistance,
		},
	}

	if frame >= ds.Len() {
		frame = ds.Len() - 1
	}
	fig.Frame = frame
	if frame < 0 {
		return fig
	}

	n := frame + 1
	fig.Candles = make([]Candle, 0, n)
	fig.Volume = make([]VolumeBar, 0, n)
	fig.Markers = make([]Marker, 0, n)

	for i := 0; i < n; i++ {
		b := ds.At(i)
		day := b.Time.Format(timeLayout)

		fig.Candles = append(fig.Candles, Candle{
			Time: day, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close,
		})

		volColor := ColorUp
		if b.Close < b.Open {
			volColor = ColorDown
		}
		fig.Volume = append(fig.Volume, VolumeBar{Time: day, Value: b.Volume, Color: volColor})

		if len(b.Support) > 0 {
			fig.Support = append(fig.Support, Band{
				Time: day,
				Low:  b.Support[0],
				High: b.Support[len(b.Support)-1],
			})
		}
		if len(b.Resistance) > 0 {
			fig.Resistance = append(fig.Resistance, Band{
				Time: day,
				Low:  b.Resistance[0],
				High: b.Resistance[len(b.Resistance)-1],
			})
		}

		fig.Markers = append(fig.Markers, markerFor(b, day))
	}
	return fig
}

func markerFor(b market.Bar, day string) Marker {
	switch b.Direction {
	case market.DirectionLong:
		return Marker{Time: day, Position: "belowBar", Shape: "arrowUp", Color: ColorUp, Text: "LONG"}
	case market.DirectionShort:
		return Marker{Time: day, Position: "aboveBar", Shape: "arrowDown", Color: ColorDown, Text: "SHORT"}
	default:
		return Marker{Time: day, Position: "inBar", Shape: "circle", Color: ColorNeutral}
	}
}
