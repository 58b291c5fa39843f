// Package export produces shareable chart artifacts: a self-contained
// HTML candlestick page for any replay frame, optionally rasterized to
// PNG through a headless browser, both kept in an on-disk store.
package export

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/fennwick/barboard/internal/chart"
	"github.com/fennwick/barboard/internal/market"
)

// BuildHTML renders the table truncated at frame into a standalone HTML
// document: candlesticks with support/resistance overlays and direction
// mark points, plus a volume pane. The same truncation rule as the live
// chart applies; nothing past the frame appears.
func BuildHTML(ds *market.Dataset, frame int) ([]byte, error) {
	if frame >= ds.Len() {
		frame = ds.Len() - 1
	}

	var (
		xAxis      []string
		klineData  []opts.KlineData
		volumeData []opts.BarData
		supportLo  []opts.LineData
		supportHi  []opts.LineData
		resistLo   []opts.LineData
		resistHi   []opts.LineData
		markPoints []opts.MarkPointNameCoordItem
	)

	for i := 0; i <= frame; i++ {
		b := ds.At(i)
		day := b.Time.Format("2006-01-02")
		xAxis = append(xAxis, day)

		// echarts kline order: open, close, low, high
		klineData = append(klineData, opts.KlineData{
			Value: [4]float64{b.Open, b.Close, b.Low, b.High},
		})

		volColor := chart.ColorUp
		if b.Close < b.Open {
			volColor = chart.ColorDown
		}
		volumeData = append(volumeData, opts.BarData{
			Value:     b.Volume,
			ItemStyle: &opts.ItemStyle{Color: volColor},
		})

		supportLo = append(supportLo, levelPoint(b.Support, false))
		supportHi = append(supportHi, levelPoint(b.Support, true))
		resistLo = append(resistLo, levelPoint(b.Resistance, false))
		resistHi = append(resistHi, levelPoint(b.Resistance, true))

		switch b.Direction {
		case market.DirectionLong:
			markPoints = append(markPoints, opts.MarkPointNameCoordItem{
				Name:       "LONG",
				Coordinate: []interface{}{day, b.Low},
				Symbol:     "triangle",
				SymbolSize: 14,
				ItemStyle:  &opts.ItemStyle{Color: chart.ColorUp},
			})
		case market.DirectionShort:
			markPoints = append(markPoints, opts.MarkPointNameCoordItem{
				Name:       "SHORT",
				Coordinate: []interface{}{day, b.High},
				Symbol:     "pin",
				SymbolSize: 14,
				ItemStyle:  &opts.ItemStyle{Color: chart.ColorDown},
			})
		}
	}

	title := fmt.Sprintf("%s bar replay", ds.Symbol)
	subtitle := fmt.Sprintf("frame %d of %d", frame+1, ds.Len())
	if frame < 0 {
		subtitle = "empty table"
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			Width:           "1320px",
			Height:          "640px",
			BackgroundColor: chart.ColorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         title,
			Subtitle:      subtitle,
			Left:          "center",
			TitleStyle:    &opts.TextStyle{Color: chart.ColorText},
			SubtitleStyle: &opts.TextStyle{Color: chart.ColorText},
		}),
		charts.WithXAxisOpts(opts.XAxis{Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true), SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "6%", TextStyle: &opts.TextStyle{Color: chart.ColorText}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	kline.SetXAxis(xAxis).AddSeries("Candlestick", klineData,
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        chart.ColorUp,
			Color0:       chart.ColorDown,
			BorderColor:  chart.ColorUp,
			BorderColor0: chart.ColorDown,
		}),
		charts.WithMarkPointNameCoordItemOpts(markPoints...),
	)

	overlay := charts.NewLine()
	overlay.SetXAxis(xAxis).
		AddSeries("Support low", supportLo,
			charts.WithLineStyleOpts(opts.LineStyle{Color: chart.ColorUp, Width: 1, Type: "dashed"}),
		).
		AddSeries("Support high", supportHi,
			charts.WithLineStyleOpts(opts.LineStyle{Color: chart.ColorUp, Width: 1, Type: "dotted"}),
		).
		AddSeries("Resistance low", resistLo,
			charts.WithLineStyleOpts(opts.LineStyle{Color: chart.ColorDown, Width: 1, Type: "dotted"}),
		).
		AddSeries("Resistance high", resistHi,
			charts.WithLineStyleOpts(opts.LineStyle{Color: chart.ColorDown, Width: 1, Type: "dashed"}),
		)
	kline.Overlap(overlay)

	volume := charts.NewBar()
	volume.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "1320px",
			Height:          "220px",
			BackgroundColor: chart.ColorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      "Volume",
			Left:       "center",
			TitleStyle: &opts.TextStyle{Color: chart.ColorText},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	volume.SetXAxis(xAxis).AddSeries("Volume", volumeData)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(kline, volume)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart page: %w", err)
	}
	return buf.Bytes(), nil
}

// levelPoint picks the band edge for one bar, or a gap marker when the bar
// carries no levels ("-" is the echarts missing-value convention).
func levelPoint(levels []float64, high bool) opts.LineData {
	if len(levels) == 0 {
		return opts.LineData{Value: "-"}
	}
	if high {
		return opts.LineData{Value: levels[len(levels)-1]}
	}
	return opts.LineData{Value: levels[0]}
}
