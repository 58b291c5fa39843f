package chart

import (
	"testing"
	"time"

	"github.com/fennwick/barboard/internal/market"
)

func testDataset(t *testing.T, n int) *market.Dataset {
	t.Helper()
	ds := &market.Dataset{Symbol: "TSLA"}
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bar := market.Bar{
			Time:   day.AddDate(0, 0, i),
			Open:   100 + float64(i),
			High:   110 + float64(i),
			Low:    95 + float64(i),
			Close:  105 + float64(i),
			Volume: float64(1000 * (i + 1)),
		}
		switch i % 3 {
		case 0:
			bar.Direction = market.DirectionLong
			bar.Support = []float64{90, 92.5}
		case 1:
			bar.Direction = market.DirectionShort
			bar.Resistance = []float64{120}
		}
		ds.Bars = append(ds.Bars, bar)
	}
	return ds
}

func TestBuildFigureTruncation(t *testing.T) {
	ds := testDataset(t, 5)

	for frame := 0; frame < 5; frame++ {
		fig := BuildFigure(ds, frame)
		if len(fig.Candles) != frame+1 {
			t.Errorf("frame %d: %d candles, want %d", frame, len(fig.Candles), frame+1)
		}
		if len(fig.Volume) != frame+1 {
			t.Errorf("frame %d: %d volume bars, want %d", frame, len(fig.Volume), frame+1)
		}
		last := fig.Candles[len(fig.Candles)-1]
		want := ds.At(frame).Time.Format("2006-01-02")
		if last.Time != want {
			t.Errorf("frame %d: last candle %s, want %s", frame, last.Time, want)
		}
	}
}

func TestBuildFigureNoFutureLeak(t *testing.T) {
	ds := testDataset(t, 5)
	fig := BuildFigure(ds, 1)

	cutoff := ds.At(1).Time.Format("2006-01-02")
	for _, b := range fig.Support {
		if b.Time > cutoff {
			t.Errorf("support band %s beyond frame cutoff %s", b.Time, cutoff)
		}
	}
	for _, b := range fig.Resistance {
		if b.Time > cutoff {
			t.Errorf("resistance band %s beyond frame cutoff %s", b.Time, cutoff)
		}
	}
	for _, m := range fig.Markers {
		if m.Time > cutoff {
			t.Errorf("marker %s beyond frame cutoff %s", m.Time, cutoff)
		}
	}
}

func TestBuildFigureBands(t *testing.T) {
	ds := testDataset(t, 3)
	fig := BuildFigure(ds, 2)

	if len(fig.Support) != 1 {
		t.Fatalf("%d support bands, want 1", len(fig.Support))
	}
	if fig.Support[0].Low != 90 || fig.Support[0].High != 92.5 {
		t.Errorf("support band = [%v, %v], want [90, 92.5]", fig.Support[0].Low, fig.Support[0].High)
	}
	if len(fig.Resistance) != 1 {
		t.Fatalf("%d resistance bands, want 1", len(fig.Resistance))
	}
	if fig.Resistance[0].Low != 120 || fig.Resistance[0].High != 120 {
		t.Errorf("single-level band = [%v, %v], want [120, 120]", fig.Resistance[0].Low, fig.Resistance[0].High)
	}
}

func TestBuildFigureMarkers(t *testing.T) {
	ds := testDataset(t, 3)
	fig := BuildFigure(ds, 2)

	if len(fig.Markers) != 3 {
		t.Fatalf("%d markers, want 3", len(fig.Markers))
	}

	long := fig.Markers[0]
	if long.Position != "belowBar" || long.Shape != "arrowUp" || long.Color != ColorUp || long.Text != "LONG" {
		t.Errorf("long marker = %+v", long)
	}
	short := fig.Markers[1]
	if short.Position != "aboveBar" || short.Shape != "arrowDown" || short.Color != ColorDown || short.Text != "SHORT" {
		t.Errorf("short marker = %+v", short)
	}
	neutral := fig.Markers[2]
	if neutral.Position != "inBar" || neutral.Shape != "circle" || neutral.Color != ColorNeutral || neutral.Text != "" {
		t.Errorf("neutral marker = %+v", neutral)
	}
}

func TestBuildFigureVolumeColors(t *testing.T) {
	ds := testDataset(t, 2)
	ds.Bars[1].Close = ds.Bars[1].Open - 1

	fig := BuildFigure(ds, 1)
	if fig.Volume[0].Color != ColorUp {
		t.Errorf("up volume color = %s, want %s", fig.Volume[0].Color, ColorUp)
	}
	if fig.Volume[1].Color != ColorDown {
		t.Errorf("down volume color = %s, want %s", fig.Volume[1].Color, ColorDown)
	}
}

func TestBuildFigureEmptyAndClamped(t *testing.T) {
	t.Run("empty_dataset", func(t *testing.T) {
		fig := BuildFigure(&market.Dataset{Symbol: "TSLA"}, 0)
		if len(fig.Candles) != 0 || len(fig.Markers) != 0 {
			t.Fatalf("empty dataset produced %d candles, %d markers", len(fig.Candles), len(fig.Markers))
		}
		if fig.Total != 0 {
			t.Errorf("Total = %d, want 0", fig.Total)
		}
	})

	t.Run("negative_frame", func(t *testing.T) {
		fig := BuildFigure(testDataset(t, 3), -1)
		if len(fig.Candles) != 0 {
			t.Fatalf("negative frame produced %d candles", len(fig.Candles))
		}
	})

	t.Run("frame_beyond_last_clamps", func(t *testing.T) {
		fig := BuildFigure(testDataset(t, 3), 99)
		if fig.Frame != 2 {
			t.Errorf("Frame = %d, want clamp to 2", fig.Frame)
		}
		if len(fig.Candles) != 3 {
			t.Errorf("%d candles, want all 3", len(fig.Candles))
		}
	})
}
