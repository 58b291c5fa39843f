package market

import "time"

// Summary holds the derived stats shown on the dashboard and folded into
// the AI prompt. All values are computed once at load time.
type Summary struct {
	BarCount int       `json:"bar_count"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`

	PriceLow   float64 `json:"price_low"`
	PriceHigh  float64 `json:"price_high"`
	FirstClose float64 `json:"first_close"`
	LastClose  float64 `json:"last_close"`
	ChangePct  float64 `json:"change_pct"`

	LongCount    int `json:"long_count"`
	ShortCount   int `json:"short_count"`
	NeutralCount int `json:"neutral_count"`

	VolumeMin  float64 `json:"volume_min"`
	VolumeMax  float64 `json:"volume_max"`
	VolumeMean float64 `json:"volume_mean"`

	BarsWithSupport    int `json:"bars_with_support"`
	BarsWithResistance int `json:"bars_with_resistance"`
	SupportLevels      int `json:"support_levels"`
	ResistanceLevels   int `json:"resistance_levels"`
}

func summarize(ds *Dataset) Summary {
	var s Summary
	s.BarCount = len(ds.Bars)
	if s.BarCount == 0 {
		return s
	}

	first, last := ds.Bars[0], ds.Bars[s.BarCount-1]
	s.Start = first.Time
	s.End = last.Time
	s.FirstClose = first.Close
	s.LastClose = last.Close
	if first.Close != 0 {
		s.ChangePct = (last.Close - first.Close) / first.Close * 100
	}

	s.PriceLow = first.Low
	s.PriceHigh = first.High
	s.VolumeMin = first.Volume
	s.VolumeMax = first.Volume

	var volSum float64
	for _, b := range ds.Bars {
		if b.Low < s.PriceLow {
			s.PriceLow = b.Low
		}
		if b.High > s.PriceHigh {
			s.PriceHigh = b.High
		}
		if b.Volume < s.VolumeMin {
			s.VolumeMin = b.Volume
		}
		if b.Volume > s.VolumeMax {
			s.VolumeMax = b.Volume
		}
		volSum += b.Volume

		switch b.Direction {
		case DirectionLong:
			s.LongCount++
		case DirectionShort:
			s.ShortCount++
		default:
			s.NeutralCount++
		}

		if len(b.Support) > 0 {
			s.BarsWithSupport++
			s.SupportLevels += len(b.Support)
		}
		if len(b.Resistance) > 0 {
			s.BarsWithResistance++
			s.ResistanceLevels += len(b.Resistance)
		}
	}
	s.VolumeMean = volSum / float64(s.BarCount)
	return s
}
