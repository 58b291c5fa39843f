package chat

import (
	"fmt"
	"strings"

	"github.com/fennwick/barboard/internal/ai"
	"github.com/fennwick/barboard/internal/market"
	"github.com/fennwick/barboard/internal/session"
)

// Bounds on how much context rides along with a question. The prompt
// always stays a bounded digest of the table, never the whole thing.
const (
	promptWindowBars  = 30
	promptWindowTurns = 12
)

// SampleQuestions is shown on the chat panel as starting points.
var SampleQuestions = []string{
	"How many days in 2023 was TSLA bullish?",
	"What was the highest resistance level recorded?",
	"What's the average support level?",
	"How many SHORT signals were there in total?",
	"What was the largest single day price movement?",
	"Show me the distribution of LONG vs SHORT signals over time",
}

// buildMessages assembles the provider conversation: a system prompt
// digesting the table, the tail of the transcript, then the new question.
func buildMessages(ds *market.Dataset, frame int, turns []session.Turn, question string) []ai.Message {
	msgs := make([]ai.Message, 0, promptWindowTurns+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: buildContext(ds, frame)})

	if len(turns) > promptWindowTurns {
		turns = turns[len(turns)-promptWindowTurns:]
	}
	for _, t := range turns {
		role := ai.RoleUser
		if t.Role == session.RoleAssistant {
			role = ai.RoleAssistant
		}
		msgs = append(msgs, ai.Message{Role: role, Content: t.Content})
	}

	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: question})
	return msgs
}

// buildContext renders the data digest the model answers from: summary
// stats over the whole table plus the most recent bars in compact CSV
// form.
func buildContext(ds *market.Dataset, frame int) string {
	var b strings.Builder
	sum := ds.Summary

	fmt.Fprintf(&b, "You are analyzing %s stock data with the following characteristics:\n\n", ds.Symbol)

	if sum.BarCount == 0 {
		b.WriteString("The table is empty: no bars were loaded.\n")
		b.WriteString("\nAnswer the user's questions about this data. If the data does not support an answer, say so.")
		return b.String()
	}

	fmt.Fprintf(&b, "Date Range: %s to %s (%d bars)\n",
		sum.Start.Format("2006-01-02"), sum.End.Format("2006-01-02"), sum.BarCount)
	fmt.Fprintf(&b, "Price Range: $%.2f to $%.2f\n", sum.PriceLow, sum.PriceHigh)
	fmt.Fprintf(&b, "Close: %.2f on the first bar, %.2f on the last (%+.2f%%)\n",
		sum.FirstClose, sum.LastClose, sum.ChangePct)
	if frame >= 0 && frame < ds.Len() {
		fmt.Fprintf(&b, "Replay position: bar %d of %d (%s)\n",
			frame+1, sum.BarCount, ds.At(frame).Time.Format("2006-01-02"))
	}

	fmt.Fprintf(&b, "\nTrading Signals:\n- LONG: %d occurrences\n- SHORT: %d occurrences\n- NEUTRAL: %d occurrences\n",
		sum.LongCount, sum.ShortCount, sum.NeutralCount)

	writeLevelStats(&b, "Support", ds.Bars, func(bar market.Bar) []float64 { return bar.Support })
	writeLevelStats(&b, "Resistance", ds.Bars, func(bar market.Bar) []float64 { return bar.Resistance })

	fmt.Fprintf(&b, "\nVolume Statistics:\n- Average: %.2f\n- Max: %.2f\n- Min: %.2f\n",
		sum.VolumeMean, sum.VolumeMax, sum.VolumeMin)

	window := ds.Window(ds.Len()-1, promptWindowBars)
	fmt.Fprintf(&b, "\nMost recent %d bars (date, open, high, low, close, volume, direction):\n", len(window))
	for _, bar := range window {
		dir := string(bar.Direction)
		if dir == "" {
			dir = "-"
		}
		fmt.Fprintf(&b, "%s, %.2f, %.2f, %.2f, %.2f, %.0f, %s\n",
			bar.Time.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, dir)
	}

	b.WriteString("\nAnswer the user's questions about this data concisely and factually. ")
	b.WriteString("If the data does not support an answer, say so.")
	return b.String()
}

func writeLevelStats(b *strings.Builder, name string, bars []market.Bar, sel func(market.Bar) []float64) {
	var min, max, sum float64
	n := 0
	for _, bar := range bars {
		for _, v := range sel(bar) {
			if n == 0 || v < min {
				min = v
			}
			if n == 0 || v > max {
				max = v
			}
			sum += v
			n++
		}
	}

	fmt.Fprintf(b, "\n%s Levels:\n", name)
	if n == 0 {
		b.WriteString("- none recorded\n")
		return
	}
	fmt.Fprintf(b, "- Average: %.2f\n- Max: %.2f\n- Min: %.2f\n", sum/float64(n), max, min)
}
