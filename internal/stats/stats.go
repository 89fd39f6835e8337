// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/chordrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// WordsPerMinute returns round(words / elapsed minutes), or 0 when nothing was
// typed or no time has passed.
func WordsPerMinute(words int, elapsed time.Duration) int {
	if words <= 0 || elapsed <= 0 {
		return 0
	}
	return int(math.Round(float64(words) / elapsed.Minutes()))
}

// Accuracy is the share of completed words typed without revealing the chord.
func Accuracy(completed, revealed int) float64 {
	if completed <= 0 {
		return 0
	}
	if revealed > completed {
		revealed = completed
	}
	return float64(completed-revealed) / float64(completed)
}

// SessionWPM computes the WPM of a stored session.
func SessionWPM(s model.SessionAggregate) int {
	return WordsPerMinute(s.WordsCompleted, time.Duration(s.DurationMs)*time.Millisecond)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// SessionSeries returns per-session WPM and accuracy percentages.
func SessionSeries(sessions []model.SessionAggregate) (wpm, accuracy []float64) {
	wpm = make([]float64, len(sessions))
	accuracy = make([]float64, len(sessions))
	for i, s := range sessions {
		wpm[i] = float64(SessionWPM(s))
		accuracy[i] = Accuracy(s.WordsCompleted, s.Revealed) * 100
	}
	return wpm, accuracy
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	var words int
	var practiced time.Duration
	best := 0
	for _, s := range sessions {
		wpm := SessionWPM(s)
		totalWPM += float64(wpm)
		totalAcc += Accuracy(s.WordsCompleted, s.Revealed)
		words += s.WordsCompleted
		practiced += time.Duration(s.DurationMs) * time.Millisecond
		best = max(best, wpm)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Words: %d", words),
		fmt.Sprintf("Practice time: %s", practiced.Round(time.Second)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d", best),
		fmt.Sprintf("Last WPM: %d", SessionWPM(sessions[len(sessions)-1])),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints WPM and accuracy learning curves smoothed over window
// sessions. A width of 0 uses the terminal width.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width, height int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpm, acc := SessionSeries(sessions)
	if err := RenderChart(w, "WPM", MovingAverage(wpm, window), width, height); err != nil {
		return err
	}
	return RenderChart(w, "Accuracy %", MovingAverage(acc, window), width, height)
}

// RenderDifficultyTable prints rows as an aligned table cut to width columns.
func RenderDifficultyTable(w io.Writer, rows []DifficultyRow, width int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No difficulty records found.")
		return err
	}
	headers := []string{"Item", "Score", "Tier", "Avg (ms)", "Seen", "Last seen"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		last := "-"
		if !r.LastSeen.IsZero() {
			last = r.LastSeen.Local().Format("2006-01-02 15:04")
		}
		cells = append(cells, []string{
			r.Label,
			fmt.Sprintf("%d", r.Score),
			r.Tier.String(),
			fmt.Sprintf("%.0f", r.AvgMs),
			fmt.Sprintf("%d", r.Seen),
			last,
		})
	}
	rightAlign := map[int]bool{1: true, 3: true, 4: true}
	for _, line := range formatTable(headers, cells, rightAlign) {
		if width > 0 {
			line = truncate(line, width)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
