package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	fallbackTermWidth  = 80
	axisGap            = " ┤"
)

// braille dot bits indexed by [column][row] inside one cell.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderChart draws values as a braille line chart with min/max axis labels.
// A width of 0 fits the chart to the terminal.
func RenderChart(w io.Writer, title string, values []float64, width, height int) error {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	lo, hi := bounds(values)
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	top := fmt.Sprintf("%.0f", hi)
	bottom := fmt.Sprintf("%.0f", lo)
	labelWidth := max(len(top), len(bottom))
	if width <= 0 {
		width = TerminalWidth() - labelWidth - len([]rune(axisGap))
	}
	width = max(width, minChartWidth)

	dotsX, dotsY := width*2, height*4
	points := resample(values, dotsX)
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = make([]rune, width)
	}
	set := func(x, y int) {
		cells[y/4][x/2] |= brailleBits[x%2][y%4]
	}
	prev := -1
	for x, v := range points {
		y := int(math.Round((hi - v) / (hi - lo) * float64(dotsY-1)))
		y = max(0, min(y, dotsY-1))
		if prev < 0 {
			prev = y
		}
		for yy := min(prev, y); yy <= max(prev, y); yy++ {
			set(x, yy)
		}
		prev = y
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", labelWidth, label, axisGap)
		for _, c := range row {
			b.WriteRune(0x2800 + c)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// resample stretches or averages values into n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) > n {
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

// TerminalWidth returns the stdout terminal width, or 80 when unknown.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}
