package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

// PlotSeries renders series as a braille line chart. Every series shares the
// same vertical scale; labels on the left show the max and min values.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	// Two dot columns and four dot rows per cell.
	dotsX, dotsY := width*2, height*4
	resampled := make([][]float64, len(series))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range series {
		resampled[i] = resample(s.Values, dotsX)
		sMin, sMax := minMax(resampled[i])
		lo, hi = math.Min(lo, sMin), math.Max(hi, sMax)
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}

	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	for _, values := range resampled {
		prevY := -1
		for x, v := range values {
			y := int(math.Round((hi - v) / (hi - lo) * float64(dotsY-1)))
			y = clamp(y, 0, dotsY-1)
			if prevY < 0 {
				setDot(cells, x, y)
			} else {
				fillColumn(cells, x, prevY, y)
			}
			prevY = y
		}
	}

	hiLabel := fmt.Sprintf("%.0f", hi)
	loLabel := fmt.Sprintf("%.0f", lo)
	labelWidth := utf8.RuneCountInString(hiLabel)
	if n := utf8.RuneCountInString(loLabel); n > labelWidth {
		labelWidth = n
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = hiLabel
		case height - 1:
			label = loLabel
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", labelWidth, label, axisSeparator)
		for _, mask := range row {
			b.WriteRune(rune(0x2800 + int(mask)))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	names := make([]string, len(series))
	for i, s := range series {
		last := s.Values[len(s.Values)-1]
		names[i] = fmt.Sprintf("%s (last %.1f)", s.Name, last)
	}
	_, err := fmt.Fprintln(w, strings.Join(names, "  "))
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - 4 - utf8.RuneCountInString(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// resample stretches or shrinks values to exactly n points using linear
// interpolation.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[len(values)-1]
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

func fillColumn(cells [][]uint8, x, fromY, toY int) {
	if fromY > toY {
		fromY, toY = toY, fromY
	}
	for y := fromY; y <= toY; y++ {
		setDot(cells, x, y)
	}
}

// Braille dot bits indexed by [column][row] within a cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if cy < 0 || cy >= len(cells) || cx < 0 || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%2][y%4]
}
