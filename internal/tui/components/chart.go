package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// HoursChart renders one vertical bar per category, each in its palette
// color, against an hours axis.
func HoursChart(cats []model.Category, width, height int) string {
	if len(cats) == 0 {
		return ""
	}
	t := theme.Active
	if height < 3 {
		height = 3
	}

	maxVal := 0.0
	for _, c := range cats {
		maxVal = math.Max(maxVal, c.Hours)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	maxIntervals := height / 2
	if maxIntervals < 2 {
		maxIntervals = 2
	}
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := int(math.Round(ceiling / tickStep))
	if numIntervals < 1 {
		numIntervals = 1
	}

	rowsPerTick := height / numIntervals
	if rowsPerTick < 1 {
		rowsPerTick = 1
	}
	chartH := rowsPerTick * numIntervals

	yLabelW := len(formatChartLabel(ceiling)) + 1
	if yLabelW < 4 {
		yLabelW = 4
	}
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	n := len(cats)
	chartW := width - yLabelW - 1
	barW := (chartW - (n - 1)) / n
	if barW < 1 {
		barW = 1
	}
	if barW > 8 {
		barW = 8
	}

	partials := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	styles := make([]lipgloss.Style, n)
	for i, c := range cats {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color().Main)).Background(t.Surface)
	}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, c := range cats {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			v := c.Hours
			switch {
			case v >= rowTop:
				b.WriteString(styles[i].Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(styles[i].Render(strings.Repeat(string(partials[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n - 1)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	// Names are cut to the bar width so labels stay aligned.
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	for i, c := range cats {
		if i > 0 {
			b.WriteString(blank.Render(" "))
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", barW, cli.Truncate(c.Name, barW))))
	}

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0fh", v)
	}
	return fmt.Sprintf("%.1fh", v)
}
