package components

import (
	"fmt"

	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForFill maps how much of the week is allocated to a color. A full
// week is the goal, so the scale runs the other way from a quota bar.
func ColorForFill(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.999:
		return string(t.Green)
	case pct >= 0.75:
		return string(t.Yellow)
	case pct >= 0.4:
		return string(t.Orange)
	default:
		return string(t.Red)
	}
}

// BudgetBar renders the allocated share of the week with its label.
func BudgetBar(used float64, width int) string {
	t := theme.Active

	pct := used / model.TotalHours
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	barW := width - 8
	if barW < 4 {
		barW = 4
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForFill(pct)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Unallocated)

	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForFill(pct))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%5.1f%%", pct*100))
}

// HoursSlider renders one category's hours against its ceiling, the way the
// editor shows where a value can still move.
func HoursSlider(hours, ceiling float64, color string, width int) string {
	t := theme.Active
	if width < 4 {
		width = 4
	}

	pct := 0.0
	if ceiling > 0 {
		pct = hours / ceiling
	}
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}

	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Border)
	return bar.ViewAs(pct)
}
