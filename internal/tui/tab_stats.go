package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/tui/components"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderStatsTab(cw, contentH int) string {
	t := theme.Active
	cats := a.m.Categories()
	visible := model.Visible(cats)
	used := model.SumHours(cats)
	remaining := model.TotalHours - used

	remainingColor := t.Green
	if remaining > 0.05 {
		remainingColor = t.Yellow
	}

	var b strings.Builder
	cards := []components.Metric{
		{Label: "Allocated", Value: cli.FormatHours(used), Note: cli.FormatPercent(used / model.TotalHours * 100) + " of the week"},
		{Label: "Remaining", Value: cli.FormatHours(remaining), Note: cli.FormatDays(remaining), Color: remainingColor},
		{Label: "Categories", Value: fmt.Sprintf("%d", len(cats)), Note: fmt.Sprintf("%d with hours", len(visible))},
		{Label: "Blocks", Value: cli.FormatNumber(int64(model.TotalBlocks(cats))), Note: fmt.Sprintf("of %d", int(model.TotalHours/model.BlockHours))},
	}
	metrics := components.MetricCardRow(cards, cw)
	b.WriteString(metrics)
	b.WriteString("\n")

	if len(visible) == 0 {
		return b.String()
	}

	// Largest first so the chart reads left to right.
	sorted := slices.Clone(visible)
	slices.SortStableFunc(sorted, func(x, y model.Category) int {
		switch {
		case x.Hours > y.Hours:
			return -1
		case x.Hours < y.Hours:
			return 1
		}
		return 0
	})

	halves := components.LayoutRow(cw, 2)
	chartH := contentH - lipgloss.Height(metrics) - 5
	if chartH < 4 {
		chartH = 4
	}
	if chartH > 16 {
		chartH = 16
	}

	chart := components.ContentCard("Hours per category",
		components.HoursChart(sorted, components.CardInnerWidth(halves[0]), chartH), halves[0])

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	nameW := components.CardInnerWidth(halves[1]) - 28
	if nameW < 8 {
		nameW = 8
	}

	var tbl strings.Builder
	tbl.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s %8s %6s %8s", nameW, "Category", "Hours", "Days", "Share")))
	for _, c := range sorted {
		tbl.WriteString("\n")
		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color().Main)).Background(t.Surface).Render("■ ")
		tbl.WriteString(sw)
		tbl.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %8s %6s %8s",
			nameW-2, cli.Truncate(c.Name, nameW-2),
			cli.FormatHours(c.Hours), cli.FormatDays(c.Hours), cli.FormatPercent(c.Percentage()))))
	}
	table := components.ContentCard("Breakdown", tbl.String(), halves[1])

	b.WriteString(components.CardRow([]string{chart, table}))
	return b.String()
}
