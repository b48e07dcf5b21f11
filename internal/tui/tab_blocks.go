package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/tui/components"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBlocksTab(cw, contentH int) string {
	cats := a.m.Categories()
	used := model.SumHours(cats)
	inner := components.CardInnerWidth(cw)

	var b strings.Builder

	budget := components.ContentCard(
		fmt.Sprintf("This week · %s of %s", cli.FormatHours(used), cli.FormatHours(model.TotalHours)),
		components.BudgetBar(used, inner),
		cw,
	)
	b.WriteString(budget)
	b.WriteString("\n")

	legend := a.renderLegend(cats, inner)

	// Card border and title take three rows, the legend one more.
	gridH := contentH - lipgloss.Height(budget) - 3 - lipgloss.Height(legend)
	if gridH < 1 {
		gridH = 1
	}

	selected := ""
	if c, ok := a.selected(); ok {
		selected = c.ID
	}
	grid, res := components.BlockGrid(model.Visible(cats), components.GridOptions{
		Width:      inner,
		Height:     gridH,
		SelectedID: selected,
		Glyph:      a.glyph,
	})

	title := fmt.Sprintf("Blocks · %s", cli.FormatBlocks(model.TotalBlocks(cats)))
	if res.Columns > 0 {
		title += fmt.Sprintf(" · %dx%d", res.Columns, res.Rows)
	}
	b.WriteString(components.ContentCard(title, grid+"\n"+legend, cw))

	return b.String()
}

// renderLegend lists visible categories with their swatch; the selected
// one is underlined.
func (a App) renderLegend(cats []model.Category, width int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	hoursStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	sep := lipgloss.NewStyle().Background(t.Surface).Render("   ")

	selected := ""
	if c, ok := a.selected(); ok {
		selected = c.ID
	}

	var parts []string
	for _, c := range model.Visible(cats) {
		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color().Main)).Background(t.Surface).Render("■")
		name := nameStyle
		if c.ID == selected {
			name = name.Underline(true).Bold(true)
		}
		parts = append(parts, sw+nameStyle.Render(" ")+name.Render(c.Name)+nameStyle.Render(" ")+hoursStyle.Render(cli.FormatHours(c.Hours)))
	}
	if rest := model.TotalHours - model.SumHours(cats); rest > 0.05 {
		sw := lipgloss.NewStyle().Foreground(t.Unallocated).Background(t.Surface).Render("□")
		parts = append(parts, sw+hoursStyle.Render(" unallocated "+cli.FormatHours(rest)))
	}
	if len(parts) == 0 {
		return ""
	}

	line := strings.Join(parts, sep)
	if lipgloss.Width(line) > width {
		return lipgloss.NewStyle().Width(width).Background(t.Surface).Render(line)
	}
	return line
}
