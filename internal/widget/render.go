package widget

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/layout"
	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	widgetTitle = lipgloss.NewStyle().Bold(true).Foreground(cli.ColorText)
	widgetMuted = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
)

// Render draws one widget size as ANSI text. Each block is one cell pair;
// the column count comes from the size's layout policy. The small size is
// the bare grid; larger sizes add a title, a legend and the remainder.
func Render(snap Snapshot, size layout.WidgetSize, glyph string) string {
	res, ok := snap.Layouts[size.Name]
	if !ok {
		res = size.Compute(snap.TotalBlocks)
	}

	blocks := model.Blocks(snap.Categories)
	grid := cli.RenderBlockGrid(blocks, res.Columns, cli.GridStyle{Glyph: cli.GlyphByName(glyph), Scale: 1})
	if size.LegendHeight == 0 {
		return grid
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(widgetTitle.Render("blockstime"))
	b.WriteString(widgetMuted.Render(fmt.Sprintf(" · %s · %dx%d", size.Name, res.Columns, res.Rows)))
	b.WriteString("\n")
	b.WriteString(grid)
	b.WriteString("\n")
	b.WriteString(cli.RenderLegend(legendOrder(snap.Categories)))

	if snap.RemainingHours > 0.05 {
		b.WriteString(widgetMuted.Render("  " + cli.FormatHours(snap.RemainingHours) + " unallocated"))
		b.WriteString("\n")
	}
	return b.String()
}

// legendOrder lists the visible categories by hours, largest first.
func legendOrder(cats []model.Category) []model.Category {
	out := model.Visible(cats)
	slices.SortStableFunc(out, func(a, b model.Category) int {
		return cmp.Compare(b.Hours, a.Hours)
	})
	return out
}
