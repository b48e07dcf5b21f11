package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/tui/components"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	catNameWidth  = 18
	catHoursWidth = 7
)

func (a App) renderCategoriesTab(cw, contentH int) string {
	t := theme.Active
	cats := a.m.Categories()
	inner := components.CardInnerWidth(cw)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	moveStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)

	if len(cats) == 0 {
		return components.ContentCard("Categories",
			dimStyle.Render("No categories. Press a to add one."), cw)
	}

	// marker + swatch + name + hours + blocks + pct, the rest is the slider
	fixed := 2 + 2 + catNameWidth + 1 + catHoursWidth + 1 + 6 + 1 + 7 + 2
	sliderW := inner - fixed
	if sliderW < 8 {
		sliderW = 8
	}

	// Rows visible at once: card border and title take three rows.
	visible := contentH - 3
	if visible < 1 {
		visible = 1
	}
	offset := 0
	if a.cursor >= visible {
		offset = a.cursor - visible + 1
	}

	var b strings.Builder
	for i := offset; i < len(cats) && i < offset+visible; i++ {
		c := cats[i]
		style := rowStyle
		if i == a.cursor {
			style = selStyle
		}
		marker := style.Render("  ")
		switch {
		case a.mode == modeMove && c.ID == a.moveFrom:
			marker = moveStyle.Render("⇢ ")
		case i == a.cursor:
			marker = style.Render("▸ ")
		}

		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color().Main)).Background(style.GetBackground()).Render("■ ")
		ceiling := a.m.MaxAvailableHours(c.ID)
		slider := components.HoursSlider(c.Hours, ceiling, c.Color().Main, sliderW)

		if i > offset {
			b.WriteString("\n")
		}
		b.WriteString(marker)
		b.WriteString(sw)
		b.WriteString(style.Render(fmt.Sprintf("%-*s ", catNameWidth, cli.Truncate(c.Name, catNameWidth))))
		b.WriteString(style.Render(fmt.Sprintf("%*s ", catHoursWidth, cli.FormatHours(c.Hours))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%6s ", fmt.Sprintf("%dblk", c.BlocksCount()))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%6.1f%% ", c.Percentage())))
		b.WriteString(slider)
	}

	title := fmt.Sprintf("Categories · %d", len(cats))
	if a.mode == modeMove {
		src, _ := a.m.Category(a.moveFrom)
		title = fmt.Sprintf("Move blocks from %s", src.Name)
		return components.FocusedCard(title, b.String(), cw)
	}
	return components.ContentCard(title, b.String(), cw)
}
