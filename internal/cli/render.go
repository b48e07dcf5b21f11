package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBg         = lipgloss.Color("#100F0F")
	ColorSurface    = lipgloss.Color("#1C1B1A")
	ColorBorder     = lipgloss.Color("#282726")
	ColorTextDim    = lipgloss.Color("#575653")
	ColorTextMuted  = lipgloss.Color("#6F6E69")
	ColorText       = lipgloss.Color("#FFFCF0")
	ColorAccent     = lipgloss.Color("#3AA99F")
	ColorGreen      = lipgloss.Color("#879A39")
	ColorOrange     = lipgloss.Color("#DA702C")
	ColorRed        = lipgloss.Color("#D14D41")
	ColorUnassigned = lipgloss.Color(model.UnallocatedColor)
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	okStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	errStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// GridStyle controls how RenderBlockGrid draws a block.
type GridStyle struct {
	Glyph string // one cell; drawn twice per block so blocks look square
	Scale int    // block size in rows, at least 1
	Gap   bool   // one blank cell between blocks
}

// DefaultGrid is the compact grid used by the CLI and widget previews.
var DefaultGrid = GridStyle{Glyph: "█", Scale: 1}

// Glyphs maps appearance names to grid glyphs.
var Glyphs = map[string]string{
	"block":  "█",
	"shade":  "▓",
	"square": "■",
	"dot":    "●",
}

// GlyphByName resolves an appearance glyph name; unknown names use "block".
func GlyphByName(name string) string {
	if g, ok := Glyphs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return g
	}
	return Glyphs["block"]
}

// RenderBlockGrid draws blocks row-major in the given number of columns.
func RenderBlockGrid(blocks []model.Block, columns int, st GridStyle) string {
	if len(blocks) == 0 || columns < 1 {
		return mutedStyle.Render("  (no hours allocated)") + "\n"
	}
	if st.Scale < 1 {
		st.Scale = 1
	}
	if st.Glyph == "" {
		st.Glyph = DefaultGrid.Glyph
	}

	styles := make(map[string]lipgloss.Style)
	cell := func(b model.Block) string {
		c := b.Category.Color()
		sty, ok := styles[c.ID]
		if !ok {
			sty = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Main))
			styles[c.ID] = sty
		}
		return sty.Render(strings.Repeat(st.Glyph, 2*st.Scale))
	}

	var b strings.Builder
	for start := 0; start < len(blocks); start += columns {
		end := start + columns
		if end > len(blocks) {
			end = len(blocks)
		}

		var line strings.Builder
		line.WriteString("  ")
		for i := start; i < end; i++ {
			line.WriteString(cell(blocks[i]))
			if st.Gap && i < end-1 {
				line.WriteString(" ")
			}
		}
		row := line.String()
		for r := 0; r < st.Scale; r++ {
			b.WriteString(row)
			b.WriteString("\n")
		}
		if st.Gap && end < len(blocks) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderLegend lists visible categories with their swatch and hours.
func RenderLegend(cats []model.Category) string {
	var parts []string
	for _, c := range model.Visible(cats) {
		sw := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color().Main)).Render("●")
		parts = append(parts, fmt.Sprintf("%s %s %s", sw, valueStyle.Render(c.Name), mutedStyle.Render(FormatHours(c.Hours))))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, "   ") + "\n"
}

// RenderBudgetBar draws the week as one bar split by category, with the
// unallocated remainder in gray.
func RenderBudgetBar(cats []model.Category, width int) string {
	if width < 1 {
		return ""
	}

	var b strings.Builder
	used := 0
	for _, c := range model.Visible(cats) {
		n := int(math.Round(c.Hours / model.TotalHours * float64(width)))
		if used+n > width {
			n = width - used
		}
		if n <= 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color().Main)).Render(strings.Repeat("█", n)))
		used += n
	}
	if rest := width - used; rest > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorUnassigned).Render(strings.Repeat("░", rest)))
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int, color lipgloss.Color) string {
	if maxValue <= 0 || value <= 0 {
		return fmt.Sprintf("  %s", label)
	}
	barLen := int(math.Round(value / maxValue * float64(maxWidth)))
	if barLen < 1 {
		barLen = 1
	}
	if barLen > maxWidth {
		barLen = maxWidth
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
	return fmt.Sprintf("  %s %s", label, bar)
}

// RenderBudgetStatus summarizes used/remaining hours in one colored line.
func RenderBudgetStatus(used float64) string {
	remaining := model.TotalHours - used
	line := fmt.Sprintf("%s of %s allocated, %s free", FormatHours(used), FormatHours(model.TotalHours), FormatHours(remaining))
	switch {
	case remaining <= 0.05:
		return okStyle.Render(line)
	case remaining < 24:
		return warnStyle.Render(line)
	default:
		return mutedStyle.Render(line)
	}
}

// RenderError renders a one-line error notice.
func RenderError(msg string) string {
	return errStyle.Render("  ! " + msg)
}

// RenderDim renders secondary information.
func RenderDim(msg string) string {
	return dimStyle.Render(msg)
}

// RenderOK renders a one-line success notice.
func RenderOK(msg string) string {
	return okStyle.Render("  ✓ " + msg)
}

// RenderSwatch renders a colored square for a palette entry.
func RenderSwatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}
