package components

import (
	"math"
	"strings"

	"github.com/theirongolddev/blockstime/internal/layout"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// GridOptions controls BlockGrid.
type GridOptions struct {
	Width      int // available columns
	Height     int // available rows
	SelectedID string
	Glyph      string
}

// BlockGrid draws every block of cats into a Width x Height cell area and
// returns the layout it used. Blocks of the selected category are lifted
// toward white; a partially used last block is drawn in the light shade.
func BlockGrid(cats []model.Category, opts GridOptions) (string, layout.Result) {
	t := theme.Active
	blocks := model.Blocks(cats)

	res := layout.Compute(len(blocks), float64(opts.Width/2), float64(opts.Height), layout.Terminal)
	if len(blocks) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		return empty.Render("No hours allocated yet. Add a category and give it some time."), res
	}

	size := int(math.Floor(res.BlockSize))
	if size < 1 {
		size = 1
	}
	glyph := opts.Glyph
	if glyph == "" {
		glyph = "█"
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	cache := make(map[string]lipgloss.Style)
	cell := func(b model.Block) string {
		color := BlockShade(b, b.Category.ID == opts.SelectedID)
		sty, ok := cache[color]
		if !ok {
			sty = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(t.Surface)
			cache[color] = sty
		}
		return sty.Render(strings.Repeat(glyph, 2*size))
	}

	var out strings.Builder
	for start := 0; start < len(blocks); start += res.Columns {
		end := start + res.Columns
		if end > len(blocks) {
			end = len(blocks)
		}

		var row strings.Builder
		for i := start; i < end; i++ {
			row.WriteString(cell(blocks[i]))
		}
		if missing := res.Columns - (end - start); missing > 0 {
			row.WriteString(bg.Render(strings.Repeat(" ", missing*2*size)))
		}

		line := row.String()
		for r := 0; r < size; r++ {
			if out.Len() > 0 {
				out.WriteString("\n")
			}
			out.WriteString(line)
		}
	}
	return out.String(), res
}

// BlockShade picks the hex color for one block. Blocks darken slightly
// along a category so long runs stay readable.
func BlockShade(b model.Block, selected bool) string {
	p := b.Category.Color()
	main, err := colorful.Hex(p.Main)
	if err != nil {
		return p.Main
	}

	n := b.Category.BlocksCount()
	partial := b.Index == n-1 && b.Category.Hours < float64(n)*model.BlockHours
	if partial {
		if light, err := colorful.Hex(p.Light); err == nil {
			main = light
		}
	} else if n > 1 {
		if dark, err := colorful.Hex(p.Dark); err == nil {
			main = main.BlendLab(dark, 0.3*float64(b.Index)/float64(n-1))
		}
	}

	if selected {
		main = main.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.35)
	}
	return main.Clamped().Hex()
}
