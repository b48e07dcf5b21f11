package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/layout"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/widget"

	"github.com/spf13/cobra"
)

var (
	flagShowLayout string
	flagShowWidth  float64
	flagShowHeight float64
	flagShowGlyph  string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the week as a block grid",
	Long: `Print the week as a block grid.

--layout picks the grid policy: "terminal" fits the grid into --width x --height
character cells, "main" lays it out in points the way the dashboard view does,
and "small", "medium" or "large" render one widget size.`,
	RunE: runShow,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, showCmd} {
		c.Flags().StringVarP(&flagShowLayout, "layout", "l", "terminal", "Grid policy: terminal, main, small, medium, large")
		c.Flags().Float64Var(&flagShowWidth, "width", 80, "Available width (cells for terminal, points for main)")
		c.Flags().Float64Var(&flagShowHeight, "height", 24, "Available height (cells for terminal, points for main)")
		c.Flags().StringVar(&flagShowGlyph, "glyph", "", "Block glyph: block, shade, square, dot (default from config)")
	}
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, _ []string) error {
	s, err := openSession(openOptions{noNotify: true})
	if err != nil {
		return err
	}
	defer s.Close()

	glyph := flagShowGlyph
	if glyph == "" {
		glyph = s.cfg.Appearance.Glyph
	}

	cats := s.model.Categories()
	blocks := model.Blocks(model.Visible(cats))

	if size, err := layout.WidgetSizeByName(flagShowLayout); err == nil {
		fmt.Println()
		fmt.Print(widget.Render(widget.SnapshotOf(cats, time.Now()), size, glyph))
		return nil
	}

	var (
		res   layout.Result
		scale = 1
		note  string
	)
	switch flagShowLayout {
	case "terminal":
		res = layout.Compute(len(blocks), flagShowWidth/2, flagShowHeight, layout.Terminal)
		scale = max(int(math.Floor(res.BlockSize)), 1)
		note = fmt.Sprintf("%dx%d, %d row(s) per block", res.Columns, res.Rows, scale)
	case "main":
		res = layout.Compute(len(blocks), flagShowWidth, flagShowHeight, layout.Main)
		note = fmt.Sprintf("%dx%d, %.1fpt blocks, %.0fx%.0fpt grid",
			res.Columns, res.Rows, res.BlockSize, res.Width(layout.Main.Gap), res.Height(layout.Main.Gap))
	default:
		return fmt.Errorf("unknown layout %q (want terminal, main, small, medium or large)", flagShowLayout)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BLOCKSTIME  This week"))
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderBudgetBar(cats, 54))
	fmt.Printf("  %s\n\n", cli.RenderBudgetStatus(model.SumHours(cats)))

	fmt.Print(cli.RenderBlockGrid(blocks, res.Columns, cli.GridStyle{Glyph: cli.GlyphByName(glyph), Scale: scale}))
	fmt.Println()
	fmt.Print(cli.RenderLegend(cats))
	if !flagQuiet {
		fmt.Printf("  %s\n", cli.RenderDim(fmt.Sprintf("%s · %s", cli.FormatBlocks(len(blocks)), note)))
	}

	if err := s.gw.LastError(); err != nil {
		fmt.Println()
		fmt.Println(cli.RenderError(err.Error()))
	}
	fmt.Println()
	return nil
}
