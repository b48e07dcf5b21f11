package cmd

import (
	"fmt"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the block colors",
	Args:  cobra.NoArgs,
	Run:   runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(_ *cobra.Command, _ []string) {
	fmt.Println()
	rows := make([][]string, 0, len(model.Palette))
	for _, p := range model.Palette {
		rows = append(rows, []string{p.ID, p.Main, p.Light, p.Dark})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Color", "Main", "Light", "Dark"},
		Rows:    rows,
	}))
	fmt.Println()

	for _, p := range model.Palette {
		fmt.Printf("  %s%s%s    %s\n",
			cli.RenderSwatch(p.Light), cli.RenderSwatch(p.Main), cli.RenderSwatch(p.Dark), p.ID)
	}
	fmt.Println()
	fmt.Println(cli.RenderDim("  Unknown color ids render as " + model.Palette[0].ID + "."))
	fmt.Println()
}
