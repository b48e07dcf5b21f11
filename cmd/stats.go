package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"ls", "list"},
	Short:   "Table of categories with hours, blocks and share of the week",
	RunE:    runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	s, err := openSession(openOptions{noNotify: true})
	if err != nil {
		return err
	}
	defer s.Close()

	cats := s.model.Categories()
	used := model.SumHours(cats)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ALLOCATION  168h week"))
	fmt.Println()

	if len(cats) == 0 {
		fmt.Println("  No categories. Add one with `blockstime category add`.")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(cats)+2)
	for i, c := range cats {
		rows = append(rows, []string{
			strconv.Itoa(i+1) + ". " + cli.Truncate(c.Name, 24),
			cli.FormatHours(c.Hours),
			cli.FormatDays(c.Hours),
			strconv.Itoa(c.BlocksCount()),
			cli.FormatPercent(c.Percentage()),
			cli.FormatHours(s.model.MaxAvailableHours(c.ID)),
			c.Color().ID,
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Total",
		cli.FormatHours(used),
		cli.FormatDays(used),
		strconv.Itoa(model.TotalBlocks(cats)),
		cli.FormatPercent(used / model.TotalHours * 100),
		"",
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Hours", "Days", "Blocks", "Share", "Max", "Color"},
		Rows:    rows,
	}))
	fmt.Println()

	maxHours := 0.0
	for _, c := range cats {
		maxHours = max(maxHours, c.Hours)
	}
	for _, c := range model.Visible(cats) {
		label := fmt.Sprintf("%-16s %6s", cli.Truncate(c.Name, 16), cli.FormatHours(c.Hours))
		fmt.Println(cli.RenderHorizontalBar(label, c.Hours, maxHours, 32, lipgloss.Color(c.Color().Main)))
	}
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderBudgetStatus(used))
	if err := s.gw.LastError(); err != nil {
		fmt.Println(cli.RenderError(err.Error()))
	}
	fmt.Println()
	return nil
}
