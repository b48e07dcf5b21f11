package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAddHours  float64
	flagAddColor  string
	flagMoveCount int
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Add, remove and edit categories",
	Long: `Add, remove and edit categories.

A category can be referred to by its position (1-based, as listed by
"blockstime stats"), its name (case-insensitive) or its id.`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCategoryAdd,
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "rm <category>",
	Aliases: []string{"remove"},
	Short:   "Remove a category",
	Args:    cobra.ExactArgs(1),
	RunE:    runCategoryRemove,
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <category> <name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoryRename,
}

var categoryColorCmd = &cobra.Command{
	Use:   "color <category> <color>",
	Short: "Set a category's palette color (see `blockstime palette`)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoryColor,
}

var categoryHoursCmd = &cobra.Command{
	Use:   "hours <category> <hours>",
	Short: "Set a category's weekly hours; the value is clamped to what is free",
	Long: `Set a category's weekly hours.

The value is rounded to one decimal and clamped to the hours not used by
other categories. Prefix with + or - to adjust relative to the current value;
put -- before a negative adjustment so it is not read as a flag:

  blockstime category hours Work -- -5`,
	Args: cobra.ExactArgs(2),
	RunE: runCategoryHours,
}

var categoryMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move one-hour blocks from one category to another",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoryMove,
}

func init() {
	categoryAddCmd.Flags().Float64Var(&flagAddHours, "hours", 0, "Initial hours (clamped to what is free)")
	categoryAddCmd.Flags().StringVar(&flagAddColor, "color", "", "Palette color id (default: next in palette)")
	categoryMoveCmd.Flags().IntVarP(&flagMoveCount, "blocks", "n", 1, "Number of blocks to move")

	categoryCmd.AddCommand(categoryAddCmd, categoryRemoveCmd, categoryRenameCmd,
		categoryColorCmd, categoryHoursCmd, categoryMoveCmd)
	rootCmd.AddCommand(categoryCmd)
}

// resolveCategory finds ref by 1-based position, exact id, then
// case-insensitive name. A number outside the positions is tried as a name.
func resolveCategory(cats []model.Category, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)
	n, numErr := strconv.Atoi(ref)
	if numErr == nil && n >= 1 && n <= len(cats) {
		return cats[n-1], nil
	}
	for _, c := range cats {
		if c.ID == ref {
			return c, nil
		}
	}

	var match []model.Category
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			match = append(match, c)
		}
	}
	switch len(match) {
	case 0:
		if numErr == nil {
			return model.Category{}, fmt.Errorf("no category at position %d (have %d)", n, len(cats))
		}
		return model.Category{}, fmt.Errorf("no category named %q", ref)
	case 1:
		return match[0], nil
	default:
		return model.Category{}, fmt.Errorf("%d categories are named %q; use the position or id", len(match), ref)
	}
}

// parseHours reads an absolute or +/- relative hours value.
func parseHours(arg string, current float64) (float64, error) {
	arg = strings.TrimSuffix(strings.TrimSpace(arg), "h")
	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number of hours", arg)
	}
	if relative {
		return current + v, nil
	}
	return v, nil
}

func runCategoryAdd(_ *cobra.Command, args []string) error {
	if flagAddColor != "" && !model.IsPaletteID(flagAddColor) {
		return fmt.Errorf("unknown color %q, see `blockstime palette`", flagAddColor)
	}

	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	c := s.model.AddCategory()
	if len(args) == 1 {
		s.model.RenameCategory(c.ID, args[0])
	}
	if flagAddColor != "" {
		s.model.SetCategoryColor(c.ID, flagAddColor)
	}
	if flagAddHours != 0 {
		s.model.SetCategoryHours(c.ID, flagAddHours)
	}

	c, _ = s.model.Category(c.ID)
	infof("  Added %s %s with %s\n", cli.RenderSwatch(c.Color().Main), c.Name, cli.FormatHours(c.Hours))
	if flagAddHours > c.Hours {
		infof("  %s\n", cli.RenderDim(fmt.Sprintf("only %s were free", cli.FormatHours(c.Hours))))
	}
	return s.saveErr()
}

func runCategoryRemove(_ *cobra.Command, args []string) error {
	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := resolveCategory(s.model.Categories(), args[0])
	if err != nil {
		return err
	}
	s.model.RemoveCategory(c.ID)
	infof("  Removed %s (%s freed)\n", c.Name, cli.FormatHours(c.Hours))
	return s.saveErr()
}

func runCategoryRename(_ *cobra.Command, args []string) error {
	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := resolveCategory(s.model.Categories(), args[0])
	if err != nil {
		return err
	}
	s.model.RenameCategory(c.ID, args[1])
	renamed, _ := s.model.Category(c.ID)
	infof("  Renamed %s to %s\n", c.Name, renamed.Name)
	return s.saveErr()
}

func runCategoryColor(_ *cobra.Command, args []string) error {
	if !model.IsPaletteID(args[1]) {
		return fmt.Errorf("unknown color %q, see `blockstime palette`", args[1])
	}

	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := resolveCategory(s.model.Categories(), args[0])
	if err != nil {
		return err
	}
	s.model.SetCategoryColor(c.ID, args[1])
	infof("  %s is now %s %s\n", c.Name, cli.RenderSwatch(model.ColorByID(args[1]).Main), args[1])
	return s.saveErr()
}

func runCategoryHours(_ *cobra.Command, args []string) error {
	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := resolveCategory(s.model.Categories(), args[0])
	if err != nil {
		return err
	}
	requested, err := parseHours(args[1], c.Hours)
	if err != nil {
		return err
	}

	got := s.model.SetCategoryHours(c.ID, requested)
	infof("  %s: %s → %s\n", c.Name, cli.FormatHours(c.Hours), cli.FormatHours(got))
	if model.RoundHours(requested) > got {
		infof("  %s\n", cli.RenderDim(fmt.Sprintf("clamped: only %s available", cli.FormatHours(got))))
	}
	return s.saveErr()
}

func runCategoryMove(_ *cobra.Command, args []string) error {
	if flagMoveCount < 1 {
		return errors.New("--blocks must be at least 1")
	}

	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	cats := s.model.Categories()
	from, err := resolveCategory(cats, args[0])
	if err != nil {
		return err
	}
	to, err := resolveCategory(cats, args[1])
	if err != nil {
		return err
	}
	if from.ID == to.ID {
		return errors.New("source and target are the same category")
	}

	moved := 0
	for moved < flagMoveCount && s.model.MoveBlock(from.ID, to.ID) {
		moved++
	}
	if moved == 0 {
		return fmt.Errorf("%s has no whole block to move", from.Name)
	}

	infof("  Moved %s from %s to %s\n", cli.FormatBlocks(moved), from.Name, to.Name)
	if moved < flagMoveCount {
		infof("  %s\n", cli.RenderDim(fmt.Sprintf("%s ran out of whole blocks", from.Name)))
	}
	return s.saveErr()
}
