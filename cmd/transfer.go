package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagTransferFormat string
	flagImportDryRun   bool
	flagYes            bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the categories as YAML or JSON (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the categories with an exported document",
	Long: `Replace the categories with an exported document.

Entries are applied in order and clamped so the week never exceeds 168h.
Missing or duplicate ids get fresh ones and empty names become "Unnamed".`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default Sleep / Work / Free week",
	RunE:  runReset,
}

func init() {
	exportCmd.Flags().StringVarP(&flagTransferFormat, "format", "f", "", "yaml or json (default from file extension, yaml on stdout)")
	importCmd.Flags().StringVarP(&flagTransferFormat, "format", "f", "", "yaml or json (default from file extension)")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Show what would be imported without saving")
	resetCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(exportCmd, importCmd, resetCmd)
}

func transferFormat(path string) (store.Format, error) {
	if flagTransferFormat != "" {
		return store.ParseFormat(flagTransferFormat)
	}
	if path == "" || path == "-" {
		return store.FormatYAML, nil
	}
	return store.FormatFromPath(path), nil
}

func runExport(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	format, err := transferFormat(path)
	if err != nil {
		return err
	}

	s, err := openSession(openOptions{noNotify: true})
	if err != nil {
		return err
	}
	defer s.Close()

	if path == "" || path == "-" {
		return store.Export(os.Stdout, s.model.Categories(), format)
	}

	//nolint:gosec // export path is chosen by the local user
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := store.Export(f, s.model.Categories(), format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	infof("  Exported %d categories to %s\n", len(s.model.Categories()), path)
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]
	format, err := transferFormat(path)
	if err != nil {
		return err
	}

	var cats []model.Category
	if path == "-" {
		cats, err = store.Import(os.Stdin, format)
	} else {
		//nolint:gosec // import path is chosen by the local user
		f, openErr := os.Open(path)
		if openErr != nil {
			return fmt.Errorf("opening %s: %w", path, openErr)
		}
		cats, err = store.Import(f, format)
		_ = f.Close()
	}
	if err != nil {
		return err
	}

	if flagImportDryRun {
		fmt.Printf("  Would import %d categories (%s requested):\n", len(cats), cli.FormatHours(model.SumHours(cats)))
		for _, c := range cats {
			fmt.Printf("    %s %-20s %s\n", cli.RenderSwatch(c.Color().Main), cli.Truncate(c.Name, 20), cli.FormatHours(c.Hours))
		}
		return nil
	}

	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	s.model.Replace(cats)
	got := s.model.Categories()
	infof("  Imported %d categories, %s allocated\n", len(got), cli.FormatHours(model.SumHours(got)))
	if requested := model.SumHours(cats); requested > model.SumHours(got)+0.05 {
		infof("  %s\n", cli.RenderDim(fmt.Sprintf("%s requested; later entries were clamped to fit 168h", cli.FormatHours(requested))))
	}
	return s.saveErr()
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagYes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Replace every category with the default week?").
			Description("Sleep 56h, Work 40h, Free 72h").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			infof("  Nothing changed.\n")
			return nil
		}
	}

	s, err := openSession(openOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	s.model.Reset()
	fmt.Println(cli.RenderOK("Restored the default week"))
	return s.saveErr()
}
