package cmd

import (
	"fmt"

	"github.com/theirongolddev/blockstime/internal/config"
	"github.com/theirongolddev/blockstime/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// A broken file is replaced by the wizard's answers.
		cfg = config.DefaultConfig()
	}

	cfg, err = tui.RunSetup(cfg)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Theme %s, glyph %s, widget notify %v\n", cfg.Appearance.Theme, cfg.Appearance.Glyph, cfg.Widget.Notify)
	fmt.Println("  Run `blockstime setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
