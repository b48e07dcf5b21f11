package cmd

import (
	"fmt"

	"github.com/theirongolddev/blockstime/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    Store:          %s\n", config.StorePath(cfg))
	fmt.Printf("    Suite:          %s\n", cfg.General.Suite)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Key: %s\n", cfg.Store.Key)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Glyph: %s\n", cfg.Appearance.Glyph)
	fmt.Println()

	fmt.Println("  [Widget]")
	fmt.Printf("    Address:       %s\n", config.WidgetAddr(cfg))
	fmt.Printf("    Refresh:       %s\n", cfg.Widget.RefreshSpec)
	fmt.Printf("    Debounce:      %s\n", cfg.Widget.Debounce())
	fmt.Printf("    Events buffer: %d\n", cfg.Widget.EventsBuffer)
	fmt.Printf("    Notify:        %v\n", cfg.Widget.Notify)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Printf("    File:  %s\n", config.LogPath(cfg))
	fmt.Println()

	if err := config.Validate(cfg); err != nil {
		fmt.Printf("  Problems:\n    %v\n\n", err)
	}
	return nil
}

func runConfigCheck(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config %s:\n%w", config.ConfigPath(), err)
	}
	infof("  %s is valid\n", config.ConfigPath())
	return nil
}
