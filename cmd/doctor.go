package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/config"

	"github.com/spf13/cobra"
)

var flagDoctorJSON bool

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"diag"},
	Short:   "Inspect the shared store the app and widget read",
	RunE:    runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&flagDoctorJSON, "json", false, "Print diagnostics as JSON")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	s, err := openSession(openOptions{noNotify: true})
	if err != nil {
		return err
	}
	defer s.Close()

	d := s.gw.Inspect()
	if flagDoctorJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SHARED STORE"))
	fmt.Println()
	fmt.Printf("  Store:      %s\n", config.StorePath(s.cfg))
	fmt.Printf("  Suite:      %s\n", s.cfg.General.Suite)
	fmt.Printf("  Key:        %s\n", d.Key)
	fmt.Printf("  Keys:       %v\n", d.Keys)
	if d.HasSnapshot {
		fmt.Printf("  Snapshot:   %d bytes, %d categories (%d visible)\n", d.SnapshotBytes, d.Categories, d.Visible)
	} else {
		fmt.Println("  Snapshot:   none, defaults in use")
	}
	if !d.UpdatedAt.IsZero() {
		fmt.Printf("  Last write: %s\n", d.UpdatedAt.Local().Format(time.RFC3339))
	}
	fmt.Println()
	if d.Healthy {
		fmt.Println(cli.RenderOK("healthy"))
	} else {
		fmt.Println(cli.RenderError(d.LastError))
	}
	fmt.Println()
	return nil
}
