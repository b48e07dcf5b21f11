// Package cmd implements the blockstime CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/blockstime/internal/allocation"
	"github.com/theirongolddev/blockstime/internal/config"
	"github.com/theirongolddev/blockstime/internal/logging"
	"github.com/theirongolddev/blockstime/internal/store"
	"github.com/theirongolddev/blockstime/internal/widget"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagDataDir string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blockstime",
	Short: "Plan your week in one-hour blocks",
	Long:  "Split the 168 hours of a week into categories and see them as a grid of blocks.",
	RunE:  runShow,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding the shared store (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// session is what a command needs to read or change the allocation.
type session struct {
	cfg    config.Config
	log    *zap.Logger
	db     *store.SQLite
	gw     *store.Gateway
	model  *allocation.Model
	client *widget.Client
}

type openOptions struct {
	logToFile bool // the dashboard owns the terminal
	noNotify  bool
}

// loadConfig reads the config and applies --data-dir.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

func newLogger(cfg config.Config, toFile bool) (*zap.Logger, error) {
	opts := logging.Options{
		Level:   cfg.Logging.Level,
		Verbose: flagVerbose,
		Console: !toFile,
	}
	if toFile {
		opts.File = config.LogPath(cfg)
	}
	return logging.New(opts)
}

// openSession wires config, logging, the shared store and the allocation
// model. A store that cannot be opened is not fatal: the model falls back
// to defaults and reports the error through LastError.
func openSession(opts openOptions) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, opts.logToFile)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log}

	var region store.Region
	db, err := store.OpenSQLite(config.StorePath(cfg), cfg.General.Suite)
	if err != nil {
		log.Warn("shared store unavailable", zap.String("path", config.StorePath(cfg)), zap.Error(err))
		region = store.Unavailable(err)
	} else {
		s.db = db
		region = db
	}
	s.gw = store.NewGateway(region, cfg.Store.Key, log.Named("store"))

	modelOpts := []allocation.Option{allocation.WithLogger(log.Named("allocation"))}
	if cfg.Widget.Notify && !opts.noNotify {
		s.client = widget.NewClient(config.WidgetAddr(cfg), log.Named("widget"))
		modelOpts = append(modelOpts, allocation.WithNotifier(s.client))
	}
	s.model = allocation.New(s.gw, modelOpts...)
	return s, nil
}

// Close flushes pending widget signals and closes the store.
func (s *session) Close() {
	if s.client != nil {
		s.client.Wait()
		s.client.CloseIdleConnections()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn("closing store", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// saveErr reports the last save failure so mutating commands exit non-zero.
func (s *session) saveErr() error {
	if err := s.model.LastError(); err != nil {
		return fmt.Errorf("saving allocation: %w", err)
	}
	return nil
}

func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}
