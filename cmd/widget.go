package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/blockstime/internal/config"
	"github.com/theirongolddev/blockstime/internal/layout"
	"github.com/theirongolddev/blockstime/internal/logging"
	"github.com/theirongolddev/blockstime/internal/store"
	"github.com/theirongolddev/blockstime/internal/widget"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type widgetRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	StorePath string    `json:"store_path"`
}

var (
	flagWidgetAddr    string
	flagWidgetRefresh string
	flagWidgetDetach  bool
	flagWidgetPIDFile string
	flagWidgetLogFile string
	flagWidgetChild   bool
	flagWidgetLocal   bool
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Run the widget host: renders the shared store over HTTP/SSE",
	Long: `Run the widget host.

The host reads the shared store on its own and serves the small, medium and
large widget renderings. It reloads when the app signals it, when the store
file changes, and on a fallback schedule.`,
	RunE: runWidget,
}

var widgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show widget host process and API status",
	RunE:  runWidgetStatus,
}

var widgetStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running widget host",
	RunE:  runWidgetStop,
}

var widgetReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the running widget host to reload the store",
	RunE:  runWidgetReload,
}

var widgetRenderCmd = &cobra.Command{
	Use:       "render [small|medium|large]",
	Short:     "Print a widget size as the host renders it",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"small", "medium", "large"},
	RunE:      runWidgetRender,
}

func init() {
	widgetCmd.PersistentFlags().StringVar(&flagWidgetAddr, "addr", "", "HTTP listen address (default from config)")
	widgetCmd.PersistentFlags().StringVar(&flagWidgetPIDFile, "pid-file", "", "PID file path (default in the data directory)")
	widgetCmd.PersistentFlags().StringVar(&flagWidgetLogFile, "log-file", "", "Log file path for detached mode (default in the data directory)")

	widgetCmd.Flags().StringVar(&flagWidgetRefresh, "refresh", "", `Fallback refresh schedule, cron syntax or "off" (default from config)`)
	widgetCmd.Flags().BoolVar(&flagWidgetDetach, "detach", false, "Run the host as a background process")
	widgetCmd.Flags().BoolVar(&flagWidgetChild, "child", false, "Internal: mark detached child process")
	_ = widgetCmd.Flags().MarkHidden("child")

	widgetRenderCmd.Flags().BoolVar(&flagWidgetLocal, "local", false, "Render from the store directly instead of asking the host")

	widgetCmd.AddCommand(widgetStatusCmd, widgetStopCmd, widgetReloadCmd, widgetRenderCmd)
	rootCmd.AddCommand(widgetCmd)
}

// widgetPaths resolves the address and runtime files from flags and config.
func widgetPaths(cfg config.Config) (addr, pidFile, logFile string) {
	addr = flagWidgetAddr
	if addr == "" {
		addr = config.WidgetAddr(cfg)
	}
	pidFile = flagWidgetPIDFile
	if pidFile == "" {
		pidFile = filepath.Join(config.DataDir(cfg), "widget.pid")
	}
	logFile = flagWidgetLogFile
	if logFile == "" {
		logFile = filepath.Join(config.DataDir(cfg), "widget.log")
	}
	return addr, pidFile, logFile
}

func runWidget(_ *cobra.Command, _ []string) error {
	if flagWidgetDetach && flagWidgetChild {
		return errors.New("invalid widget launch mode")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagWidgetRefresh != "" {
		cfg.Widget.RefreshSpec = flagWidgetRefresh
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if flagWidgetDetach {
		return startWidgetDetached(cfg)
	}
	return runWidgetForeground(cfg)
}

func startWidgetDetached(cfg config.Config) error {
	addr, pidFile, logFile := widgetPaths(cfg)
	if err := ensureWidgetNotRunning(pidFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create widget directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return fmt.Errorf("create widget log directory: %w", err)
	}

	//nolint:gosec // widget log path is configured by the local user
	logf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open widget log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached widget host: %w", err)
	}

	fmt.Printf("  Started widget host (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidFile)
	fmt.Printf("  API: http://%s/v1/status\n", addr)
	fmt.Printf("  Log: %s\n", logFile)
	return nil
}

func runWidgetForeground(cfg config.Config) error {
	addr, pidFile, _ := widgetPaths(cfg)
	if err := ensureWidgetNotRunning(pidFile); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create widget directory: %w", err)
	}

	log, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Verbose: flagVerbose,
		Console: !flagWidgetChild,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pid := os.Getpid()
	if err := writePID(pidFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidFile) }()

	storePath := config.StorePath(cfg)
	state := widgetRuntimeState{
		PID:       pid,
		Addr:      addr,
		StartedAt: time.Now(),
		StorePath: storePath,
	}
	_ = writeState(statePath(pidFile), state)
	defer func() { _ = os.Remove(statePath(pidFile)) }()

	// The host is an independent reader with its own connection.
	var region store.Region
	db, err := store.OpenSQLite(storePath, cfg.General.Suite)
	if err != nil {
		log.Warn("shared store unavailable, serving defaults", zap.String("path", storePath), zap.Error(err))
		region = store.Unavailable(err)
	} else {
		defer func() { _ = db.Close() }()
		region = db
	}
	gw := store.NewGateway(region, cfg.Store.Key, log.Named("store"))

	svc := widget.New(widget.Config{
		Addr:         addr,
		StorePath:    storePath,
		RefreshSpec:  cfg.Widget.RefreshSpec,
		Debounce:     cfg.Widget.Debounce(),
		EventsBuffer: cfg.Widget.EventsBuffer,
		Glyph:        cfg.Appearance.Glyph,
	}, gw, log.Named("widget"))

	fmt.Printf("  blockstime widget host listening on http://%s\n", addr)
	fmt.Printf("  Watching %s, fallback refresh %s\n", storePath, cfg.Widget.RefreshSpec)
	fmt.Printf("  Stop with: blockstime widget stop --pid-file %s\n", pidFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// SIGHUP is the out-of-band reload signal.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				svc.Refresh(widget.TriggerSignal)
			}
		}
	}()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runWidgetStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, pidFile, _ := widgetPaths(cfg)

	pid, err := readPID(pidFile)
	switch {
	case err != nil:
		fmt.Printf("  Widget host: not running (pid file not found)\n")
	case !processAlive(pid):
		fmt.Printf("  Widget host: stale pid file (pid %d not alive)\n", pid)
	default:
		fmt.Printf("  Widget host PID: %d\n", pid)
		if st, err := readState(statePath(pidFile)); err == nil && st.Addr != "" {
			addr = st.Addr
		}
	}
	fmt.Printf("  Address: http://%s\n", addr)

	client := widget.NewClient(addr, nil)
	defer client.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}

	if st.LastRefreshAt.IsZero() {
		fmt.Printf("  Last refresh: pending\n")
	} else {
		fmt.Printf("  Last refresh: %s\n", st.LastRefreshAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Refresh count: %d", st.RefreshCount)
	if len(st.Triggers) > 0 {
		parts := make([]string, 0, len(st.Triggers))
		for _, t := range []widget.Trigger{widget.TriggerStartup, widget.TriggerSignal, widget.TriggerWatch, widget.TriggerSchedule} {
			if n := st.Triggers[t]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", t, n))
			}
		}
		fmt.Printf(" (%s)", strings.Join(parts, ", "))
	}
	fmt.Println()
	fmt.Printf("  Schedule: %s\n", st.RefreshSpec)
	fmt.Printf("  Categories: %d, %.1fh allocated\n", st.Categories, st.UsedHours)
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runWidgetStop(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, pidFile, _ := widgetPaths(cfg)

	pid, err := readPID(pidFile)
	if err != nil {
		return errors.New("widget host is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find widget process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal widget process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(pidFile)
			_ = os.Remove(statePath(pidFile))
			fmt.Printf("  Stopped widget host (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("widget host (pid %d) did not exit in time", pid)
}

func runWidgetReload(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, _, _ := widgetPaths(cfg)

	client := widget.NewClient(addr, nil)
	defer client.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Reload(ctx); err != nil {
		return fmt.Errorf("widget host at %s: %w", addr, err)
	}
	infof("  Widget host reloaded\n")
	return nil
}

func runWidgetRender(_ *cobra.Command, args []string) error {
	name := "small"
	if len(args) == 1 {
		name = args[0]
	}
	size, err := layout.WidgetSizeByName(name)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, _, _ := widgetPaths(cfg)

	if !flagWidgetLocal {
		client := widget.NewClient(addr, nil)
		defer client.CloseIdleConnections()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		out, err := client.Render(ctx, size.Name)
		if err == nil {
			fmt.Print(out)
			return nil
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Widget host unreachable, rendering from the store\n")
		}
	}

	s, err := openSession(openOptions{noNotify: true})
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Print(widget.Render(widget.SnapshotOf(s.model.Categories(), time.Now()), size, cfg.Appearance.Glyph))
	return nil
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureWidgetNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("widget host already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // widget pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st widgetRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (widgetRuntimeState, error) {
	var st widgetRuntimeState
	//nolint:gosec // widget state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
