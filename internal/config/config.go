package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/blockstime/internal/logging"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
)

// DefaultSuite is the shared-store namespace the app and widget agree on.
const DefaultSuite = "group.blockstime"

// Config holds all blockstime configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Store      StoreConfig      `toml:"store"`
	Appearance AppearanceConfig `toml:"appearance"`
	Widget     WidgetConfig     `toml:"widget"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	Suite   string `toml:"suite"`
}

// StoreConfig names where the snapshot lives inside the suite.
type StoreConfig struct {
	Key string `toml:"key"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
	Glyph string `toml:"glyph"`
}

// WidgetConfig controls the widget host and how the app signals it.
type WidgetConfig struct {
	Addr         string `toml:"addr"`
	RefreshSpec  string `toml:"refresh_spec"`
	DebounceMS   int    `toml:"debounce_ms"`
	EventsBuffer int    `toml:"events_buffer"`
	Notify       bool   `toml:"notify"`
}

// LoggingConfig holds zap settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Suite: DefaultSuite,
		},
		Store: StoreConfig{
			Key: "blockstimeCategories",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
			Glyph: "block",
		},
		Widget: WidgetConfig{
			Addr:         "127.0.0.1:8788",
			RefreshSpec:  "@every 15m",
			DebounceMS:   250,
			EventsBuffer: 200,
			Notify:       true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "blockstime")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "blockstime")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir is where the shared store lives unless data_dir is set.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "blockstime")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "blockstime")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// DataDir resolves the data directory: env var, then config, then default.
func DataDir(cfg Config) string {
	if dir := os.Getenv("BLOCKSTIME_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return expandHome(cfg.General.DataDir)
	}
	return DefaultDataDir()
}

// StorePath is the shared SQLite database file.
func StorePath(cfg Config) string {
	return filepath.Join(DataDir(cfg), "blockstime.db")
}

// LogPath is where the dashboard and widget host log.
func LogPath(cfg Config) string {
	if cfg.Logging.File != "" {
		return expandHome(cfg.Logging.File)
	}
	return filepath.Join(DataDir(cfg), "blockstime.log")
}

// WidgetAddr returns the widget host address from env var or config, in that order.
func WidgetAddr(cfg Config) string {
	if addr := os.Getenv("BLOCKSTIME_WIDGET_ADDR"); addr != "" {
		return addr
	}
	return cfg.Widget.Addr
}

// Debounce is the widget watcher's quiet period.
func (w WidgetConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Validate reports every problem in cfg at once.
func Validate(cfg Config) error {
	var errs []error
	if strings.TrimSpace(cfg.General.Suite) == "" {
		errs = append(errs, errors.New("general.suite must not be empty"))
	}
	if strings.TrimSpace(cfg.Store.Key) == "" {
		errs = append(errs, errors.New("store.key must not be empty"))
	}
	if spec := cfg.Widget.RefreshSpec; spec != "" && spec != "off" {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("widget.refresh_spec: %w", err))
		}
	}
	if cfg.Widget.DebounceMS < 0 {
		errs = append(errs, errors.New("widget.debounce_ms must not be negative"))
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
