package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Fatal("Exists() true before Save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Suite = "group.test"
	cfg.Appearance.Glyph = "dot"
	cfg.Widget.RefreshSpec = "@every 5m"
	cfg.Widget.Notify = false

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "blockstime", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[appearance]\ntheme = \"catppuccin-mocha\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Appearance.Theme != "catppuccin-mocha" {
		t.Fatalf("theme = %q", cfg.Appearance.Theme)
	}
	if cfg.General.Suite != DefaultSuite || cfg.Widget.DebounceMS != 250 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "blockstime", "config.toml")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("[general\n"), 0o600)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPathsAndOverrides(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("BLOCKSTIME_DATA_DIR", "")
	t.Setenv("BLOCKSTIME_WIDGET_ADDR", "")

	cfg := DefaultConfig()
	if got, want := StorePath(cfg), filepath.Join(data, "blockstime", "blockstime.db"); got != want {
		t.Fatalf("StorePath = %q, want %q", got, want)
	}
	if got := LogPath(cfg); !strings.HasSuffix(got, "blockstime.log") {
		t.Fatalf("LogPath = %q", got)
	}

	cfg.General.DataDir = "/srv/blocks"
	if got := StorePath(cfg); got != "/srv/blocks/blockstime.db" {
		t.Fatalf("StorePath with data_dir = %q", got)
	}

	t.Setenv("BLOCKSTIME_DATA_DIR", "/tmp/override")
	if got := DataDir(cfg); got != "/tmp/override" {
		t.Fatalf("DataDir env override = %q", got)
	}

	t.Setenv("BLOCKSTIME_WIDGET_ADDR", "127.0.0.1:9999")
	if got := WidgetAddr(cfg); got != "127.0.0.1:9999" {
		t.Fatalf("WidgetAddr = %q", got)
	}

	if got := cfg.Widget.Debounce(); got != 250*time.Millisecond {
		t.Fatalf("Debounce = %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Widget.RefreshSpec = "off"
	if err := Validate(cfg); err != nil {
		t.Fatalf("off schedule rejected: %v", err)
	}

	cfg.General.Suite = " "
	cfg.Widget.RefreshSpec = "sometimes"
	cfg.Logging.Level = "chatty"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"general.suite", "widget.refresh_spec", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
