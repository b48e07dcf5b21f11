package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/blockstime/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCategory(t *testing.T) {
	cats := []model.Category{
		{ID: "a1", Name: "Sleep", Hours: 56},
		{ID: "b2", Name: "Work", Hours: 40},
		{ID: "c3", Name: "work", Hours: 0},
		{ID: "d4", Name: "Free", Hours: 72},
		{ID: "e5", Name: "2025", Hours: 0},
	}

	tests := []struct {
		ref     string
		wantID  string
		wantErr string
	}{
		{ref: "1", wantID: "a1"},
		{ref: "4", wantID: "d4"},
		{ref: "5", wantID: "e5"},
		{ref: "2025", wantID: "e5"},
		{ref: "b2", wantID: "b2"},
		{ref: " free ", wantID: "d4"},
		{ref: "SLEEP", wantID: "a1"},
		{ref: "0", wantErr: "no category at position 0"},
		{ref: "6", wantErr: "no category at position 6"},
		{ref: "Play", wantErr: `no category named "Play"`},
		{ref: "work", wantErr: "2 categories"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveCategory(cats, tt.ref)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		arg     string
		current float64
		want    float64
		wantErr bool
	}{
		{arg: "12", current: 40, want: 12},
		{arg: "7.5h", current: 0, want: 7.5},
		{arg: "+5", current: 40, want: 45},
		{arg: "-2.5", current: 40, want: 37.5},
		{arg: "lots", wantErr: true},
		{arg: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseHours(tt.arg, tt.current)
		if tt.wantErr {
			assert.Error(t, err, tt.arg)
			continue
		}
		require.NoError(t, err, tt.arg)
		assert.InDelta(t, tt.want, got, 1e-9, tt.arg)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"widget", "--detach", "--addr", "127.0.0.1:9", "--detach=true"})
	assert.Equal(t, []string{"widget", "--addr", "127.0.0.1:9"}, got)
}

func TestPIDAndStateFiles(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "widget.pid")

	require.NoError(t, writePID(pidFile, 4242))
	pid, err := readPID(pidFile)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	st := widgetRuntimeState{PID: 4242, Addr: "127.0.0.1:8788", StartedAt: time.Unix(1700000000, 0).UTC(), StorePath: "/tmp/b.db"}
	require.NoError(t, writeState(statePath(pidFile), st))
	got, err := readState(statePath(pidFile))
	require.NoError(t, err)
	assert.Equal(t, st, got)

	_, err = readPID(filepath.Join(dir, "missing.pid"))
	assert.Error(t, err)
	assert.NoError(t, ensureWidgetNotRunning(filepath.Join(dir, "missing.pid")))
}

func TestTransferFormat(t *testing.T) {
	flagTransferFormat = ""
	t.Cleanup(func() { flagTransferFormat = "" })

	f, err := transferFormat("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", string(f))

	f, err = transferFormat("week.json")
	require.NoError(t, err)
	assert.Equal(t, "json", string(f))

	f, err = transferFormat("week.yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", string(f))

	flagTransferFormat = "toml"
	_, err = transferFormat("week.json")
	assert.Error(t, err)
}

func TestCommandsPersistThroughSharedStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("BLOCKSTIME_DATA_DIR", t.TempDir())
	t.Setenv("BLOCKSTIME_WIDGET_ADDR", "127.0.0.1:1")
	flagQuiet = true
	t.Cleanup(func() { flagQuiet = false; flagMoveCount = 1 })

	require.NoError(t, runCategoryHours(nil, []string{"Free", "60"}))
	require.NoError(t, runCategoryHours(nil, []string{"Work", "100"}))

	flagMoveCount = 3
	require.NoError(t, runCategoryMove(nil, []string{"sleep", "3"}))
	require.NoError(t, runCategoryRename(nil, []string{"2", "Deep work"}))

	s, err := openSession(openOptions{noNotify: true})
	require.NoError(t, err)
	defer s.Close()

	cats := s.model.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, 53.0, cats[0].Hours)
	assert.Equal(t, "Deep work", cats[1].Name)
	assert.Equal(t, 52.0, cats[1].Hours, "Work clamps to the 12h freed by Free")
	assert.Equal(t, 63.0, cats[2].Hours)
	assert.NoError(t, s.gw.LastError())
}
