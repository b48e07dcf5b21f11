package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/blockstime/internal/config"
	"github.com/theirongolddev/blockstime/internal/tui/components"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDiagnosticsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)

	row := func(b *strings.Builder, label, value string) {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), valueStyle.Render(value))
	}

	halves := components.LayoutRow(cw, 2)

	var store strings.Builder
	if a.inspector == nil {
		store.WriteString(labelStyle.Render("No store attached."))
	} else {
		d := a.inspector.Inspect()
		if d.Healthy {
			row(&store, "Status", okStyle.Render("healthy"))
		} else {
			row(&store, "Status", errStyle.Render("unavailable"))
		}
		row(&store, "Key", d.Key)
		row(&store, "Keys in region", fmt.Sprintf("%d", len(d.Keys)))
		if d.HasSnapshot {
			row(&store, "Snapshot", fmt.Sprintf("%d bytes", d.SnapshotBytes))
			row(&store, "Categories", fmt.Sprintf("%d (%d visible)", d.Categories, d.Visible))
		} else {
			row(&store, "Snapshot", "none, defaults in use")
		}
		if !d.UpdatedAt.IsZero() {
			row(&store, "Last write", d.UpdatedAt.Local().Format(time.DateTime))
		}
		if d.LastError != "" {
			fmt.Fprintf(&store, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "Last error")), errStyle.Render(d.LastError))
		}
	}

	var cfg strings.Builder
	row(&cfg, "Config file", config.ConfigPath())
	row(&cfg, "Store", config.StorePath(a.cfg))
	row(&cfg, "Suite", a.cfg.General.Suite)
	row(&cfg, "Theme", theme.Active.Name)
	row(&cfg, "Widget", config.WidgetAddr(a.cfg))
	row(&cfg, "Refresh", a.cfg.Widget.RefreshSpec)
	notify := "off"
	if a.cfg.Widget.Notify {
		notify = "on"
	}
	row(&cfg, "Notify widget", notify)
	if err := a.m.LastError(); err != nil {
		fmt.Fprintf(&cfg, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "Save error")), errStyle.Render(err.Error()))
	}

	return components.CardRow([]string{
		components.ContentCard("Shared store", strings.TrimSuffix(store.String(), "\n"), halves[0]),
		components.ContentCard("Configuration", strings.TrimSuffix(cfg.String(), "\n"), halves[1]),
	})
}
