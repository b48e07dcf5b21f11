// Package tui provides the interactive Bubble Tea dashboard for blockstime.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/blockstime/internal/allocation"
	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/config"
	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/store"
	"github.com/theirongolddev/blockstime/internal/tui/components"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// modelEventMsg carries an allocation change into the update loop.
type modelEventMsg allocation.Event

// Inspector exposes the store diagnostics shown on the Diagnostics tab.
type Inspector interface {
	Inspect() store.Diagnostics
}

// Options configures NewApp.
type Options struct {
	Inspector Inspector
	Config    config.Config
	NeedSetup bool
	Log       *zap.Logger
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeRename
	modeHours
	modeMove
)

func (m inputMode) String() string {
	switch m {
	case modeRename:
		return "rename"
	case modeHours:
		return "hours"
	case modeMove:
		return "move"
	default:
		return ""
	}
}

// App is the root Bubble Tea model.
type App struct {
	m         *allocation.Model
	inspector Inspector
	cfg       config.Config
	log       *zap.Logger

	events    <-chan allocation.Event
	cancelSub func()

	// UI state
	width     int
	height    int
	activeTab int
	cursor    int
	showHelp  bool
	glyph     string
	help      help.Model

	// Editing
	mode     inputMode
	input    textinput.Model
	moveFrom string
	undo     []model.Category

	status    string
	statusErr bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5

	tabBlocks      = 0
	tabCategories  = 1
	tabStats       = 2
	tabDiagnostics = 3

	smallStep = 1.0
	bigStep   = 5.0
)

// NewApp creates the dashboard over m. Call Close when the program exits.
func NewApp(m *allocation.Model, opts Options) App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	events, cancel := m.Subscribe(32)

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30

	a := App{
		m:         m,
		inspector: opts.Inspector,
		cfg:       opts.Config,
		log:       log,
		events:    events,
		cancelSub: cancel,
		glyph:     cli.GlyphByName(opts.Config.Appearance.Glyph),
		help:      help.New(),
		input:     ti,
		needSetup: opts.NeedSetup,
	}
	if a.needSetup {
		a.setupForm, a.setupVals = newSetupForm(opts.Config)
	}
	if err := m.LastError(); err != nil {
		a.setError(err)
	}
	return a
}

// Close stops the model subscription.
func (a App) Close() {
	if a.cancelSub != nil {
		a.cancelSub()
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		waitForEvent(a.events),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case modelEventMsg:
		if msg.SaveErr != nil {
			a.setError(msg.SaveErr)
		}
		a.clampCursor()
		return a, waitForEvent(a.events)

	case tea.MouseMsg:
		if a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		switch a.mode {
		case modeRename, modeHours:
			return a.updateInput(msg)
		case modeMove:
			return a.updateMove(msg)
		}
		return a.updateNormal(msg)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.mode == modeRename || a.mode == modeHours {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
			a.activeTab = tab
			return a, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case key.Matches(msg, keys.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case key.Matches(msg, keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, keys.Reload):
		a.m.Reload()
		a.clampCursor()
		a.setStatus("reloaded from store")
	case key.Matches(msg, keys.Add):
		c := a.m.AddCategory()
		a.cursor = len(a.m.Categories()) - 1
		a.setStatus("added " + c.Name)
		return a.startInput(modeRename, c.Name)
	case key.Matches(msg, keys.Undo):
		a.restoreUndo()
	}

	c, ok := a.selected()
	if !ok {
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.AddHour):
		a.adjustHours(c, smallStep)
	case key.Matches(msg, keys.SubHour):
		a.adjustHours(c, -smallStep)
	case key.Matches(msg, keys.AddFive):
		a.adjustHours(c, bigStep)
	case key.Matches(msg, keys.SubFive):
		a.adjustHours(c, -bigStep)
	case key.Matches(msg, keys.Zero):
		a.setHours(c, 0)
	case key.Matches(msg, keys.Max):
		a.setHours(c, a.m.MaxAvailableHours(c.ID))
	case key.Matches(msg, keys.SetHours):
		return a.startInput(modeHours, strconv.FormatFloat(c.Hours, 'f', -1, 64))
	case key.Matches(msg, keys.Rename):
		return a.startInput(modeRename, c.Name)
	case key.Matches(msg, keys.Color):
		next := model.NextColorID(c.ColorID)
		a.m.SetCategoryColor(c.ID, next)
		a.setStatus(fmt.Sprintf("%s is now %s", c.Name, next))
	case key.Matches(msg, keys.Remove):
		a.undo = a.m.Categories()
		a.m.RemoveCategory(c.ID)
		a.clampCursor()
		a.setStatus(fmt.Sprintf("removed %s, u to undo", c.Name))
	case key.Matches(msg, keys.Move):
		if c.Hours < model.BlockHours {
			a.setStatus(c.Name + " has no whole block to move")
			return a, nil
		}
		a.mode = modeMove
		a.moveFrom = c.ID
		a.setStatus("pick a target, enter moves one block, esc ends")
	}
	return a, nil
}

func (a App) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "m", "q":
		a.mode = modeNormal
		a.moveFrom = ""
		a.setStatus("")
		return a, nil
	case "enter", " ":
		target, ok := a.selected()
		if !ok {
			return a, nil
		}
		src, _ := a.m.Category(a.moveFrom)
		if a.m.MoveBlock(a.moveFrom, target.ID) {
			a.setStatus(fmt.Sprintf("moved %s from %s to %s", cli.FormatHours(model.BlockHours), src.Name, target.Name))
		} else {
			a.setStatus("nothing to move")
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		a.moveCursor(1)
	}
	return a, nil
}

func (a App) startInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	a.mode = mode
	a.input.SetValue(value)
	a.input.CursorEnd()
	if mode == modeHours {
		a.input.Placeholder = "hours, e.g. 7.5"
	} else {
		a.input.Placeholder = "name"
	}
	cmd := a.input.Focus()
	return a, cmd
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.input.Blur()
		return a, nil
	case "enter":
		value := strings.TrimSpace(a.input.Value())
		mode := a.mode
		a.mode = modeNormal
		a.input.Blur()

		c, ok := a.selected()
		if !ok {
			return a, nil
		}
		if mode == modeRename {
			a.m.RenameCategory(c.ID, value)
			if renamed, ok := a.m.Category(c.ID); ok {
				a.setStatus("renamed to " + renamed.Name)
			}
			return a, nil
		}

		hours, err := strconv.ParseFloat(value, 64)
		if err != nil {
			a.setError(fmt.Errorf("%q is not a number of hours", value))
			return a, nil
		}
		a.setHours(c, hours)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.setError(err)
		} else {
			a.setStatus("settings saved to " + config.ConfigPath())
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) adjustHours(c model.Category, delta float64) {
	a.setHours(c, c.Hours+delta)
}

func (a *App) setHours(c model.Category, requested float64) {
	got := a.m.SetCategoryHours(c.ID, requested)
	msg := fmt.Sprintf("%s: %s", c.Name, cli.FormatHours(got))
	if model.RoundHours(requested) > got {
		msg += " (budget full)"
	}
	a.setStatus(msg)
}

func (a *App) restoreUndo() {
	if a.undo == nil {
		a.setStatus("nothing to undo")
		return
	}
	a.m.Replace(a.undo)
	a.undo = nil
	a.clampCursor()
	a.setStatus("restored")
}

func (a *App) selected() (model.Category, bool) {
	cats := a.m.Categories()
	if a.cursor < 0 || a.cursor >= len(cats) {
		return model.Category{}, false
	}
	return cats[a.cursor], true
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	n := len(a.m.Categories())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = err.Error()
	a.statusErr = true
	a.log.Debug("dashboard error", zap.Error(err))
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  blockstime needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")

	sections := []string{"Navigation", "Hours", "Categories", "General"}
	for i, group := range keys.FullHelp() {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sections[i]))
		b.WriteString("\n")
		for _, bind := range group {
			h := bind.Help()
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-6s", h.Key)),
				descStyle.Render(h.Desc))
		}
	}
	fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-6s", "1-4")), descStyle.Render("jump to tab"))

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	var footer string
	switch a.mode {
	case modeRename, modeHours:
		prompt := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render(" " + a.mode.String() + ": ")
		footer = lipgloss.NewStyle().Background(t.Surface).Width(w).Render(prompt + a.input.View())
	default:
		hm := a.help
		hm.Width = w - 1
		footer = lipgloss.NewStyle().Background(t.Background).Width(w).Render(" " + hm.View(keys))
	}

	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Mode:    a.mode.String(),
		Message: a.status,
		IsError: a.statusErr,
		Budget:  fmt.Sprintf("%s / %s", cli.FormatHours(a.m.TotalUsedHours()), cli.FormatHours(model.TotalHours)),
	})

	contentH := h - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabBlocks:
		content = a.renderBlocksTab(cw, contentH)
	case tabCategories:
		content = a.renderCategoriesTab(cw, contentH)
	case tabStats:
		content = a.renderStatsTab(cw, contentH)
	case tabDiagnostics:
		content = a.renderDiagnosticsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, footer, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func waitForEvent(ch <-chan allocation.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return modelEventMsg(ev)
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
