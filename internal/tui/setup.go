package tui

import (
	"slices"

	"github.com/theirongolddev/blockstime/internal/cli"
	"github.com/theirongolddev/blockstime/internal/config"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds what the first-run form collects. The form writes
// through pointers, so App keeps it behind one.
type setupValues struct {
	theme  string
	glyph  string
	notify bool
}

// newSetupForm builds the first-run form, seeded from cfg.
func newSetupForm(cfg config.Config) (*huh.Form, *setupValues) {
	vals := &setupValues{
		theme:  cfg.Appearance.Theme,
		glyph:  cfg.Appearance.Glyph,
		notify: cfg.Widget.Notify,
	}
	if vals.theme == "" {
		vals.theme = theme.FlexokiDark.Name
	}
	if vals.glyph == "" {
		vals.glyph = "block"
	}

	glyphs := make([]string, 0, len(cli.Glyphs))
	for name := range cli.Glyphs {
		glyphs = append(glyphs, name)
	}
	slices.Sort(glyphs)
	glyphOpts := make([]huh.Option[string], 0, len(glyphs))
	for _, name := range glyphs {
		glyphOpts = append(glyphOpts, huh.NewOption(cli.Glyphs[name]+"  "+name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to blockstime").
				Description("Your week is 168 one-hour blocks.\nPick how the dashboard looks; you can change it later with `blockstime setup`."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
			huh.NewSelect[string]().
				Title("Block glyph").
				Options(glyphOpts...).
				Value(&vals.glyph),
			huh.NewConfirm().
				Title("Tell the widget host about every change?").
				Affirmative("Yes").
				Negative("No").
				Value(&vals.notify),
		),
	).WithShowHelp(true)

	return form, vals
}

// applySetup copies the collected values into cfg.
func (v *setupValues) applySetup(cfg *config.Config) {
	cfg.Appearance.Theme = v.theme
	cfg.Appearance.Glyph = v.glyph
	cfg.Widget.Notify = v.notify
}

func (a *App) saveSetupConfig() error {
	if a.setupVals == nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		cfg = a.cfg
	}
	a.setupVals.applySetup(&cfg)
	a.setupVals.applySetup(&a.cfg)

	theme.SetActive(cfg.Appearance.Theme)
	a.glyph = cli.GlyphByName(cfg.Appearance.Glyph)

	return config.Save(cfg)
}

// RunSetup runs the setup form on its own and saves the result. The
// setup command uses it outside the dashboard.
func RunSetup(cfg config.Config) (config.Config, error) {
	form, vals := newSetupForm(cfg)
	if err := form.Run(); err != nil {
		return cfg, err
	}
	vals.applySetup(&cfg)
	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg, nil
}
