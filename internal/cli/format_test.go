package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/blockstime/internal/model"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{56, "56h"},
		{12.5, "12.5h"},
		{0, "0h"},
		{0.04, "0h"},
		{167.96, "168h"},
		{-2.5, "-2.5h"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.in); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays(168); got != "7d" {
		t.Errorf("FormatDays(168) = %q", got)
	}
	if got := FormatDays(56); got != "2.3d" {
		t.Errorf("FormatDays(56) = %q", got)
	}
}

func TestFormatBlocksAndNumber(t *testing.T) {
	if got := FormatBlocks(1); got != "1 block" {
		t.Errorf("FormatBlocks(1) = %q", got)
	}
	if got := FormatBlocks(168); got != "168 blocks" {
		t.Errorf("FormatBlocks(168) = %q", got)
	}
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("FormatNumber(-1000) = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(41, 40); got != "+1h" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(39.5, 40); got != "-0.5h" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Category", 5); got != "Cate…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Sleep", 10); got != "Sleep" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("Sleep", 0); got != "" {
		t.Errorf("Truncate zero = %q", got)
	}
}

func TestRenderBlockGridRows(t *testing.T) {
	cats := []model.Category{
		{ID: "a", Name: "A", Hours: 5, ColorID: "red"},
		{ID: "b", Name: "B", Hours: 2.5, ColorID: "blue"},
	}
	blocks := model.Blocks(cats)
	if len(blocks) != 8 {
		t.Fatalf("blocks = %d, want 8", len(blocks))
	}

	out := RenderBlockGrid(blocks, 3, GridStyle{Glyph: "#", Scale: 1})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3:\n%s", len(lines), out)
	}
	if n := strings.Count(lines[2], "#"); n != 4 {
		t.Fatalf("last row glyphs = %d, want 4 (two blocks)", n)
	}

	scaled := RenderBlockGrid(blocks, 4, GridStyle{Glyph: "#", Scale: 2})
	lines = strings.Split(strings.TrimRight(scaled, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("scaled rows = %d, want 4", len(lines))
	}
}

func TestRenderBlockGridEmpty(t *testing.T) {
	if out := RenderBlockGrid(nil, 4, DefaultGrid); !strings.Contains(out, "no hours") {
		t.Fatalf("empty grid = %q", out)
	}
}

func TestGlyphByName(t *testing.T) {
	if GlyphByName("Dot") != "●" {
		t.Fatal("dot glyph not resolved")
	}
	if GlyphByName("unknown") != "█" {
		t.Fatal("unknown glyph should fall back to block")
	}
}

func TestRenderBudgetBarWidth(t *testing.T) {
	cats := []model.Category{
		{ID: "a", Name: "A", Hours: 84, ColorID: "red"},
	}
	bar := RenderBudgetBar(cats, 20)
	if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 20 {
		t.Fatalf("bar cells = %d, want 20", got)
	}
	if strings.Count(bar, "░") != 10 {
		t.Fatalf("expected half the bar unallocated: %q", bar)
	}
}
