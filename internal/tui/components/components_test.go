package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/blockstime/internal/model"
	"github.com/theirongolddev/blockstime/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowPadsShortCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d has no styling", i)
		}
	}
}

func TestLayoutRowSumsToWidth(t *testing.T) {
	widths := LayoutRow(100, 3)
	if widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("zero columns should return nil")
	}
}

func TestBlockGridFitsArea(t *testing.T) {
	cats := model.DefaultCategories()

	out, res := BlockGrid(cats, GridOptions{Width: 120, Height: 40})
	if !res.Fitted {
		t.Fatalf("168 blocks should fit 120x40, got %+v", res)
	}
	lines := strings.Split(out, "\n")
	size := int(res.BlockSize)
	if len(lines) != res.Rows*size {
		t.Fatalf("grid lines = %d, want %d", len(lines), res.Rows*size)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 120 {
			t.Fatalf("line %d width %d exceeds area", i, w)
		}
	}
}

func TestBlockGridEmpty(t *testing.T) {
	out, res := BlockGrid(nil, GridOptions{Width: 80, Height: 20})
	if !strings.Contains(out, "No hours allocated") {
		t.Fatalf("empty grid = %q", out)
	}
	if res.Fitted {
		t.Fatal("zero blocks should report the default layout")
	}
}

func TestBlockShade(t *testing.T) {
	c := model.Category{ID: "a", Name: "A", Hours: 2.5, ColorID: "blue"}
	first := BlockShade(model.Block{Category: c, Index: 0}, false)
	last := BlockShade(model.Block{Category: c, Index: 2}, false)
	selected := BlockShade(model.Block{Category: c, Index: 0}, true)

	if strings.ToUpper(first) != "#3A86FF" {
		t.Fatalf("first block = %s, want palette main", first)
	}
	if strings.ToUpper(last) != "#72B4FF" {
		t.Fatalf("partial block = %s, want palette light", last)
	}
	if selected == first {
		t.Fatal("selection did not change the shade")
	}
}

func TestTabWidthsAndKeys(t *testing.T) {
	for i, tab := range Tabs {
		if TabIdxByKey(tab.Key) != i {
			t.Fatalf("TabIdxByKey(%q) != %d", tab.Key, i)
		}
		if TabVisualWidth(tab, false) <= TabVisualWidth(tab, true) {
			t.Fatalf("inactive %s should show its key", tab.Name)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Fatal("unknown key should return -1")
	}
}

func TestHoursChartLabels(t *testing.T) {
	out := HoursChart(model.DefaultCategories(), 60, 10)
	if !strings.Contains(out, "Sleep") || !strings.Contains(out, "Free") {
		t.Fatalf("chart missing labels:\n%s", out)
	}
	if !strings.Contains(out, "h") {
		t.Fatal("axis labels should be in hours")
	}
}
