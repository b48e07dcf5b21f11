package widget

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/blockstime/internal/layout"
	"github.com/theirongolddev/blockstime/internal/model"
)

func TestRenderSizes(t *testing.T) {
	snap := SnapshotOf(model.DefaultCategories(), time.Now())

	tests := []struct {
		size       string
		wantHeader string
		wantRows   int
		wantLegend bool
	}{
		{"small", "", 14, false},
		{"medium", "medium · 24x7", 7, true},
		{"large", "large · 12x14", 14, true},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			size, err := layout.WidgetSizeByName(tt.size)
			if err != nil {
				t.Fatal(err)
			}
			out := Render(snap, size, "block")
			if tt.wantHeader == "" {
				if strings.Contains(out, "blockstime") {
					t.Fatalf("small widget should be the bare grid:\n%s", out)
				}
			} else if !strings.Contains(out, tt.wantHeader) {
				t.Fatalf("header missing %q:\n%s", tt.wantHeader, out)
			}

			rows := 0
			for _, line := range strings.Split(out, "\n") {
				if strings.Contains(line, "█") {
					rows++
				}
			}
			if rows != tt.wantRows {
				t.Fatalf("grid rows = %d, want %d", rows, tt.wantRows)
			}
			if got := strings.Contains(out, "Sleep"); got != tt.wantLegend {
				t.Fatalf("legend present = %v, want %v", got, tt.wantLegend)
			}
			if strings.Contains(out, "unallocated") {
				t.Fatal("full week should not report unallocated hours")
			}
		})
	}
}

func TestRenderPartialWeek(t *testing.T) {
	snap := SnapshotOf([]model.Category{
		{ID: "a", Name: "Gym", Hours: 4.5, ColorID: "purple"},
	}, time.Now())
	size, _ := layout.WidgetSizeByName("medium")

	out := Render(snap, size, "block")
	if !strings.Contains(out, "163.5h unallocated") {
		t.Fatalf("missing remainder line:\n%s", out)
	}
	if n := strings.Count(out, "█"); n != 10 {
		t.Fatalf("cells = %d, want 10 (five blocks)", n)
	}
}

func TestRenderLegendLargestFirst(t *testing.T) {
	snap := SnapshotOf([]model.Category{
		{ID: "a", Name: "Gym", Hours: 4, ColorID: "purple"},
		{ID: "b", Name: "Idle", Hours: 0, ColorID: "white"},
		{ID: "c", Name: "Work", Hours: 40, ColorID: "orange"},
		{ID: "d", Name: "Read", Hours: 10, ColorID: "blue"},
	}, time.Now())

	for _, name := range []string{"medium", "large"} {
		size, _ := layout.WidgetSizeByName(name)
		out := Render(snap, size, "block")

		work, read, gym := strings.Index(out, "Work"), strings.Index(out, "Read"), strings.Index(out, "Gym")
		if work < 0 || !(work < read && read < gym) {
			t.Fatalf("%s legend not sorted by hours:\n%s", name, out)
		}
		if strings.Contains(out, "Idle") {
			t.Fatalf("%s legend lists an empty category", name)
		}
	}

	small, _ := layout.WidgetSizeByName("small")
	if out := Render(snap, small, "block"); strings.Contains(out, "Work") || strings.Contains(out, "unallocated") {
		t.Fatalf("small widget drew a legend:\n%s", out)
	}
}
