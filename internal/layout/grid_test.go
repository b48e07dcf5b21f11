package layout

import (
	"math"
	"testing"
)

func TestComputeZeroBlocksReturnsDefault(t *testing.T) {
	got := Compute(0, 800, 600, Main)
	want := Result{Columns: Main.DefaultColumns, Rows: 0, BlockSize: Main.DefaultBlockSize}
	if got != want {
		t.Fatalf("Compute(0) = %+v, want %+v", got, want)
	}
}

func TestComputeFullWeekFitsBounds(t *testing.T) {
	sizes := []struct{ w, h float64 }{
		{800, 600},
		{1024, 768},
		{600, 900},
		{1440, 900},
	}

	for _, sz := range sizes {
		got := Compute(168, sz.w, sz.h, Main)
		if !got.Fitted {
			t.Errorf("%vx%v: expected a fitted layout, got default %+v", sz.w, sz.h, got)
			continue
		}
		if got.BlockSize < Main.MinBlockSize || got.BlockSize > Main.MaxBlockSize {
			t.Errorf("%vx%v: block size %.2f outside [%v, %v]", sz.w, sz.h, got.BlockSize, Main.MinBlockSize, Main.MaxBlockSize)
		}
		if got.Columns*got.Rows < 168 {
			t.Errorf("%vx%v: %d x %d grid cannot hold 168 blocks", sz.w, sz.h, got.Columns, got.Rows)
		}
		if got.Width(Main.Gap) > sz.w-Main.Padding+1e-6 || got.Height(Main.Gap) > sz.h-Main.Padding+1e-6 {
			t.Errorf("%vx%v: footprint %.2fx%.2f overflows", sz.w, sz.h, got.Width(Main.Gap), got.Height(Main.Gap))
		}
	}
}

func TestComputeDescendingPrefersWidestGrid(t *testing.T) {
	// 800x600 usable 770x570: 10 columns gives 17 rows of ~27.9pt blocks.
	got := Compute(168, 800, 600, Main)
	if got.Columns != 10 || got.Rows != 17 {
		t.Fatalf("got %dx%d, want 10x17", got.Columns, got.Rows)
	}
	want := (570.0 - 16*6) / 17
	if math.Abs(got.BlockSize-want) > 1e-9 {
		t.Fatalf("block size = %.4f, want %.4f", got.BlockSize, want)
	}
}

func TestComputeAscendingPrefersNarrowestGrid(t *testing.T) {
	p := Main
	p.Order = Ascending

	got := Compute(12, 400, 400, p)
	if !got.Fitted {
		t.Fatalf("expected fitted layout, got %+v", got)
	}
	// 3 columns: width-based 118, height-based (370-18)/4 = 88 -> too big.
	// 4 columns: width-based 88, height-based (370-12)/3 ~ 119 -> 88 too big.
	// 5 columns: width-based 69.2, height-based 119.3 -> 69.2 fits.
	if got.Columns != 5 {
		t.Fatalf("columns = %d, want 5", got.Columns)
	}
}

func TestComputeTinyAreaFallsBack(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
	}{
		{"smaller than padding", 10, 10},
		{"zero", 0, 0},
		{"negative", -50, 300},
		{"too small for min size", 60, 60},
		{"NaN", math.NaN(), 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(168, tt.w, tt.h, Main)
			if got.Fitted {
				t.Fatalf("expected fallback, got %+v", got)
			}
			if got.Columns != Main.DefaultColumns || got.BlockSize != Main.DefaultBlockSize {
				t.Fatalf("fallback = %+v", got)
			}
			if got.BlockSize <= 0 {
				t.Fatal("fallback block size must be positive")
			}
		})
	}
}

func TestComputeDegeneratePolicy(t *testing.T) {
	got := Compute(5, 100, 100, Policy{})
	if got.Columns < 1 || got.BlockSize <= 0 {
		t.Fatalf("degenerate policy produced %+v", got)
	}
	if got.Columns*got.Rows < 5 {
		t.Fatalf("grid %dx%d cannot hold 5 blocks", got.Columns, got.Rows)
	}
}

func TestWidgetSizesFitFullWeek(t *testing.T) {
	for _, s := range WidgetSizes {
		got := s.Compute(168)
		if !got.Fitted {
			t.Errorf("%s: expected fitted layout, got %+v", s.Name, got)
			continue
		}
		if got.Columns != s.Policy.MaxColumns {
			t.Errorf("%s: columns = %d, want %d", s.Name, got.Columns, s.Policy.MaxColumns)
		}
		if got.Columns*got.Rows < 168 {
			t.Errorf("%s: %dx%d too small", s.Name, got.Columns, got.Rows)
		}
	}

	if _, err := WidgetSizeByName("huge"); err == nil {
		t.Fatal("expected error for unknown widget size")
	}
}

func TestTerminalPolicyUsesWholeCells(t *testing.T) {
	// 60 half-width cells x 20 rows: 24 columns of 1-cell blocks, 7 rows.
	got := Compute(168, 60, 20, Terminal)
	if !got.Fitted {
		t.Fatalf("expected fitted, got %+v", got)
	}
	if got.Columns*got.Rows < 168 {
		t.Fatalf("grid %dx%d too small", got.Columns, got.Rows)
	}
}

func TestComputeHugeBlockCountFallsBack(t *testing.T) {
	got := Compute(math.MaxInt, 800, 600, Main)
	if got.Fitted {
		t.Fatalf("Compute(MaxInt) fitted %+v", got)
	}
	if want := math.MaxInt/Main.DefaultColumns + 1; got.Rows != want {
		t.Fatalf("rows = %d, want %d", got.Rows, want)
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{5, 4, 2},
		{168, 12, 14},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, tt := range tests {
		if got := ceilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
