// Package layout packs N unit blocks into a rectangle.
//
// Every grid in blockstime (the dashboard, each widget size, the CLI
// preview) goes through Compute with its own Policy.
package layout

import "math"

// Order is the direction the column search runs in.
type Order int

const (
	// Descending tries the widest grid first.
	Descending Order = iota
	// Ascending tries the narrowest grid first.
	Ascending
)

// fitTolerance absorbs float error when the chosen size exactly fills an axis.
const fitTolerance = 1e-9

// Policy holds the per-call-site sizing rules.
type Policy struct {
	Name             string
	Padding          float64 // subtracted once from each axis
	Gap              float64
	MinBlockSize     float64
	MaxBlockSize     float64
	MinColumns       int
	MaxColumns       int
	DefaultColumns   int
	DefaultBlockSize float64
	Order            Order
}

// Result is the chosen grid.
type Result struct {
	Columns   int     `json:"columns"`
	Rows      int     `json:"rows"`
	BlockSize float64 `json:"block_size"`
	Fitted    bool    `json:"fitted"` // false when the policy default was used
}

// Width is the grid's horizontal footprint.
func (r Result) Width(gap float64) float64 {
	return footprint(r.Columns, r.BlockSize, gap)
}

// Height is the grid's vertical footprint.
func (r Result) Height(gap float64) float64 {
	return footprint(r.Rows, r.BlockSize, gap)
}

// Compute picks the column count and block size for totalBlocks blocks in a
// width x height area. It never divides by zero and never returns a size
// below MinBlockSize from the search; when nothing fits it returns the
// policy default.
func Compute(totalBlocks int, width, height float64, p Policy) Result {
	p = p.normalized()

	if totalBlocks <= 0 {
		return p.fallback(0)
	}

	usableW := width - p.Padding
	usableH := height - p.Padding
	if !(usableW > 0) || !(usableH > 0) {
		return p.fallback(totalBlocks)
	}

	for _, cols := range p.columnOrder() {
		rows := ceilDiv(totalBlocks, cols)

		widthBased := (usableW - float64(cols-1)*p.Gap) / float64(cols)
		heightBased := (usableH - float64(rows-1)*p.Gap) / float64(rows)
		size := math.Min(widthBased, heightBased)

		if size < p.MinBlockSize || size > p.MaxBlockSize {
			continue
		}
		if footprint(cols, size, p.Gap) > usableW+fitTolerance ||
			footprint(rows, size, p.Gap) > usableH+fitTolerance {
			continue
		}

		return Result{Columns: cols, Rows: rows, BlockSize: size, Fitted: true}
	}

	return p.fallback(totalBlocks)
}

func (p Policy) fallback(totalBlocks int) Result {
	rows := 0
	if totalBlocks > 0 {
		rows = ceilDiv(totalBlocks, p.DefaultColumns)
	}
	return Result{Columns: p.DefaultColumns, Rows: rows, BlockSize: p.DefaultBlockSize}
}

func (p Policy) columnOrder() []int {
	cols := make([]int, 0, p.MaxColumns-p.MinColumns+1)
	if p.Order == Ascending {
		for c := p.MinColumns; c <= p.MaxColumns; c++ {
			cols = append(cols, c)
		}
		return cols
	}
	for c := p.MaxColumns; c >= p.MinColumns; c-- {
		cols = append(cols, c)
	}
	return cols
}

// normalized repairs policies that would make the search meaningless.
func (p Policy) normalized() Policy {
	if p.MinColumns < 1 {
		p.MinColumns = 1
	}
	if p.MaxColumns < p.MinColumns {
		p.MaxColumns = p.MinColumns
	}
	if p.DefaultColumns < 1 {
		p.DefaultColumns = p.MinColumns
	}
	if p.Gap < 0 || math.IsNaN(p.Gap) {
		p.Gap = 0
	}
	if p.Padding < 0 || math.IsNaN(p.Padding) {
		p.Padding = 0
	}
	if p.MaxBlockSize <= 0 {
		p.MaxBlockSize = math.Inf(1)
	}
	if p.MinBlockSize <= 0 {
		p.MinBlockSize = math.SmallestNonzeroFloat64
	}
	if p.DefaultBlockSize <= 0 {
		p.DefaultBlockSize = 1
	}
	return p
}

func footprint(n int, size, gap float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*size + float64(n-1)*gap
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a-1)/b + 1
}
