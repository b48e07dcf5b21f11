// Package model defines the shared data types for blockstime.
package model

import (
	"math"

	"github.com/google/uuid"
)

const (
	// TotalHours is the weekly budget every allocation must fit in.
	TotalHours = 168.0
	// BlockHours is the number of hours one grid block represents.
	BlockHours = 1.0
	// HoursPrecision rounds hours to one decimal place.
	HoursPrecision = 10.0

	// UnnamedCategory replaces an empty category name.
	UnnamedCategory = "Unnamed"
)

// Category is a named bucket of weekly hours.
type Category struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Hours   float64 `json:"hours" yaml:"hours"`
	ColorID string  `json:"colorId" yaml:"colorId"`
}

// NewCategory returns a category with a fresh id.
func NewCategory(name string, hours float64, colorID string) Category {
	return Category{
		ID:      NewID(),
		Name:    name,
		Hours:   hours,
		ColorID: colorID,
	}
}

// NewID returns a new opaque category identifier.
func NewID() string {
	return uuid.NewString()
}

// BlocksCount is the number of blocks the category occupies.
// A partial hour still takes a whole block.
func (c Category) BlocksCount() int {
	if c.Hours <= 0 || math.IsNaN(c.Hours) {
		return 0
	}
	return int(math.Ceil(c.Hours / BlockHours))
}

// Percentage is the share of the weekly budget, 0-100.
func (c Category) Percentage() float64 {
	return c.Hours / TotalHours * 100
}

// Color resolves the category's palette entry.
func (c Category) Color() PaletteEntry {
	return ColorByID(c.ColorID)
}

// RoundHours rounds h to one decimal place.
func RoundHours(h float64) float64 {
	return math.Round(h*HoursPrecision) / HoursPrecision
}

// FloorHours truncates h to one decimal place.
func FloorHours(h float64) float64 {
	return math.Floor(h*HoursPrecision+1e-9) / HoursPrecision
}

// SumHours totals the hours of all categories.
func SumHours(cats []Category) float64 {
	var total float64
	for _, c := range cats {
		total += c.Hours
	}
	return total
}

// TotalBlocks totals the blocks of all categories.
func TotalBlocks(cats []Category) int {
	n := 0
	for _, c := range cats {
		n += c.BlocksCount()
	}
	return n
}

// Visible returns the categories with hours > 0, order kept.
func Visible(cats []Category) []Category {
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if c.Hours > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Block is one cell of the grid: a category and the block's index within it.
type Block struct {
	Category Category
	Index    int
}

// Blocks expands the visible categories into the ordered block sequence
// every grid renders.
func Blocks(cats []Category) []Block {
	blocks := make([]Block, 0, TotalBlocks(cats))
	for _, c := range cats {
		for i := 0; i < c.BlocksCount(); i++ {
			blocks = append(blocks, Block{Category: c, Index: i})
		}
	}
	return blocks
}

// DefaultCategories is the seed set used on first run and whenever the
// stored snapshot cannot be read. It sums to TotalHours. The ids are fixed
// so repeated loads of an empty store describe the same categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "default-sleep", Name: "Sleep", Hours: 56, ColorID: "red"},
		{ID: "default-work", Name: "Work", Hours: 40, ColorID: "orange"},
		{ID: "default-free", Name: "Free", Hours: 72, ColorID: "green"},
	}
}
