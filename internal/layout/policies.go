package layout

import "fmt"

// Main is the dashboard/grid-view policy, in points.
var Main = Policy{
	Name:             "main",
	Padding:          30,
	Gap:              6,
	MinBlockSize:     20,
	MaxBlockSize:     80,
	MinColumns:       3,
	MaxColumns:       10,
	DefaultColumns:   4,
	DefaultBlockSize: 60,
	Order:            Descending,
}

// WidgetSmall packs the week into a 12-wide grid.
var WidgetSmall = Policy{
	Name:             "small",
	Padding:          4,
	Gap:              0.5,
	MinBlockSize:     1,
	MaxBlockSize:     40,
	MinColumns:       12,
	MaxColumns:       12,
	DefaultColumns:   12,
	DefaultBlockSize: 8,
}

// WidgetMedium packs the week into 24 columns (one per hour of a day).
var WidgetMedium = Policy{
	Name:             "medium",
	Padding:          8,
	Gap:              0.8,
	MinBlockSize:     1,
	MaxBlockSize:     40,
	MinColumns:       24,
	MaxColumns:       24,
	DefaultColumns:   24,
	DefaultBlockSize: 6,
}

// WidgetLarge is the 12-wide grid with room for a legend.
var WidgetLarge = Policy{
	Name:             "large",
	Padding:          8,
	Gap:              1,
	MinBlockSize:     1,
	MaxBlockSize:     60,
	MinColumns:       12,
	MaxColumns:       12,
	DefaultColumns:   12,
	DefaultBlockSize: 8,
}

// Terminal works in character cells. A block of size s is drawn s rows tall
// and 2s columns wide, so callers pass half the available column count as
// the width.
var Terminal = Policy{
	Name:             "terminal",
	Padding:          0,
	Gap:              0,
	MinBlockSize:     1,
	MaxBlockSize:     3,
	MinColumns:       4,
	MaxColumns:       24,
	DefaultColumns:   12,
	DefaultBlockSize: 1,
	Order:            Descending,
}

// WidgetSize is a widget family member with its nominal dimensions.
type WidgetSize struct {
	Name          string
	Width         float64
	Height        float64
	LegendHeight  float64 // reserved below the grid, 0 for no legend
	SectionSpacer float64
	Policy        Policy
}

// Area is the space left for the grid once the legend is reserved.
func (s WidgetSize) Area() (float64, float64) {
	h := s.Height - s.LegendHeight - s.SectionSpacer
	if h < 0 {
		h = 0
	}
	return s.Width, h
}

// Compute lays out totalBlocks for this widget size.
func (s WidgetSize) Compute(totalBlocks int) Result {
	w, h := s.Area()
	return Compute(totalBlocks, w, h, s.Policy)
}

// WidgetSizes lists the widget family, smallest first.
var WidgetSizes = []WidgetSize{
	{Name: "small", Width: 158, Height: 158, Policy: WidgetSmall},
	{Name: "medium", Width: 338, Height: 158, LegendHeight: 28, SectionSpacer: 2, Policy: WidgetMedium},
	{Name: "large", Width: 338, Height: 354, LegendHeight: 40, SectionSpacer: 2, Policy: WidgetLarge},
}

// WidgetSizeByName finds a widget size.
func WidgetSizeByName(name string) (WidgetSize, error) {
	for _, s := range WidgetSizes {
		if s.Name == name {
			return s, nil
		}
	}
	return WidgetSize{}, fmt.Errorf("unknown widget size %q", name)
}
