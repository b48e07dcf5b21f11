package model

import (
	"strconv"
	"strings"
)

// PaletteEntry is one selectable block color.
type PaletteEntry struct {
	ID    string `json:"id"`
	Main  string `json:"main"`
	Light string `json:"light"`
	Dark  string `json:"dark"`
	Glow  string `json:"glow"`
}

// Palette is the fixed set of block colors. The widget host and the
// dashboard both read it from here so the two never drift.
var Palette = []PaletteEntry{
	{ID: "red", Main: "#E63946", Light: "#FF6B6B", Dark: "#A1161E", Glow: "#E63946"},
	{ID: "orange", Main: "#F77F00", Light: "#FFA500", Dark: "#D66E00", Glow: "#F77F00"},
	{ID: "green", Main: "#06A77D", Light: "#00D9A3", Dark: "#045A52", Glow: "#06A77D"},
	{ID: "blue", Main: "#3A86FF", Light: "#72B4FF", Dark: "#1E3A8A", Glow: "#3A86FF"},
	{ID: "purple", Main: "#8338EC", Light: "#A867F3", Dark: "#4C1D95", Glow: "#8338EC"},
	{ID: "deepOrange", Main: "#FB5607", Light: "#FF8C42", Dark: "#C41E3A", Glow: "#FB5607"},
	{ID: "pink", Main: "#FF006E", Light: "#FF5C9A", Dark: "#AD004C", Glow: "#FF006E"},
	{ID: "white", Main: "#F1FAEE", Light: "#FFFFFF", Dark: "#BDC4CB", Glow: "#F1FAEE"},
}

// UnallocatedColor is used for the remaining-hours indicator.
const UnallocatedColor = "#666666"

// ColorByID returns the palette entry with the given id, or the first
// entry when id is unknown.
func ColorByID(id string) PaletteEntry {
	for _, p := range Palette {
		if p.ID == id {
			return p
		}
	}
	return Palette[0]
}

// IsPaletteID reports whether id names a palette entry.
func IsPaletteID(id string) bool {
	for _, p := range Palette {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PaletteIndex returns the index of id in the palette, or 0.
func PaletteIndex(id string) int {
	for i, p := range Palette {
		if p.ID == id {
			return i
		}
	}
	return 0
}

// NextColorID cycles to the palette entry after id.
func NextColorID(id string) string {
	return Palette[(PaletteIndex(id)+1)%len(Palette)].ID
}

// RGBA is an 8-bit color with alpha.
type RGBA struct {
	R, G, B, A uint8
}

// ParseHex parses #RGB, #RRGGBB and #AARRGGBB. Anything else is opaque black.
func ParseHex(s string) RGBA {
	hex := strings.TrimLeft(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return RGBA{A: 255}
	}

	switch len(hex) {
	case 3:
		return RGBA{
			R: uint8((v >> 8) * 17),
			G: uint8((v >> 4 & 0xF) * 17),
			B: uint8((v & 0xF) * 17),
			A: 255,
		}
	case 6:
		return RGBA{R: uint8(v >> 16), G: uint8(v >> 8 & 0xFF), B: uint8(v & 0xFF), A: 255}
	case 8:
		return RGBA{A: uint8(v >> 24), R: uint8(v >> 16 & 0xFF), G: uint8(v >> 8 & 0xFF), B: uint8(v & 0xFF)}
	default:
		return RGBA{A: 255}
	}
}

// Hex formats the color as #RRGGBB, dropping alpha.
func (c RGBA) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0xF]
	}
	return string(b)
}
