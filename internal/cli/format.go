// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatHours formats an hour amount, dropping a trailing ".0".
// e.g., 56 -> "56h", 12.5 -> "12.5h"
func FormatHours(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return "-"
	}
	s := strconv.FormatFloat(math.Round(h*10)/10, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	if s == "-0" {
		s = "0"
	}
	return s + "h"
}

// FormatDays expresses hours as days of 24h.
// e.g., 56 -> "2.3d", 168 -> "7d"
func FormatDays(h float64) string {
	d := strconv.FormatFloat(math.Round(h/24*10)/10, 'f', 1, 64)
	return strings.TrimSuffix(d, ".0") + "d"
}

// FormatBlocks formats a block count with its unit.
func FormatBlocks(n int) string {
	if n == 1 {
		return "1 block"
	}
	return FormatNumber(int64(n)) + " blocks"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 share as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats an hour change with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := math.Round((current-previous)*10) / 10
	if delta >= 0 {
		return "+" + FormatHours(delta)
	}
	return "-" + FormatHours(-delta)
}

// Truncate shortens s to max runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
