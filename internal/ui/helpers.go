package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rescueworks/rescuetui/internal/rescue"
)

// moveCursor applies a navigation key to cursor over total rows.
func moveCursor(msg tea.KeyMsg, keys keyMap, cursor, total int) int {
	if total == 0 {
		return 0
	}
	switch {
	case key.Matches(msg, keys.Down):
		cursor++
	case key.Matches(msg, keys.Up):
		cursor--
	case key.Matches(msg, keys.Top):
		cursor = 0
	case key.Matches(msg, keys.Bottom):
		cursor = total - 1
	}
	return clampCursor(cursor, total)
}

func clampCursor(cursor, total int) int {
	if total <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= total {
		return total - 1
	}
	return cursor
}

// window returns the [start, end) range of size rows that keeps cursor visible.
func window(cursor, total, size int) (int, int) {
	if size <= 0 || total <= size {
		return 0, total
	}
	if cursor < 0 {
		cursor = 0
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > total {
		start = total - size
	}
	return start, start + size
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// formatAmount renders a currency amount with thousands separators.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	raw := fmt.Sprintf("%.2f", v)
	whole, frac, _ := strings.Cut(raw, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

var sparkBars = []rune("▁▂▃▄▅▆▇█")

// sparkline draws counts as a row of block characters scaled to the maximum.
func sparkline(counts []int) string {
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	out := make([]rune, len(counts))
	for i, c := range counts {
		if peak == 0 || c <= 0 {
			out[i] = sparkBars[0]
			continue
		}
		idx := c * (len(sparkBars) - 1) / peak
		out[i] = sparkBars[idx]
	}
	return string(out)
}

// describeError turns a load failure into one line for the screen.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, rescue.ErrUnauthorized) {
		return "Your session was rejected. Press L to sign in again."
	}
	var apiErr *rescue.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return fmt.Sprintf("Server returned %d: %s", apiErr.StatusCode, apiErr.Detail)
	}
	return truncate(err.Error(), 120)
}

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// titleCase converts an underscore-separated string to title case.
func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Split(value, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
