package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphs maps each clock character to a 3-row box drawing. Digits are three
// cells wide, the colon is one.
var glyphs = map[rune][3]string{
	'0': {"╭─╮", "│ │", "╰─╯"},
	'1': {" ╷ ", " │ ", " ╵ "},
	'2': {"╶─╮", "╭─╯", "╰─╴"},
	'3': {"╶─╮", " ─┤", "╶─╯"},
	'4': {"╷ ╷", "╰─┤", "  ╵"},
	'5': {"╭─╴", "╰─╮", "╶─╯"},
	'6': {"╭─╴", "├─╮", "╰─╯"},
	'7': {"╶─╮", "  │", "  ╵"},
	'8': {"╭─╮", "├─┤", "╰─╯"},
	'9': {"╭─╮", "╰─┤", "╶─╯"},
	':': {" ", "∙", "∙"},
}

// minBigTimeWidth is the narrowest terminal that gets the large clock.
const minBigTimeWidth = 30

// renderBigTime draws an MM:SS string with the box font. Narrow terminals
// and characters without a glyph fall back to a single bold line.
func renderBigTime(clock string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < minBigTimeWidth {
		return style.Render(clock)
	}

	var rows [3]strings.Builder
	for i, ch := range clock {
		glyph, ok := glyphs[ch]
		if !ok {
			return style.Render(clock)
		}
		for r := range rows {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(glyph[r])
		}
	}

	lines := make([]string, len(rows))
	for r := range rows {
		lines[r] = style.Render(rows[r].String())
	}
	return strings.Join(lines, "\n")
}
