package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/awremap/internal/remap"
)

// linesPerItem is the number of terminal lines each change occupies.
const linesPerItem = 2

// renderList renders the left panel: filtered changes with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		text := "No changes"
		if m.query != "" {
			text = "No matches"
		}
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(text)
	}

	var lines []string
	for i, idx := range m.visible {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatChangeLine(m.changes[idx], width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatChangeLine formats a single change as two lines:
//
//	line 1: [>] L12   class remapped
//	line 2:    remapped text (dimmed)
func formatChangeLine(c remap.Change, width int, selected bool) []string {
	outcome := c.Outcome.String()
	switch c.Outcome {
	case remap.Remapped, remap.Constructor:
		outcome = styleOutcomeRemapped.Render(outcome)
	case remap.Missed:
		outcome = styleOutcomeMissed.Render(outcome)
	}

	line1 := fmt.Sprintf("%s %s %s", styleLineNum.Render(fmt.Sprintf("L%d", c.Line)), c.Kind, outcome)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	text := strings.Join(strings.Fields(c.After), " ")
	textMax := width - 4 // indent
	if textMax < 0 {
		textMax = 0
	}
	if runewidth.StringWidth(text) > textMax {
		text = runewidth.Truncate(text, textMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(text)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
