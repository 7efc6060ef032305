package pickers

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var (
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	pickedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Bold(true)
	helperStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	recordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	viewportStyle = lipgloss.NewStyle().Padding(0, 1)
)

// fit truncates every line to width and pads or cuts the block to height.
func fit(body string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = truncate.StringWithTail(line, uint(width), "…")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
