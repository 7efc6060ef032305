package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/attachpanel/internal/panel"
	"github.com/csheth/attachpanel/internal/pickers"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	taglineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Italic(true)
	badgeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	helperStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	attachmentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	gridItemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	gridCursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	panelBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#56526e"))
)

func (m *model) View() string {
	height := m.surface.height
	m.history.Height = m.layout.historyRows(height)
	parts := []string{m.headerView(), m.history.View()}
	if height > 0 {
		parts = append(parts, m.panelView(height))
	}
	if m.prompted {
		parts = append(parts, m.prompt.View())
	}
	parts = append(parts, m.statusView(), m.help.View(keys))
	return joinNonEmpty(parts)
}

func (m *model) headerView() string {
	badge := fmt.Sprintf("%s · %s", m.panel.Orientation(), m.panel.State())
	if m.panel.Animating() {
		badge += " · animating"
	}
	if m.surface.keypad {
		badge += " · keypad"
	}
	title := titleStyle.Render("attach panel") + " " + badgeStyle.Render(badge)
	if m.iconified {
		return title + " " + helperStyle.Render("(background)")
	}
	return title + " " + taglineStyle.Render(heroTagline)
}

func (m *model) refreshHistory() {
	if len(m.attachments) == 0 {
		m.history.SetContent(helperStyle.Render("Attachments will appear here."))
		return
	}
	var b strings.Builder
	wrap := max(m.history.Width-4, 10)
	for i, a := range m.attachments {
		if i > 0 {
			b.WriteRune('\n')
		}
		line := fmt.Sprintf("%s  %s", a.Category, strings.Join(a.Selected, ", "))
		if len(a.Selected) == 0 {
			line = fmt.Sprintf("%s  (no items)", a.Category)
		}
		b.WriteString(attachmentStyle.Render("▸ "))
		b.WriteString(indentMultiline(wordwrap.String(line, wrap), "  ", true))
	}
	m.history.SetContent(b.String())
	m.history.GotoBottom()
}

func (m *model) panelView(height int) string {
	width := m.surface.columns()
	lines := []string{panelBorderStyle.Render(strings.Repeat("─", width))}
	if m.panel.ToolbarVisible() {
		lines = append(lines, m.tabStrip(width))
	}
	rows := max(height-len(lines), 0)
	if rows > 0 {
		lines = append(lines, m.pageView(width, rows))
	}
	return clip(strings.Join(lines, "\n"), width, height)
}

func (m *model) tabStrip(width int) string {
	pages := m.panel.Pages()
	if len(pages) == 0 {
		return helperStyle.Render("No categories. Use :add <category>.")
	}
	tabs := make([]string, 0, len(pages))
	for i, pg := range pages {
		label := fmt.Sprintf("%d %s", i+1, pg.Label)
		if i == m.panel.CurrentPage() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return truncate.StringWithTail(strings.Join(tabs, ""), uint(width), "…")
}

func (m *model) pageView(width, rows int) string {
	if m.onGridPage() {
		return m.gridView(width, rows)
	}
	v, _, ok := m.panel.View()
	if !ok {
		return helperStyle.Render("Loading…")
	}
	pv, ok := v.(pickers.View)
	if !ok {
		return ""
	}
	body := pv.Render(width, max(rows-1, 1))
	return body + "\n" + helperStyle.Render(pv.Hint())
}

// gridView lists the app categories in rank order. The list only scrolls
// when the panel is full.
func (m *model) gridView(width, rows int) string {
	items := m.panel.GridItems()
	if len(items) == 0 {
		return helperStyle.Render("No applications.")
	}
	m.gridCursor = min(m.gridCursor, len(items)-1)
	start := 0
	if m.panel.GridScrollable() && m.gridCursor >= rows {
		start = m.gridCursor - rows + 1
	}
	var out []string
	for i := start; i < len(items) && len(out) < rows; i++ {
		out = append(out, gridRow(items[i], i == m.gridCursor))
	}
	return clip(strings.Join(out, "\n"), width, rows)
}

func gridRow(item panel.SlotInfo, current bool) string {
	label := fmt.Sprintf("◆ %-10s %s", item.Descriptor.TabLabel, helperStyle.Render(item.Descriptor.LaunchTarget))
	if current {
		return gridCursorStyle.Render(label)
	}
	return gridItemStyle.Render(label)
}

func (m *model) statusView() string {
	parts := []string{}
	message := m.infoMessage
	if m.runningJobs > 0 || m.bridge.running() > 0 {
		message = fmt.Sprintf("%s %s", m.spinner.View(), message)
	}
	if message != "" {
		parts = append(parts, helperStyle.Render(message))
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	return strings.Join(parts, "  ")
}

// clip cuts a block to width columns and height lines.
func clip(block string, width, height int) string {
	lines := strings.Split(block, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = truncate.String(line, uint(max(width, 0)))
	}
	return strings.Join(lines, "\n")
}

func indentMultiline(text, prefix string, skipFirst bool) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 && skipFirst {
			continue
		}
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}
