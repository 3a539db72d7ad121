package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	detailStyle   = lipgloss.NewStyle().PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true)
)

const helpLine = "j/k move · l select · b back · h home · s search · r refresh · +/- quality · q quit"

func (m *Model) View() string {
	if m.chat != nil {
		return m.chat.View()
	}

	header := titleStyle.Render(m.page.Title())
	if len(m.cfg.Player.Prefs) > 0 {
		header += helpStyle.Render("  [" + m.cfg.Player.Prefs[0] + "]")
	}
	if m.loading {
		header += "  " + m.spin.View()
	}

	var body string
	switch {
	case m.searching:
		body = "\n" + m.input.View() + "\n"
	case len(m.rows) == 0 && !m.loading:
		body = "\nnothing here\n"
	default:
		body = m.splitView()
	}

	footer := helpStyle.Render(helpLine)
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}

	return header + "\n" + body + "\n" + footer
}

// splitView is the main layout: the listing on the left, the selected
// row's detail lines on the right.
func (m *Model) splitView() string {
	visible := m.visibleRows()
	listWidth := m.width / 2
	if listWidth < 20 {
		listWidth = 20
	}

	var list strings.Builder
	for _, i := range visible {
		row := m.rows[i]
		label := truncate(row.Label, listWidth-2)

		switch {
		case i == m.page.Selection:
			label = selectedStyle.Render(label)
		case row.Header:
			label = headerStyle.Render(label)
		case row.Color != "":
			label = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#" + row.Color)).
				Render(label)
		}
		if row.Header {
			list.WriteString("\n")
		} else {
			list.WriteString("  ")
		}
		list.WriteString(label)
		list.WriteString("\n")
	}

	detail := ""
	if m.page.Selection < len(m.rows) {
		detail = detailStyle.Render(strings.Join(m.rows[m.page.Selection].Detail, "\n"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list.String()),
		detail,
	)
}

// visibleRows windows the listing around the selection so it fits the
// terminal height.
func (m *Model) visibleRows() []int {
	max := m.height - 4
	if max < 1 {
		max = 10
	}
	if len(m.rows) <= max {
		all := make([]int, len(m.rows))
		for i := range all {
			all[i] = i
		}
		return all
	}

	start := m.page.Selection - max/2
	if start < 0 {
		start = 0
	}
	if start+max > len(m.rows) {
		start = len(m.rows) - max
	}
	out := make([]int, max)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// truncate shortens a label to width runes. Byte slicing would split
// multi-byte characters, common in stream titles.
func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
