package tui

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/screencoord/internal/item"
	"github.com/Iron-Ham/screencoord/internal/util"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	count := item.Count(m.tree.Items())
	b.WriteString(m.theme.Title.Render("Screen Coordinates"))
	b.WriteString("  ")
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("%d items · %s", count, m.tree.Backend())))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.theme.Subtitle.Render("No captures yet. Press c to start capturing."))
		b.WriteString("\n")
	} else {
		end := min(len(m.rows), m.offset+m.listHeight())
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRow(r row, selected bool) string {
	it := r.item

	mark := "  "
	if m.marked[it.ID] {
		mark = "● "
	}
	twisty := " "
	if it.IsFolder() {
		twisty = "▸"
		if it.Expanded {
			twisty = "▾"
		}
	}
	lead := mark + strings.Repeat("  ", r.depth) + twisty + " "

	avail := 1 << 16
	if m.width > 0 {
		avail = m.width - util.Width(lead)
	}
	label := util.TruncateWidth(it.Label(), avail)
	detail := ""
	if rest := avail - util.Width(label) - 2; rest > 0 {
		detail = util.TruncateWidth(it.Detail(), rest)
	}

	if selected {
		line := lead + label
		if detail != "" {
			line += "  " + detail
		}
		return m.theme.Selected.Render(line)
	}

	labelStyle := m.theme.Coordinate
	switch it.Kind {
	case item.KindFolder:
		labelStyle = m.theme.Folder
	case item.KindMeasurement:
		labelStyle = m.theme.Measurement
	}
	line := m.theme.Marked.Render(lead) + labelStyle.Render(label)
	if detail != "" {
		line += "  " + m.theme.Detail.Render(detail)
	}
	return line
}

func (m *Model) footer() string {
	switch m.prompt {
	case promptRename:
		return m.theme.Prompt.Render("Rename: ") + m.input.View()
	case promptFolder:
		return m.theme.Prompt.Render("New folder: ") + m.input.View()
	case promptGroup:
		return m.theme.Prompt.Render(fmt.Sprintf("Group %d item(s) into: ", len(m.pending))) + m.input.View()
	case promptExport:
		return m.theme.Prompt.Render("Export to: ") + m.input.View()
	case promptClear:
		return m.theme.Error.Render(fmt.Sprintf("Delete all %d items? (y/n)", item.Count(m.tree.Items())))
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.theme.Error.Render(m.status)
	}
	return m.theme.Status.Render(m.status)
}
