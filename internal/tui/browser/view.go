package browser

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/theme"

	"github.com/mattsolo1/content7z/internal/session"
	"github.com/mattsolo1/content7z/pkg/tree"
)

func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}

	if m.dialog.Active {
		return lipgloss.Place(m.session.Width(), m.session.Height(),
			lipgloss.Center, lipgloss.Center, m.dialog.View(),
			lipgloss.WithWhitespaceBackground(m.scheme.Background))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header,
		"",
		m.list,
		m.footer(),
	)
}

// renderHeader draws the boxed title: the archive and the current folder.
func (m Model) renderHeader() string {
	inner := m.session.Width() - 2
	if inner < 10 {
		inner = 10
	}

	path := m.session.CurrentPath()
	if path == "" {
		path = "/"
	}
	title := truncateLeft(shortenPath(m.archive)+": "+path, inner)

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.scheme.Border).
		Width(inner).
		Render(theme.DefaultTheme.Header.Render(title))
}

// renderList draws the visible slice of the current folder, one row per
// screen line between the header and the footer.
func (m Model) renderList() string {
	s := m.session
	cur := s.Current()
	rows := s.VisibleRows()
	lines := make([]string, 0, rows)

	for i := 0; i < rows; i++ {
		idx := s.ScrollY() + i
		switch {
		case idx < cur.Len():
			selected := s.Cursor().Y == session.ContentTop+i
			lines = append(lines, m.renderRow(cur.At(idx), selected))
		case idx == 0:
			lines = append(lines, theme.DefaultTheme.Muted.Render("  (empty folder)"))
		default:
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(e tree.Entry, selected bool) string {
	width := m.session.Width() - 1
	bullet, name, marker := m.scheme.FileBullet, e.Name, ""
	if e.IsFolder() {
		bullet, name = m.scheme.FolderBullet, e.Name+"/"
	} else if m.workflow.IsCached(m.session.RelativePath(e.Name)) {
		marker = " *"
	}
	name = truncateRight(name, width-len([]rune(bullet))-len(marker)-2)

	if !selected {
		flag := lipgloss.NewStyle().Foreground(m.scheme.Flag)
		text := lipgloss.NewStyle().Foreground(m.scheme.Text)
		return " " + flag.Render(bullet) + " " + text.Render(name) + flag.Render(marker)
	}

	// The selected row is highlighted across the screen with a block cursor
	// at the session's cursor column.
	row := []rune(" " + bullet + " " + name + marker)
	for len(row) < width {
		row = append(row, ' ')
	}
	x := m.session.Cursor().X
	if x >= len(row) {
		x = len(row) - 1
	}
	sel := theme.DefaultTheme.Selected
	block := lipgloss.NewStyle().Reverse(true)
	return sel.Render(string(row[:x])) + block.Render(string(row[x])) + sel.Render(string(row[x+1:]))
}

func (m Model) footer() string {
	if status := m.session.Status(); status != "" {
		return theme.DefaultTheme.Info.Render(truncateRight(status, m.session.Width()-1))
	}
	return m.help.View()
}
