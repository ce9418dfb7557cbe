package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/content7z/internal/session"
	"github.com/mattsolo1/content7z/internal/tui/browser/components/dialog"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.session.Resize(msg.Width, msg.Height)
		m.help.SetSize(msg.Width, msg.Height)

	case editorFinishedMsg:
		m.session.EditorFinished(msg.err)

	case dialog.AnsweredMsg:
		m.session.Resolve(msg.Outcome)

	case tea.KeyMsg:
		if m.help.ShowAll {
			m.help.Toggle()
			return m, nil
		}

		if m.dialog.Active {
			m.dialog, cmd = m.dialog.Update(msg)
			break
		}

		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
	}

	m.refresh(m.session.Flush())
	if req, ok := m.session.TakeEditRequest(); ok {
		return m, tea.Batch(cmd, openInEditor(req))
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	s := m.session
	// The dialog component deactivates itself on an answer; keys are ignored
	// until the answer has been resolved.
	if s.State() != session.Browsing {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
	case key.Matches(msg, m.keys.Up):
		s.MoveUp()
	case key.Matches(msg, m.keys.Down):
		s.MoveDown()
	case key.Matches(msg, m.keys.Left):
		s.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		s.MoveRight()
	case key.Matches(msg, m.keys.PageUp):
		s.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		s.PageDown()
	case key.Matches(msg, m.keys.GoToTop):
		s.Top()
	case key.Matches(msg, m.keys.GoToBottom):
		s.Last()
	case key.Matches(msg, m.keys.Ascend):
		s.Ascend()
	case key.Matches(msg, m.keys.Confirm):
		m.open()
	case key.Matches(msg, m.keys.ShowPath):
		m.showPath()
	case key.Matches(msg, m.keys.Remove):
		if e, ok := s.Selected(); ok && !e.IsFolder() {
			m.workflow.RemoveCached(s, s.RelativePath(e.Name))
		}
	case key.Matches(msg, m.keys.History):
		m.workflow.ShowHistory(s)
	}
}

// open descends into a selected folder or starts extract-and-edit on a file.
func (m *Model) open() {
	e, ok := m.session.Enter()
	if !ok || e.IsFolder() {
		return
	}
	m.workflow.Open(m.session, m.session.RelativePath(e.Name))
}

func (m *Model) showPath() {
	p, ok := m.session.SelectedPath()
	if !ok {
		return
	}
	text := "/" + p
	if m.workflow.IsCached(p) {
		text = fmt.Sprintf("%s\n\nextracted to %s", text, m.workflow.CachePath(p))
		if e, ok := m.workflow.LastExtraction(p); ok {
			text += "\nextracted at " + e.ExtractedAt.Format("15:04:05")
		}
	}
	m.session.ShowMessage(shortenPath(m.archive), text)
}

// refresh re-renders the regions in r.
func (m *Model) refresh(r session.Region) {
	if r.Has(session.RegionHeader) {
		m.header = m.renderHeader()
	}
	if r.Has(session.RegionList) || r.Has(session.RegionCursor) || r.Has(session.RegionHeader) {
		m.list = m.renderList()
	}
	if r.Has(session.RegionDialog) {
		if d, ok := m.session.Dialog(); ok {
			m.dialog.Activate(d)
		} else {
			m.dialog.Deactivate()
		}
	}
}
