package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/theme"

	"github.com/mattsolo1/content7z/internal/session"
)

// --- Messages ---

// AnsweredMsg is sent when the user answers the open dialog.
type AnsweredMsg struct {
	Outcome session.Outcome
}

// --- Model ---

// Model renders a session dialog and turns key presses into outcomes.
type Model struct {
	Active bool
	Dialog session.Dialog

	// BorderColor overrides the theme color of confirmation dialogs.
	BorderColor lipgloss.TerminalColor
	keys        keyMap
}

// New creates a new dialog model.
func New() Model {
	return Model{
		keys: defaultKeyMap,
	}
}

// Activate shows d.
func (m *Model) Activate(d session.Dialog) {
	m.Dialog = d
	m.Active = true
}

// Deactivate hides the dialog without answering it.
func (m *Model) Deactivate() {
	m.Active = false
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Active {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	outcome, ok := m.Answer(keyMsg)
	if !ok {
		return m, nil
	}
	m.Active = false
	return m, func() tea.Msg { return AnsweredMsg{Outcome: outcome} }
}

// Answer maps a key press to an outcome. ok is false for keys the dialog
// ignores.
func (m Model) Answer(msg tea.KeyMsg) (outcome session.Outcome, ok bool) {
	if m.Dialog.Kind != session.DialogConfirm {
		return session.Undecided(), true
	}

	switch {
	case key.Matches(msg, m.keys.Yes):
		return session.Confirmed(true), true
	case key.Matches(msg, m.keys.Accept):
		if m.Dialog.DefaultYes {
			return session.Confirmed(false), true
		}
		return session.Undecided(), true
	case key.Matches(msg, m.keys.No):
		return session.Denied(), true
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		for _, c := range m.Dialog.Choices {
			if c == r {
				return session.KeyPress(r), true
			}
		}
	}
	return session.Outcome{}, false
}

// --- View ---

func (m Model) View() string {
	if !m.Active {
		return ""
	}

	color := m.BorderColor
	if color == nil {
		color = theme.DefaultTheme.Colors.Orange
	}
	if m.Dialog.Kind == session.DialogError {
		color = theme.DefaultTheme.Colors.Red
	}

	var body strings.Builder
	if m.Dialog.Title != "" {
		body.WriteString(lipgloss.NewStyle().Bold(true).Foreground(color).Render(m.Dialog.Title))
		body.WriteString("\n\n")
	}
	body.WriteString(m.Dialog.Text)

	dialogBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Render(body.String())

	help := m.Dialog.Help
	if help == "" {
		help = m.defaultHelp()
	}
	helpText := lipgloss.NewStyle().
		Faint(true).
		Width(lipgloss.Width(dialogBox)).
		Align(lipgloss.Center).
		Render(help)

	return lipgloss.JoinVertical(lipgloss.Left, dialogBox, helpText)
}

func (m Model) defaultHelp() string {
	switch {
	case m.Dialog.Kind != session.DialogConfirm:
		return "press any key"
	case m.Dialog.DefaultYes:
		return "(Y/n)"
	default:
		return "(y/N)"
	}
}

// --- KeyMap ---

type keyMap struct {
	Yes    key.Binding
	Accept key.Binding
	No     key.Binding
}

var defaultKeyMap = keyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "default"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "no"),
	),
}
