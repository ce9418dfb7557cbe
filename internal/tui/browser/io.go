package browser

import (
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/content7z/internal/session"
)

// editorCommand builds the editor process for req. The editor setting may
// carry arguments, as in "code -w".
func editorCommand(req session.EditRequest) *exec.Cmd {
	fields := strings.Fields(req.Editor)
	args := append(fields[1:], req.Path)
	return exec.Command(fields[0], args...)
}

// openInEditor runs the editor on the terminal and reports back when it exits.
func openInEditor(req session.EditRequest) tea.Cmd {
	return tea.ExecProcess(editorCommand(req), func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}
