package browser

import (
	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-core/tui/components/help"

	"github.com/mattsolo1/content7z/internal/session"
	"github.com/mattsolo1/content7z/internal/tui/browser/components/dialog"
	"github.com/mattsolo1/content7z/internal/workflow"
	"github.com/mattsolo1/content7z/pkg/models"
)

// Scheme holds the colors and glyphs the browser draws with.
type Scheme struct {
	Background   lipgloss.Color
	Border       lipgloss.Color
	Text         lipgloss.Color
	Flag         lipgloss.Color
	FileBullet   string
	FolderBullet string
}

// NewScheme builds a Scheme from the user configuration.
func NewScheme(cfg *models.Config) Scheme {
	s := Scheme{
		Background:   lipgloss.Color(models.Hex(models.DefaultBackgroundColor)),
		Border:       lipgloss.Color(models.Hex(models.DefaultBorderColor)),
		Text:         lipgloss.Color(models.Hex(models.DefaultTextColor)),
		Flag:         lipgloss.Color(models.Hex(models.DefaultFlagColor)),
		FileBullet:   models.DefaultFileBullet,
		FolderBullet: models.DefaultFolderBullet,
	}
	if cfg == nil {
		return s
	}
	if len(cfg.BackgroundColor) == 3 {
		s.Background = lipgloss.Color(models.Hex(cfg.BackgroundColor))
	}
	if len(cfg.BorderColor) == 3 {
		s.Border = lipgloss.Color(models.Hex(cfg.BorderColor))
	}
	if len(cfg.TextColor) == 3 {
		s.Text = lipgloss.Color(models.Hex(cfg.TextColor))
	}
	if len(cfg.FlagColor) == 3 {
		s.Flag = lipgloss.Color(models.Hex(cfg.FlagColor))
	}
	if cfg.FileBullet != "" {
		s.FileBullet = cfg.FileBullet
	}
	if cfg.FolderBullet != "" {
		s.FolderBullet = cfg.FolderBullet
	}
	return s
}

// Model is the bubbletea model of the archive browser. Navigation and dialog
// state live in the session; the model only renders it and feeds it keys.
type Model struct {
	session  *session.Session
	workflow *workflow.Workflow
	archive  string
	scheme   Scheme
	keys     KeyMap
	help     help.Model
	dialog   dialog.Model

	// Rendered regions, refreshed from the session's pending redraw set.
	header string
	list   string
}

// New creates the browser for archive.
func New(s *session.Session, w *workflow.Workflow, archive string, scheme Scheme) Model {
	keys := newKeyMap()
	helpModel := help.NewBuilder().
		WithKeys(keys).
		WithTitle("Archive Browser - Help").
		Build()

	d := dialog.New()
	d.BorderColor = scheme.Border

	m := Model{
		session:  s,
		workflow: w,
		archive:  archive,
		scheme:   scheme,
		keys:     keys,
		help:     helpModel,
		dialog:   d,
	}
	m.refresh(s.Flush())
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// editorFinishedMsg is sent when the editor closes
type editorFinishedMsg struct{ err error }
