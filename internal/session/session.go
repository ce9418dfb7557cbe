// Package session holds the interactive state of one browsing session: the
// navigation stack over the archive tree, cursor and scroll position, the
// regions waiting to be redrawn and the single pending dialog.
//
// A Session is owned by one goroutine. It never draws; renderers read its
// accessors and consume its redraw regions with Flush.
package session

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/content7z/pkg/tree"
)

// Screen layout. Rows 0-2 hold the path header and row 3 is blank. Entries
// are drawn from ContentTop down to height-2; the last row is the status
// line. Columns 0 and width-1 are margins.
const (
	ContentTop = 4
	LeftEdge   = 1

	DefaultWidth  = 80
	DefaultHeight = 24
)

// Region is a set of screen areas that must be redrawn.
type Region uint8

const (
	RegionHeader Region = 1 << iota // current path changed
	RegionList                      // visible entries or scroll changed
	RegionCursor                    // cursor moved
	RegionDialog                    // dialog opened or closed

	RegionNone Region = 0
	RegionAll         = RegionHeader | RegionList | RegionCursor | RegionDialog
)

// Has reports whether every area in o is part of r.
func (r Region) Has(o Region) bool {
	return r&o == o
}

// State is the mode the session is in.
type State int

const (
	Browsing State = iota
	DialogOpen
)

func (s State) String() string {
	if s == DialogOpen {
		return "dialog"
	}
	return "browsing"
}

// Cursor is the screen position of the selection indicator.
type Cursor struct {
	X, Y int
}

// frame is one level of the navigation stack. cursorY and scrollY remember
// where the user was in this folder when descending from it.
type frame struct {
	folder  *tree.Folder
	cursorY int
	scrollY int
}

// EditRequest asks the UI to hand the terminal to an editor.
type EditRequest struct {
	Editor string
	Path   string
}

// Session is the navigation and dialog state machine.
type Session struct {
	width  int
	height int

	stack   []frame
	cursor  Cursor
	scrollX int
	scrollY int
	pending Region

	dialog  *Dialog
	handler Handler

	edit   *EditRequest
	status string

	logger *logrus.Entry
}

// New creates a session positioned at the top of root. The tree is cloned;
// later changes to root are not seen by the session.
func New(root *tree.Folder, logger *logrus.Entry) *Session {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Session{
		width:   DefaultWidth,
		height:  DefaultHeight,
		stack:   []frame{{folder: root.Clone()}},
		cursor:  Cursor{X: LeftEdge, Y: ContentTop},
		pending: RegionAll,
		logger:  logger.WithField("component", "session"),
	}
}

// State reports whether a dialog is open.
func (s *Session) State() State {
	if s.dialog != nil {
		return DialogOpen
	}
	return Browsing
}

// Width returns the screen width.
func (s *Session) Width() int { return s.width }

// Height returns the screen height.
func (s *Session) Height() int { return s.height }

// Cursor returns the cursor position.
func (s *Session) Cursor() Cursor { return s.cursor }

// ScrollX returns the horizontal scroll offset.
func (s *Session) ScrollX() int { return s.scrollX }

// ScrollY returns the index of the first visible entry.
func (s *Session) ScrollY() int { return s.scrollY }

// Bottom returns the last screen row entries are drawn on.
func (s *Session) Bottom() int {
	if b := s.height - 2; b > ContentTop {
		return b
	}
	return ContentTop
}

// VisibleRows returns how many entries fit on screen.
func (s *Session) VisibleRows() int {
	return s.Bottom() - ContentTop + 1
}

// Current returns the folder being shown.
func (s *Session) Current() *tree.Folder {
	return s.stack[len(s.stack)-1].folder
}

// Depth returns the navigation stack length; 1 at the root.
func (s *Session) Depth() int {
	return len(s.stack)
}

// Stack returns the names of the folders on the navigation stack, root first.
func (s *Session) Stack() []string {
	out := make([]string, len(s.stack))
	for i, f := range s.stack {
		out[i] = f.folder.Name
	}
	return out
}

// CurrentPath returns the current folder as "/a/b", or "" at the root.
func (s *Session) CurrentPath() string {
	var b strings.Builder
	for _, f := range s.stack[1:] {
		b.WriteString("/")
		b.WriteString(f.folder.Name)
	}
	return b.String()
}

// SelectedIndex returns the index of the selected entry in the current folder.
// The result is only meaningful when the folder is not empty.
func (s *Session) SelectedIndex() int {
	return s.scrollY + s.cursor.Y - ContentTop
}

// Selected returns the selected entry.
func (s *Session) Selected() (tree.Entry, bool) {
	cur := s.Current()
	i := s.SelectedIndex()
	if i < 0 || i >= cur.Len() {
		return tree.Entry{}, false
	}
	return cur.At(i), true
}

// SelectedPath returns the archive relative path of the selected entry.
func (s *Session) SelectedPath() (string, bool) {
	e, ok := s.Selected()
	if !ok {
		return "", false
	}
	return s.RelativePath(e.Name), true
}

// RelativePath joins name onto the current folder, without a leading slash.
func (s *Session) RelativePath(name string) string {
	parts := make([]string, 0, len(s.stack))
	for _, f := range s.stack[1:] {
		parts = append(parts, f.folder.Name)
	}
	return strings.Join(append(parts, name), "/")
}

// Mark adds r to the regions awaiting redraw.
func (s *Session) Mark(r Region) {
	s.pending |= r
}

// Pending returns the regions awaiting redraw without consuming them.
func (s *Session) Pending() Region {
	return s.pending
}

// Flush re-clamps the cursor and returns the regions awaiting redraw,
// clearing them. Renderers call it once per frame.
func (s *Session) Flush() Region {
	s.clamp()
	r := s.pending
	s.pending = RegionNone
	return r
}

// Status returns the one-line status message.
func (s *Session) Status() string {
	return s.status
}

// SetStatus replaces the status message.
func (s *Session) SetStatus(msg string) {
	s.status = msg
	s.Mark(RegionList)
}

// RequestEdit queues a request to open a file in an editor.
func (s *Session) RequestEdit(r EditRequest) {
	s.edit = &r
}

// TakeEditRequest returns and clears the queued edit request.
func (s *Session) TakeEditRequest() (EditRequest, bool) {
	if s.edit == nil {
		return EditRequest{}, false
	}
	r := *s.edit
	s.edit = nil
	return r, true
}

// EditorFinished records that the editor returned. The whole screen is
// redrawn whatever the editor's exit status.
func (s *Session) EditorFinished(err error) {
	if err != nil {
		s.logger.WithError(err).Warn("Editor exited with an error")
	}
	s.Mark(RegionAll)
}
