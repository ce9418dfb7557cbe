package session

import "github.com/mattsolo1/content7z/pkg/tree"

// MoveUp moves the selection one row up, scrolling once the cursor sits on
// the first visible row.
func (s *Session) MoveUp() {
	if s.dialog != nil {
		return
	}
	if s.cursor.Y > ContentTop {
		s.cursor.Y--
		s.Mark(RegionCursor)
	} else if s.scrollY > 0 {
		s.scrollY--
		s.Mark(RegionList)
	}
}

// MoveDown moves the selection one row down, scrolling once the cursor sits
// on the last visible row. The selection never passes the last entry.
func (s *Session) MoveDown() {
	if s.dialog != nil {
		return
	}
	if s.SelectedIndex()+1 >= s.Current().Len() {
		return
	}
	if s.cursor.Y < s.Bottom() {
		s.cursor.Y++
		s.Mark(RegionCursor)
	} else {
		s.scrollY++
		s.Mark(RegionList)
	}
}

// MoveLeft moves the cursor one column left.
func (s *Session) MoveLeft() {
	if s.dialog != nil {
		return
	}
	if s.cursor.X > LeftEdge {
		s.cursor.X--
		s.Mark(RegionCursor)
	}
}

// MoveRight moves the cursor one column right.
func (s *Session) MoveRight() {
	if s.dialog != nil {
		return
	}
	if s.cursor.X < s.rightEdge() {
		s.cursor.X++
		s.Mark(RegionCursor)
	}
}

// PageUp moves the selection up by one screen.
func (s *Session) PageUp() {
	for i := 0; i < s.VisibleRows(); i++ {
		s.MoveUp()
	}
}

// PageDown moves the selection down by one screen.
func (s *Session) PageDown() {
	for i := 0; i < s.VisibleRows(); i++ {
		s.MoveDown()
	}
}

// Top selects the first entry.
func (s *Session) Top() {
	if s.dialog != nil {
		return
	}
	s.cursor.Y = ContentTop
	s.scrollY = 0
	s.Mark(RegionList | RegionCursor)
}

// Last selects the last entry.
func (s *Session) Last() {
	if s.dialog != nil {
		return
	}
	n := s.Current().Len()
	if n == 0 {
		return
	}
	if n <= s.VisibleRows() {
		s.scrollY = 0
		s.cursor.Y = ContentTop + n - 1
	} else {
		s.scrollY = n - s.VisibleRows()
		s.cursor.Y = s.Bottom()
	}
	s.Mark(RegionList | RegionCursor)
}

// Descend pushes the subfolder name of the current folder. It returns false
// when there is no such folder.
func (s *Session) Descend(name string) bool {
	if s.dialog != nil {
		return false
	}
	sub := s.Current().Sub(name)
	if sub == nil {
		return false
	}

	top := &s.stack[len(s.stack)-1]
	top.cursorY, top.scrollY = s.cursor.Y, s.scrollY

	s.stack = append(s.stack, frame{folder: sub.Clone()})
	s.scrollX, s.scrollY = 0, 0
	s.Mark(RegionHeader | RegionList | RegionCursor)
	s.clamp()
	return true
}

// Enter descends into the selected entry when it is a folder. It returns the
// selected entry so callers can act on files.
func (s *Session) Enter() (tree.Entry, bool) {
	e, ok := s.Selected()
	if !ok || s.dialog != nil {
		return tree.Entry{}, false
	}
	if e.IsFolder() {
		s.Descend(e.Name)
	}
	return e, true
}

// Ascend pops the current folder and restores the selection the user had in
// the parent. It is a no-op at the root.
func (s *Session) Ascend() bool {
	if s.dialog != nil || len(s.stack) <= 1 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	top := s.stack[len(s.stack)-1]
	s.cursor.Y, s.scrollY = top.cursorY, top.scrollY
	s.scrollX = 0
	s.Mark(RegionHeader | RegionList | RegionCursor)
	s.clamp()
	return true
}

// Resize records a new screen size and keeps the cursor on screen.
func (s *Session) Resize(width, height int) {
	s.width, s.height = width, height
	s.Mark(RegionAll)
	s.clamp()
}

func (s *Session) rightEdge() int {
	if r := s.width - 2; r > LeftEdge {
		return r
	}
	return LeftEdge
}

// clamp keeps the cursor inside the screen and the selection inside the
// current folder.
func (s *Session) clamp() {
	before, beforeScroll := s.cursor, s.scrollY

	if s.cursor.X < LeftEdge {
		s.cursor.X = LeftEdge
	}
	if s.cursor.X > s.rightEdge() {
		s.cursor.X = s.rightEdge()
	}
	if s.cursor.Y < ContentTop {
		s.cursor.Y = ContentTop
	}
	if s.cursor.Y > s.Bottom() {
		s.scrollY += s.cursor.Y - s.Bottom()
		s.cursor.Y = s.Bottom()
	}

	n := s.Current().Len()
	if n == 0 {
		s.cursor.Y, s.scrollY = ContentTop, 0
	} else {
		if s.scrollY > n-1 {
			s.scrollY = n - s.VisibleRows()
			if s.scrollY < 0 {
				s.scrollY = 0
			}
		}
		if s.SelectedIndex() > n-1 {
			s.cursor.Y = ContentTop + n - 1 - s.scrollY
		}
	}

	if s.cursor != before {
		s.Mark(RegionCursor)
	}
	if s.scrollY != beforeScroll {
		s.Mark(RegionList)
	}
}
