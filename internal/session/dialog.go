package session

import (
	"fmt"
)

// DialogKind selects how a dialog is presented and answered.
type DialogKind int

const (
	// DialogConfirm asks a yes/no question, optionally with extra choice keys.
	DialogConfirm DialogKind = iota
	// DialogMessage shows information; any key closes it.
	DialogMessage
	// DialogError shows a failure; any key closes it.
	DialogError
)

// Dialog describes the question or message shown while a handler is pending.
type Dialog struct {
	Kind  DialogKind
	Title string
	Text  string
	// Help is shown under the text, e.g. "(y/n)".
	Help string
	// Choices are extra keys answered with KeyPress.
	Choices []rune
	// DefaultYes makes enter confirm instead of leaving the answer undecided.
	DefaultYes bool
}

// OutcomeKind is the closed set of dialog answers.
type OutcomeKind int

const (
	OutcomeUndecided OutcomeKind = iota
	OutcomeConfirmed
	OutcomeDenied
	OutcomeKeyPress
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeDenied:
		return "denied"
	case OutcomeKeyPress:
		return "keypress"
	default:
		return "undecided"
	}
}

// Outcome is the answer a handler is resolved with.
type Outcome struct {
	Kind OutcomeKind
	// Direct is set on a confirmation given with the explicit yes key rather
	// than by accepting the default.
	Direct bool
	// Key is the pressed key of an OutcomeKeyPress.
	Key rune
}

// Confirmed is a positive answer.
func Confirmed(direct bool) Outcome {
	return Outcome{Kind: OutcomeConfirmed, Direct: direct}
}

// Denied is a negative answer.
func Denied() Outcome {
	return Outcome{Kind: OutcomeDenied}
}

// KeyPress is an answer given with one of a dialog's extra choice keys.
func KeyPress(r rune) Outcome {
	return Outcome{Kind: OutcomeKeyPress, Key: r}
}

// Undecided is the answer of a dialog closed without a choice.
func Undecided() Outcome {
	return Outcome{}
}

// IsConfirmed reports whether o is a positive answer.
func (o Outcome) IsConfirmed() bool {
	return o.Kind == OutcomeConfirmed
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeConfirmed:
		return fmt.Sprintf("confirmed(direct=%t)", o.Direct)
	case OutcomeKeyPress:
		return fmt.Sprintf("keypress(%q)", o.Key)
	default:
		return o.Kind.String()
	}
}

// Handler is a deferred action run with the answer to a dialog.
type Handler interface {
	Execute(s *Session, o Outcome)
}

// HandlerFunc is the callback of a handler built with NewHandler. It gets the
// data captured when the question was asked.
type HandlerFunc[T any] func(s *Session, o Outcome, data T)

type handler[T any] struct {
	fn    HandlerFunc[T]
	data  T
	fired bool
}

// NewHandler binds fn to data. The returned handler runs fn at most once;
// later calls to Execute do nothing.
func NewHandler[T any](fn HandlerFunc[T], data T) Handler {
	return &handler[T]{fn: fn, data: data}
}

func (h *handler[T]) Execute(s *Session, o Outcome) {
	if h.fired {
		return
	}
	h.fired = true
	h.fn(s, o, h.data)
}

// Dialog returns the open dialog.
func (s *Session) Dialog() (Dialog, bool) {
	if s.dialog == nil {
		return Dialog{}, false
	}
	return *s.dialog, true
}

// RequestConfirmation opens d and parks h until the dialog is answered. A
// dialog that is already open is replaced and its handler discarded without
// running.
func (s *Session) RequestConfirmation(d Dialog, h Handler) {
	if s.dialog != nil {
		s.logger.WithField("title", s.dialog.Title).Debug("Replacing open dialog")
	}
	s.dialog = &d
	s.handler = h
	s.Mark(RegionDialog)
}

// ShowMessage opens an informational dialog.
func (s *Session) ShowMessage(title, text string) {
	s.RequestConfirmation(Dialog{Kind: DialogMessage, Title: title, Text: text}, nil)
}

// ShowError opens an error dialog for err.
func (s *Session) ShowError(title string, err error) {
	s.logger.WithError(err).Warn(title)
	s.RequestConfirmation(Dialog{Kind: DialogError, Title: title, Text: err.Error()}, nil)
}

// Resolve closes the open dialog and runs its handler with o. The handler is
// removed from the session before it runs, so it may open a new dialog.
// Resolve does nothing when no dialog is open.
func (s *Session) Resolve(o Outcome) {
	if s.dialog == nil {
		return
	}
	h := s.handler
	s.dialog, s.handler = nil, nil
	s.Mark(RegionAll)
	s.clamp()

	if h != nil {
		h.Execute(s, o)
	}
}
