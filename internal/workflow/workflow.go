// Package workflow implements extract-and-edit: archive members are extracted
// into a per-session cache directory and handed to an editor, asking before a
// cached copy is extracted again.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/content7z/internal/session"
	"github.com/mattsolo1/content7z/pkg/ledger"
)

// ErrNoEditor is reported when a file is opened without an editor configured.
var ErrNoEditor = errors.New("no editor configured: set 'editor' in the config file or $EDITOR")

// ErrUnsafePath is reported for archive members that would land outside the
// cache directory.
var ErrUnsafePath = errors.New("path escapes the extraction directory")

// TempPattern is the mktemp template of the cache directory.
const TempPattern = "content7z.XXXXXXXX"

// FilesDir is the subdirectory of the cache directory that extracted members
// are written to. The extraction ledger sits beside it.
const FilesDir = "files"

// DefaultDialogHelper lists the keys of the overwrite dialog.
const DefaultDialogHelper = "[y]es  [n]o  [a]lways"

// Extractor is the process layer the workflow drives.
type Extractor interface {
	Extract(ctx context.Context, archive, path, destDir string, overwrite bool) error
	MakeDirs(ctx context.Context, dir string) error
	TempDir(ctx context.Context, pattern string) (string, error)
}

// Options configures a Workflow.
type Options struct {
	// Archive is the archive file passed to the extractor.
	Archive string
	// Editor is the command files are opened with. Empty means none.
	Editor string
	// AlwaysOverwrite re-extracts cached files without asking.
	AlwaysOverwrite bool
	// ConfirmOpen asks before opening a file.
	ConfirmOpen bool
	// DialogHelper is shown under the overwrite question.
	DialogHelper string
}

// Workflow owns the session's extraction cache.
type Workflow struct {
	ctx    context.Context
	ex     Extractor
	opts   Options
	logger *logrus.Entry

	tempDir      string
	overwriteAll bool
	ledger       *ledger.Ledger
	now          func() time.Time
}

// New creates a Workflow. ctx bounds every subprocess it starts.
func New(ctx context.Context, ex Extractor, opts Options, logger *logrus.Entry) *Workflow {
	if opts.DialogHelper == "" {
		opts.DialogHelper = DefaultDialogHelper
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Workflow{
		ctx:    ctx,
		ex:     ex,
		opts:   opts,
		logger: logger.WithField("component", "workflow"),
		now:    time.Now,
	}
}

// TempDir returns the cache directory, or "" before the first extraction.
func (w *Workflow) TempDir() string {
	return w.tempDir
}

// CachePath returns where path is extracted to, or "" before the cache
// directory exists.
func (w *Workflow) CachePath(path string) string {
	if w.tempDir == "" {
		return ""
	}
	return filepath.Join(w.filesDir(), filepath.FromSlash(path))
}

func (w *Workflow) filesDir() string {
	return filepath.Join(w.tempDir, FilesDir)
}

// IsCached reports whether path has a copy in the cache directory.
func (w *Workflow) IsCached(path string) bool {
	p := w.CachePath(path)
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Close releases the ledger. The cache directory is left in place.
func (w *Workflow) Close() error {
	if w.ledger == nil {
		return nil
	}
	return w.ledger.Close()
}

// Open opens path, first asking for confirmation when ConfirmOpen is set.
func (w *Workflow) Open(s *session.Session, path string) {
	if !w.opts.ConfirmOpen {
		w.OpenFile(s, path)
		return
	}
	s.RequestConfirmation(session.Dialog{
		Kind:       session.DialogConfirm,
		Title:      "Open file",
		Text:       fmt.Sprintf("Open %s?", path),
		Help:       "(Y/n)",
		DefaultYes: true,
	}, session.NewHandler(w.onOpenAnswer, path))
}

func (w *Workflow) onOpenAnswer(s *session.Session, o session.Outcome, path string) {
	if o.IsConfirmed() {
		w.OpenFile(s, path)
	}
}

// cacheHit is the state captured by the overwrite question.
type cacheHit struct {
	Path      string
	CachePath string
	TempDir   string
}

// OpenFile extracts path into the cache directory and asks the session to
// open it in the editor. A cached copy is reused unless the user chooses to
// extract it again. Failures are shown as dialogs and leave the session
// browsing.
func (w *Workflow) OpenFile(s *session.Session, path string) {
	if strings.TrimSpace(w.opts.Editor) == "" {
		s.ShowError("Cannot open file", ErrNoEditor)
		return
	}

	dir, err := w.ensureTempDir()
	if err != nil {
		s.ShowError("Cannot create cache directory", err)
		return
	}
	hit := cacheHit{Path: path, CachePath: w.CachePath(path), TempDir: dir}
	if !insideDir(w.filesDir(), hit.CachePath) {
		s.ShowError("Cannot open file", fmt.Errorf("%s: %w", path, ErrUnsafePath))
		return
	}

	if !w.IsCached(path) {
		w.extractAndEdit(s, hit, false)
		return
	}
	if w.opts.AlwaysOverwrite || w.overwriteAll {
		w.extractAndEdit(s, hit, true)
		return
	}

	s.RequestConfirmation(session.Dialog{
		Kind:    session.DialogConfirm,
		Title:   "Already extracted",
		Text:    fmt.Sprintf("%s was already extracted. Extract again?", path),
		Help:    w.opts.DialogHelper,
		Choices: []rune{'a'},
	}, session.NewHandler(w.onOverwriteAnswer, hit))
}

func (w *Workflow) onOverwriteAnswer(s *session.Session, o session.Outcome, hit cacheHit) {
	switch {
	case o.IsConfirmed():
		w.extractAndEdit(s, hit, true)
	case o.Kind == session.OutcomeKeyPress && o.Key == 'a':
		w.overwriteAll = true
		w.extractAndEdit(s, hit, true)
	default:
		w.logger.WithField("path", hit.Path).Debug("Opening cached copy")
		w.edit(s, hit.CachePath)
	}
}

func (w *Workflow) extractAndEdit(s *session.Session, hit cacheHit, overwrite bool) {
	parent := filepath.Dir(hit.CachePath)
	if err := w.ex.MakeDirs(w.ctx, parent); err != nil {
		s.ShowError("Extraction failed", err)
		return
	}
	if err := w.ex.Extract(w.ctx, w.opts.Archive, hit.Path, parent, overwrite); err != nil {
		s.ShowError("Extraction failed", err)
		return
	}

	w.record(ledger.Entry{
		Path:        hit.Path,
		CachePath:   hit.CachePath,
		Overwrite:   overwrite,
		ExtractedAt: w.now(),
	})
	s.SetStatus("Extracted " + hit.Path)
	w.edit(s, hit.CachePath)
}

func (w *Workflow) edit(s *session.Session, path string) {
	s.RequestEdit(session.EditRequest{Editor: w.opts.Editor, Path: path})
}

// RemoveCached asks whether to delete the cached copy of path and deletes it
// when confirmed.
func (w *Workflow) RemoveCached(s *session.Session, path string) {
	if !w.IsCached(path) {
		s.ShowMessage("Not extracted", fmt.Sprintf("%s has no cached copy.", path))
		return
	}
	s.RequestConfirmation(session.Dialog{
		Kind:  session.DialogConfirm,
		Title: "Remove cached copy",
		Text:  fmt.Sprintf("Delete the extracted copy of %s?", path),
		Help:  "(y/N)",
	}, session.NewHandler(w.onRemoveAnswer, cacheHit{Path: path, CachePath: w.CachePath(path), TempDir: w.tempDir}))
}

func (w *Workflow) onRemoveAnswer(s *session.Session, o session.Outcome, hit cacheHit) {
	if !o.IsConfirmed() {
		return
	}
	if err := os.Remove(hit.CachePath); err != nil {
		s.ShowError("Cannot remove cached copy", err)
		return
	}
	if w.ledger != nil {
		if err := w.ledger.Forget(hit.Path); err != nil {
			w.logger.WithError(err).Warn("Failed to update extraction ledger")
		}
	}
	s.SetStatus("Removed cached " + hit.Path)
}

// History returns the most recent extractions of this session.
func (w *Workflow) History(limit int) ([]ledger.Entry, error) {
	if w.ledger == nil {
		return nil, nil
	}
	return w.ledger.Recent(limit)
}

// LastExtraction returns the ledger entry of the latest extraction of path.
// It reports false when path was not extracted or the ledger is unavailable.
func (w *Workflow) LastExtraction(path string) (ledger.Entry, bool) {
	if w.ledger == nil {
		return ledger.Entry{}, false
	}
	e, ok, err := w.ledger.Lookup(path)
	if err != nil {
		w.logger.WithError(err).WithField("path", path).Warn("Failed to read extraction ledger")
		return ledger.Entry{}, false
	}
	return e, ok
}

// ShowHistory opens a message dialog listing recent extractions.
func (w *Workflow) ShowHistory(s *session.Session) {
	entries, err := w.History(10)
	if err != nil {
		s.ShowError("Cannot read extraction history", err)
		return
	}
	if len(entries) == 0 {
		s.ShowMessage("Extraction history", "Nothing extracted yet.")
		return
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		mark := " "
		if e.Overwrite {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %s %s", e.ExtractedAt.Format("15:04:05"), mark, e.Path)
	}
	s.ShowMessage("Extraction history", b.String())
}

// ensureTempDir creates the cache directory on first use.
func (w *Workflow) ensureTempDir() (string, error) {
	if w.tempDir != "" {
		return w.tempDir, nil
	}
	dir, err := w.ex.TempDir(w.ctx, TempPattern)
	if err != nil {
		return "", err
	}
	w.tempDir = dir
	w.logger.WithField("dir", dir).Info("Created extraction cache")

	l, err := ledger.Open(filepath.Join(dir, ledger.FileName))
	if err != nil {
		w.logger.WithError(err).Warn("Extraction ledger unavailable")
	} else {
		w.ledger = l
	}
	return dir, nil
}

func insideDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Workflow) record(e ledger.Entry) {
	if w.ledger == nil {
		return
	}
	if err := w.ledger.Record(e); err != nil {
		w.logger.WithError(err).Warn("Failed to update extraction ledger")
	}
}
