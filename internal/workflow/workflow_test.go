package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/content7z/internal/session"
	"github.com/mattsolo1/content7z/pkg/ledger"
	"github.com/mattsolo1/content7z/pkg/tree"
)

type extractCall struct {
	path      string
	destDir   string
	overwrite bool
}

// fakeExtractor writes a small file for every extraction so cache hits can be
// observed on disk.
type fakeExtractor struct {
	dir        string
	tempCalls  int
	mkdirCalls []string
	extracts   []extractCall
	extractErr error
	mkdirErr   error
}

func (f *fakeExtractor) TempDir(_ context.Context, _ string) (string, error) {
	f.tempCalls++
	return f.dir, nil
}

func (f *fakeExtractor) MakeDirs(_ context.Context, dir string) error {
	f.mkdirCalls = append(f.mkdirCalls, dir)
	if f.mkdirErr != nil {
		return f.mkdirErr
	}
	return os.MkdirAll(dir, 0755)
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, path, destDir string, overwrite bool) error {
	f.extracts = append(f.extracts, extractCall{path: path, destDir: destDir, overwrite: overwrite})
	if f.extractErr != nil {
		return f.extractErr
	}
	return os.WriteFile(filepath.Join(destDir, filepath.Base(path)), []byte("content"), 0644)
}

func setup(t *testing.T, opts Options) (*Workflow, *fakeExtractor, *session.Session) {
	t.Helper()
	if opts.Editor == "" {
		opts.Editor = "vim"
	}
	opts.Archive = "backup.7z"
	ex := &fakeExtractor{dir: t.TempDir()}
	w := New(context.Background(), ex, opts, nil)
	t.Cleanup(func() { w.Close() })

	root, _ := tree.Build([]tree.Record{{Path: "docs/readme.txt"}, {Path: "image.png"}})
	return w, ex, session.New(root, nil)
}

func takeEdit(t *testing.T, s *session.Session) session.EditRequest {
	t.Helper()
	r, ok := s.TakeEditRequest()
	require.True(t, ok, "expected an edit request")
	return r
}

func TestOpenFileExtractsAndEdits(t *testing.T) {
	w, ex, s := setup(t, Options{})

	w.OpenFile(s, "docs/readme.txt")

	assert.Equal(t, session.Browsing, s.State())
	require.Len(t, ex.extracts, 1)
	want := filepath.Join(ex.dir, FilesDir, "docs", "readme.txt")
	assert.Equal(t, extractCall{path: "docs/readme.txt", destDir: filepath.Dir(want)}, ex.extracts[0])
	assert.Equal(t, []string{filepath.Dir(want)}, ex.mkdirCalls)
	assert.Equal(t, session.EditRequest{Editor: "vim", Path: want}, takeEdit(t, s))
	assert.True(t, w.IsCached("docs/readme.txt"))
	assert.Equal(t, "Extracted docs/readme.txt", s.Status())
}

func TestTempDirCreatedOnce(t *testing.T) {
	w, ex, s := setup(t, Options{AlwaysOverwrite: true})
	assert.Equal(t, "", w.TempDir())

	w.OpenFile(s, "docs/readme.txt")
	w.OpenFile(s, "image.png")
	w.OpenFile(s, "image.png")

	assert.Equal(t, 1, ex.tempCalls)
	assert.Equal(t, ex.dir, w.TempDir())
}

func TestCacheHitDeniedOpensCachedCopy(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "image.png")
	takeEdit(t, s)

	w.OpenFile(s, "image.png")
	require.Equal(t, session.DialogOpen, s.State())
	d, _ := s.Dialog()
	assert.Equal(t, DefaultDialogHelper, d.Help)
	assert.Equal(t, []rune{'a'}, d.Choices)

	s.Resolve(session.Denied())

	assert.Len(t, ex.extracts, 1, "cached copy must not be extracted again")
	assert.Equal(t, filepath.Join(ex.dir, FilesDir, "image.png"), takeEdit(t, s).Path)
}

func TestCacheHitUndecidedOpensCachedCopy(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "image.png")
	takeEdit(t, s)

	w.OpenFile(s, "image.png")
	s.Resolve(session.Undecided())

	assert.Len(t, ex.extracts, 1)
	takeEdit(t, s)
}

func TestCacheHitConfirmedOverwrites(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "image.png")
	takeEdit(t, s)

	w.OpenFile(s, "image.png")
	s.Resolve(session.Confirmed(true))

	require.Len(t, ex.extracts, 2)
	assert.False(t, ex.extracts[0].overwrite)
	assert.True(t, ex.extracts[1].overwrite)
	takeEdit(t, s)
}

func TestCacheHitAlwaysChoice(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "image.png")
	w.OpenFile(s, "docs/readme.txt")

	w.OpenFile(s, "image.png")
	s.Resolve(session.KeyPress('a'))
	require.Len(t, ex.extracts, 3)
	assert.True(t, ex.extracts[2].overwrite)

	// Later cache hits no longer ask.
	w.OpenFile(s, "docs/readme.txt")
	assert.Equal(t, session.Browsing, s.State())
	require.Len(t, ex.extracts, 4)
	assert.True(t, ex.extracts[3].overwrite)
}

func TestAlwaysOverwriteConfig(t *testing.T) {
	w, ex, s := setup(t, Options{AlwaysOverwrite: true})
	w.OpenFile(s, "image.png")
	w.OpenFile(s, "image.png")

	assert.Equal(t, session.Browsing, s.State())
	require.Len(t, ex.extracts, 2)
	assert.False(t, ex.extracts[0].overwrite)
	assert.True(t, ex.extracts[1].overwrite)
}

func TestNoEditorShowsError(t *testing.T) {
	w, ex, s := setup(t, Options{Editor: "  "})

	w.OpenFile(s, "image.png")

	d, ok := s.Dialog()
	require.True(t, ok)
	assert.Equal(t, session.DialogError, d.Kind)
	assert.Equal(t, ErrNoEditor.Error(), d.Text)
	assert.Empty(t, ex.extracts)
	_, ok = s.TakeEditRequest()
	assert.False(t, ok)
}

func TestExtractFailureKeepsBrowsing(t *testing.T) {
	w, ex, s := setup(t, Options{})
	ex.extractErr = errors.New("7z exited with status 2")

	w.OpenFile(s, "image.png")

	d, ok := s.Dialog()
	require.True(t, ok)
	assert.Equal(t, session.DialogError, d.Kind)
	_, ok = s.TakeEditRequest()
	assert.False(t, ok)
	assert.False(t, w.IsCached("image.png"))

	s.Resolve(session.Undecided())
	assert.Equal(t, session.Browsing, s.State())

	// A retry is possible once the extractor works again.
	ex.extractErr = nil
	w.OpenFile(s, "image.png")
	takeEdit(t, s)
}

func TestMkdirFailureAbortsExtraction(t *testing.T) {
	w, ex, s := setup(t, Options{})
	ex.mkdirErr = errors.New("mkdir exited with status 1")

	w.OpenFile(s, "docs/readme.txt")

	assert.Empty(t, ex.extracts)
	assert.Equal(t, session.DialogOpen, s.State())
}

func TestUnsafePathRejected(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "../../etc/passwd")

	d, ok := s.Dialog()
	require.True(t, ok)
	assert.Contains(t, d.Text, ErrUnsafePath.Error())
	assert.Empty(t, ex.extracts)
}

func TestOpenAsksFirst(t *testing.T) {
	w, ex, s := setup(t, Options{ConfirmOpen: true})

	w.Open(s, "image.png")
	d, ok := s.Dialog()
	require.True(t, ok)
	assert.True(t, d.DefaultYes)
	assert.Empty(t, ex.extracts)

	s.Resolve(session.Denied())
	assert.Empty(t, ex.extracts)

	w.Open(s, "image.png")
	s.Resolve(session.Confirmed(false))
	assert.Len(t, ex.extracts, 1)
	takeEdit(t, s)
}

func TestRemoveCached(t *testing.T) {
	w, _, s := setup(t, Options{})

	w.RemoveCached(s, "image.png")
	d, _ := s.Dialog()
	assert.Equal(t, session.DialogMessage, d.Kind)
	s.Resolve(session.Undecided())

	w.OpenFile(s, "image.png")
	takeEdit(t, s)
	require.True(t, w.IsCached("image.png"))

	w.RemoveCached(s, "image.png")
	s.Resolve(session.Denied())
	assert.True(t, w.IsCached("image.png"))

	w.RemoveCached(s, "image.png")
	s.Resolve(session.Confirmed(true))
	assert.False(t, w.IsCached("image.png"))
	assert.Equal(t, "Removed cached image.png", s.Status())
}

func TestShowHistory(t *testing.T) {
	w, _, s := setup(t, Options{})
	w.ShowHistory(s)
	d, _ := s.Dialog()
	assert.Equal(t, "Nothing extracted yet.", d.Text)
	s.Resolve(session.Undecided())

	w.OpenFile(s, "image.png")
	takeEdit(t, s)

	entries, err := w.History(5)
	if err != nil || entries == nil {
		t.Skip("sqlite ledger unavailable")
	}
	require.Len(t, entries, 1)
	assert.Equal(t, "image.png", entries[0].Path)

	w.ShowHistory(s)
	d, _ = s.Dialog()
	assert.Contains(t, d.Text, "image.png")
}

func TestLedgerNameIsAnOrdinaryMember(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "image.png")
	takeEdit(t, s)

	assert.False(t, w.IsCached(ledger.FileName))

	w.OpenFile(s, ledger.FileName)
	assert.Equal(t, session.Browsing, s.State())
	require.Len(t, ex.extracts, 2)
	assert.Equal(t, ledger.FileName, ex.extracts[1].path)
	assert.Equal(t, filepath.Join(ex.dir, FilesDir), ex.extracts[1].destDir)
	assert.Equal(t, filepath.Join(ex.dir, FilesDir, ledger.FileName), takeEdit(t, s).Path)
}

func TestParentOfFilesDirRejected(t *testing.T) {
	w, ex, s := setup(t, Options{})
	w.OpenFile(s, "../"+ledger.FileName)

	d, ok := s.Dialog()
	require.True(t, ok)
	assert.Contains(t, d.Text, ErrUnsafePath.Error())
	assert.Empty(t, ex.extracts)
}

func TestLastExtraction(t *testing.T) {
	w, _, s := setup(t, Options{AlwaysOverwrite: true})
	_, ok := w.LastExtraction("image.png")
	assert.False(t, ok)

	w.OpenFile(s, "image.png")
	takeEdit(t, s)
	w.OpenFile(s, "image.png")
	takeEdit(t, s)

	e, ok := w.LastExtraction("image.png")
	if !ok {
		t.Skip("sqlite ledger unavailable")
	}
	assert.Equal(t, "image.png", e.Path)
	assert.True(t, e.Overwrite)
	assert.Equal(t, filepath.Join(w.TempDir(), FilesDir, "image.png"), e.CachePath)

	_, ok = w.LastExtraction("docs/readme.txt")
	assert.False(t, ok)
}
