package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/content7z/internal/archiver"
	"github.com/mattsolo1/content7z/pkg/listing"
)

type fakeRunner struct {
	stdout string
	stderr string
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return []byte(f.stdout), []byte(f.stderr), nil
}

func row(attr, name string) string {
	return fmt.Sprintf("%s %s %12s %12s  %s", "2024-03-09 18:22:41", attr, "10", "", name)
}

func sampleListing() string {
	return strings.Join([]string{
		"7-Zip [64] 17.05 : Copyright (c) 1999-2021 Igor Pavlov",
		"",
		"Path = backup.7z",
		"Type = 7z",
		"",
		listing.Header,
		listing.Separator,
		row("D....", "docs"),
		row("....A", "docs/readme.txt"),
		row("....A", "image.png"),
		listing.Separator,
		"",
	}, "\n")
}

// execute runs the root command with a fake archive tool and an empty home.
func execute(t *testing.T, r *fakeRunner, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	saved := runner
	runner = r
	t.Cleanup(func() { runner = saved })

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"a.7z", "b.7z"}} {
		_, _, err := execute(t, &fakeRunner{}, args...)
		assert.ErrorIs(t, err, ErrUsage)
	}
}

func TestPrintText(t *testing.T) {
	r := &fakeRunner{stdout: sampleListing()}
	out, _, err := execute(t, r, "--print", "backup.7z")
	require.NoError(t, err)

	assert.Equal(t, "backup.7z\n./\n├── docs/\n│   └── readme.txt\n└── image.png\n", out)
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"7z", "l", "backup.7z"}, r.calls[0])
}

func TestPrintYAML(t *testing.T) {
	out, _, err := execute(t, &fakeRunner{stdout: sampleListing()}, "--print", "--format", "yaml", "backup.7z")
	require.NoError(t, err)

	assert.Contains(t, out, "name: docs")
	assert.Contains(t, out, "- readme.txt")
	assert.Contains(t, out, "- image.png")
}

func TestUnknownFormat(t *testing.T) {
	r := &fakeRunner{stdout: sampleListing()}
	_, _, err := execute(t, r, "--print", "--format", "json", "backup.7z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
	assert.Empty(t, r.calls)
}

func TestListFailure(t *testing.T) {
	_, _, err := execute(t, &fakeRunner{stderr: "ERROR: backup.7z: cannot find archive"}, "--print", "backup.7z")
	assert.ErrorIs(t, err, archiver.ErrListFailed)
}

func TestConfiguredTool(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "c7z.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`tool = "7zz"`), 0644))

	r := &fakeRunner{stdout: sampleListing()}
	_, _, err := execute(t, r, "--config", cfg, "--print", "backup.7z")
	require.NoError(t, err)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "7zz", r.calls[0][0])
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c7z.log")
	logger, closeLog, err := newLogger("info", path, nil)
	require.NoError(t, err)
	logger.WithField("component", "test").Info("hello")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "component=test")

	var buf bytes.Buffer
	logger, closeLog, err = newLogger("", "", &buf)
	require.NoError(t, err)
	defer closeLog()
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	_, _, err = newLogger("loud", "", &buf)
	assert.Error(t, err)
}
