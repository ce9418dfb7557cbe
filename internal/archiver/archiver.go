// Package archiver drives the external programs content7z depends on: the 7z
// lister/extractor plus mkdir and mktemp for the extraction cache.
package archiver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/content7z/pkg/listing"
	"github.com/mattsolo1/content7z/pkg/tree"
)

// ErrListFailed is returned when the lister reports a problem with the archive.
var ErrListFailed = errors.New("archive listing failed")

// DefaultTool is the lister/extractor binary used when none is configured.
const DefaultTool = "7z"

// Archiver wraps one lister/extractor binary.
type Archiver struct {
	tool   string
	runner Runner
	logger *logrus.Entry
}

// New creates an Archiver. An empty tool selects DefaultTool and a nil runner
// selects ExecRunner.
func New(tool string, runner Runner, logger *logrus.Entry) *Archiver {
	if tool == "" {
		tool = DefaultTool
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Archiver{
		tool:   tool,
		runner: runner,
		logger: logger.WithField("component", "archiver"),
	}
}

// Tool returns the lister/extractor binary name.
func (a *Archiver) Tool() string {
	return a.tool
}

// List runs `<tool> l <archive>` and returns its standard output. Anything
// written to standard error is treated as a failure.
func (a *Archiver) List(ctx context.Context, archive string) (string, error) {
	stdout, stderr, err := a.runner.Run(ctx, a.tool, "l", archive)
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return "", fmt.Errorf("%w: %s", ErrListFailed, msg)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	return string(stdout), nil
}

// Extract runs `<tool> e <archive> -o<destDir> [-y] -spd -- <path>`, writing
// the single archive member into destDir without its stored directories. The
// -y flag is passed only when overwrite is set. -spd and -- make path match
// literally, even when it contains wildcards or starts with a dash.
func (a *Archiver) Extract(ctx context.Context, archive, path, destDir string, overwrite bool) error {
	args := []string{"e", archive, "-o" + destDir}
	if overwrite {
		args = append(args, "-y")
	}
	args = append(args, "-spd", "--", path)
	a.logger.WithFields(logrus.Fields{
		"path":      path,
		"dest":      destDir,
		"overwrite": overwrite,
	}).Debug("Extracting archive member")

	if _, _, err := a.runner.Run(ctx, a.tool, args...); err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}
	return nil
}

// MakeDirs runs `mkdir -p <dir>`.
func (a *Archiver) MakeDirs(ctx context.Context, dir string) error {
	if _, _, err := a.runner.Run(ctx, "mkdir", "-p", dir); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// TempDir runs `mktemp -d -t <pattern>` and returns the created directory.
func (a *Archiver) TempDir(ctx context.Context, pattern string) (string, error) {
	stdout, _, err := a.runner.Run(ctx, "mktemp", "-d", "-t", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	dir := strings.TrimSpace(string(stdout))
	if dir == "" {
		return "", fmt.Errorf("create temp directory: mktemp printed no path")
	}
	return dir, nil
}

// Archive is the parsed listing of one archive file.
type Archive struct {
	// File is the archive path as given on the command line.
	File string
	// Path is the archive path as reported by the lister.
	Path string
	Root *tree.Folder
}

// Load lists archive and builds its entry tree. Listing failures and a
// missing table header are returned as errors; individual malformed records
// are logged and skipped.
func (a *Archiver) Load(ctx context.Context, archive string) (*Archive, error) {
	out, err := a.List(ctx, archive)
	if err != nil {
		return nil, err
	}

	res, err := listing.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("parse listing of %s: %w", archive, err)
	}
	for _, line := range res.Skipped {
		a.logger.WithField("line", line).Warn("Skipping short listing line")
	}

	root, dropped := tree.Build(res.Records)
	for _, p := range dropped {
		a.logger.WithField("path", p).Warn("Skipping entry that conflicts with an existing one")
	}

	path := listing.ArchivePath(out)
	if path == "" {
		path = archive
	}
	a.logger.WithFields(logrus.Fields{
		"archive": path,
		"entries": len(res.Records),
	}).Info("Loaded archive listing")

	return &Archive{File: archive, Path: path, Root: root}, nil
}
