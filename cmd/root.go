package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/content7z/cmd/config"
	"github.com/mattsolo1/content7z/internal/archiver"
	"github.com/mattsolo1/content7z/internal/session"
	"github.com/mattsolo1/content7z/internal/tui/browser"
	"github.com/mattsolo1/content7z/internal/workflow"
	"github.com/mattsolo1/content7z/pkg/models"
)

// UsageLine is printed when the command line is malformed.
const UsageLine = "usage: c7z <archive>"

// ErrUsage is returned when the command line does not name exactly one archive.
var ErrUsage = errors.New("expected exactly one archive argument")

// runner executes the archive tool. Tests replace it.
var runner archiver.Runner = archiver.ExecRunner{}

// NewRootCmd creates the `c7z` command.
func NewRootCmd() *cobra.Command {
	var (
		printTree bool
		format    string
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "c7z <archive>",
		Short: "Browse the contents of an archive in the terminal",
		Long: `Browse the folders of an archive without unpacking it, and open any file
in your editor. Files are extracted on demand into a temporary directory that
is kept after exit.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			return nil
		},
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q: use text or yaml", format)
			}
			if !printTree && !isTerminal(os.Stdout) {
				return fmt.Errorf("TUI mode requires an interactive terminal (use --print)")
			}

			cfg, err := config.Load(config.File())
			if err != nil {
				return err
			}
			if logFile != "" {
				cfg.LogFile = logFile
			}

			// The TUI owns the terminal, so logs only go to a file while it runs.
			fallback := io.Discard
			if printTree {
				fallback = cmd.ErrOrStderr()
			}
			logger, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile, fallback)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ar := archiver.New(cfg.Tool, runner, logrus.NewEntry(logger))
			archive, err := ar.Load(ctx, args[0])
			if err != nil {
				return err
			}

			if printTree {
				return printArchive(cmd.OutOrStdout(), archive, format)
			}
			return runBrowser(ctx, cmd.ErrOrStderr(), ar, archive, cfg, logger)
		},
	}

	config.AddGlobalFlags(cmd)
	cmd.Flags().BoolVar(&printTree, "print", false, "Print the archive tree and exit")
	cmd.Flags().StringVar(&format, "format", "text", "Output format for --print: text or yaml")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runBrowser(ctx context.Context, stderr io.Writer, ar *archiver.Archiver, archive *archiver.Archive, cfg *models.Config, logger *logrus.Logger) error {
	entry := logrus.NewEntry(logger)

	w := workflow.New(ctx, ar, workflow.Options{
		Archive:         archive.File,
		Editor:          config.ResolveEditor(cfg),
		AlwaysOverwrite: cfg.AlwaysOverwrite,
		ConfirmOpen:     cfg.ConfirmOpen,
		DialogHelper:    cfg.DialogHelper,
	}, entry)
	defer w.Close()

	s := session.New(archive.Root, entry)
	model := browser.New(s, w, archive.Path, browser.NewScheme(cfg))
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if dir := w.TempDir(); dir != "" {
		fmt.Fprintf(stderr, "Extracted files are in %s\n", filepath.Join(dir, workflow.FilesDir))
	}
	return nil
}
