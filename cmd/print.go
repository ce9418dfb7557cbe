package cmd

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/content7z/internal/archiver"
)

// printArchive writes the entry tree of a as an indented listing or as YAML.
func printArchive(w io.Writer, a *archiver.Archive, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a.Root); err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		return enc.Close()
	}

	if _, err := fmt.Fprintln(w, a.Path); err != nil {
		return err
	}
	return a.Root.Print(w)
}
