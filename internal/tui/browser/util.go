package browser

import (
	"os"
	"path/filepath"
	"strings"
)

const ellipsis = "..."

// shortenPath replaces the home directory prefix with a tilde (~).
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}

	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return filepath.Join("~", strings.TrimPrefix(path, home))
	}

	return path
}

// truncateRight cuts s to at most n runes, ending it with an ellipsis.
func truncateRight(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-len(ellipsis)]) + ellipsis
}

// truncateLeft cuts s to at most n runes, keeping its end.
func truncateLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string(r[len(r)-max(n, 0):])
	}
	return ellipsis + string(r[len(r)-n+len(ellipsis):])
}
