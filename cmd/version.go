package cmd

import (
	"github.com/mattsolo1/grove-core/version"
)

// versionString is shown by `c7z --version`.
func versionString() string {
	return version.GetInfo().String()
}
