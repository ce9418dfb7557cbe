package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattsolo1/content7z/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		if errors.Is(err, cmd.ErrUsage) {
			fmt.Fprintln(os.Stderr, cmd.UsageLine)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
