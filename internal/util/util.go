//go:build !windows

package util

import (
	"os"

	"golang.org/x/term"
)

// EnableColor reports whether ANSI colour sequences can be written to f.
func EnableColor(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
